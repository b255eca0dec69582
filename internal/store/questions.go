package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/licenseprep/curricula/pkg/models"
)

// EnsureBank creates a question bank by key, returning the stored row
// either way.
func (s *Store) EnsureBank(ctx context.Context, key, title string) (*models.QuestionBank, bool, error) {
	var existing models.QuestionBank
	err := s.db.WithContext(ctx).Where("key = ?", key).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	bank := models.QuestionBank{ID: uuid.New(), Key: key, Title: title}
	if err := s.db.WithContext(ctx).Create(&bank).Error; err != nil {
		return nil, false, err
	}
	return &bank, true, nil
}

// AddQuestions appends validated questions to a bank. Question ingestion
// is additive; bank membership is never rewritten by an import.
func (s *Store) AddQuestions(ctx context.Context, bankID uuid.UUID, questions []models.ExtractedQuestion) (int, error) {
	rows := make([]models.Question, 0, len(questions))
	for _, q := range questions {
		if err := q.Validate(); err != nil {
			continue
		}
		rows = append(rows, models.Question{
			ID:          uuid.New(),
			BankID:      bankID,
			Type:        q.Type,
			Stem:        q.Stem,
			Options:     q.Options,
			AnswerKey:   q.AnswerKey,
			Difficulty:  q.Difficulty,
			Topic:       q.Topic,
			Explanation: q.Explanation,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	if err := s.db.WithContext(ctx).CreateInBatches(rows, 100).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func (s *Store) ListBanks(ctx context.Context) ([]models.QuestionBank, error) {
	var banks []models.QuestionBank
	err := s.db.WithContext(ctx).Preload("Questions").Find(&banks).Error
	return banks, err
}

// EnsureExamConfig is slug-idempotent like the curriculum Ensure calls.
func (s *Store) EnsureExamConfig(ctx context.Context, cfg *models.ExamConfig) (bool, error) {
	var existing models.ExamConfig
	err := s.db.WithContext(ctx).Where("slug = ?", cfg.Slug).First(&existing).Error
	if err == nil {
		*cfg = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(cfg).Error; err != nil {
		return false, err
	}
	return true, nil
}
