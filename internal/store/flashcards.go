package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/licenseprep/curricula/internal/srs"
	"github.com/licenseprep/curricula/pkg/models"
)

// CreateFlashcardIfAbsent inserts the card unless its content hash already
// exists. The hash covers user, type, front, and source, so re-running a
// generation pass is a no-op for cards already held.
func (s *Store) CreateFlashcardIfAbsent(ctx context.Context, card *models.Flashcard) (bool, error) {
	var existing models.Flashcard
	err := s.db.WithContext(ctx).Where("hash = ?", card.Hash).First(&existing).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(card).Error; err != nil {
		return false, err
	}
	return true, nil
}

// DueFlashcards returns the user's cards whose next review is at or before
// now, most overdue first.
func (s *Store) DueFlashcards(ctx context.Context, userID uuid.UUID, now time.Time) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND next_review_date <= ?", userID, now).
		Order("next_review_date ASC").
		Find(&cards).Error
	return cards, err
}

func (s *Store) GetFlashcard(ctx context.Context, id uuid.UUID) (*models.Flashcard, error) {
	var card models.Flashcard
	if err := s.db.WithContext(ctx).First(&card, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

func (s *Store) ListFlashcards(ctx context.Context, userID uuid.UUID) ([]models.Flashcard, error) {
	var cards []models.Flashcard
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&cards).Error
	return cards, err
}

// ApplyReview runs the scheduler for one graded review and persists the
// card's new scheduling state. Difficulty, interval, next review date and
// review count always change together.
func (s *Store) ApplyReview(ctx context.Context, cardID uuid.UUID, grade int) (*models.ReviewResult, error) {
	card, err := s.GetFlashcard(ctx, cardID)
	if err != nil {
		return nil, err
	}

	result := srs.Review(card.Difficulty, grade, card.Interval)

	err = s.db.WithContext(ctx).
		Model(&models.Flashcard{}).
		Where("id = ?", cardID).
		Updates(map[string]interface{}{
			"difficulty":       result.Difficulty,
			"interval":         result.Interval,
			"next_review_date": result.NextReviewDate,
			"review_count":     gorm.Expr("review_count + 1"),
		}).Error
	if err != nil {
		return nil, err
	}
	return &result, nil
}
