package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/licenseprep/curricula/pkg/models"
)

// ReplaceCheckpoints swaps a lesson's checkpoint set in one transaction.
// Partial sequences are never visible: the gating invariants only hold
// over a complete set, so the whole thing goes in or nothing does.
func (s *Store) ReplaceCheckpoints(ctx context.Context, lessonID uuid.UUID, cps []models.Checkpoint) error {
	if err := models.ValidateCheckpointSequence(cps); err != nil {
		return fmt.Errorf("checkpoint sequence for lesson %s: %w", lessonID, err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("lesson_id = ?", lessonID).Delete(&models.Checkpoint{}).Error; err != nil {
			return err
		}
		return tx.Create(&cps).Error
	})
}

// UpdateMicroquiz rewrites only the quiz payload and body of a lesson's
// microquiz checkpoint, leaving order and siblings alone.
func (s *Store) UpdateMicroquiz(ctx context.Context, lessonID uuid.UUID, quiz models.QuizPayload, body string) error {
	result := s.db.WithContext(ctx).
		Model(&models.Checkpoint{}).
		Where("lesson_id = ? AND type = ?", lessonID, models.CheckpointMicroquiz).
		Updates(map[string]interface{}{
			"quiz":          datatypes.NewJSONType(quiz),
			"body_markdown": body,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("lesson %s has no microquiz checkpoint", lessonID)
	}
	return nil
}

func (s *Store) GetCheckpoints(ctx context.Context, lessonID uuid.UUID) ([]models.Checkpoint, error) {
	var cps []models.Checkpoint
	err := s.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("order_index ASC").
		Find(&cps).Error
	return cps, err
}

func (s *Store) GetCheckpoint(ctx context.Context, id uuid.UUID) (*models.Checkpoint, error) {
	var cp models.Checkpoint
	if err := s.db.WithContext(ctx).First(&cp, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &cp, nil
}
