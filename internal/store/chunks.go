package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/licenseprep/curricula/pkg/models"
)

// ReplaceChunks swaps a lesson's chunk set atomically: re-importing
// content never leaves a mix of old and new passages.
func (s *Store) ReplaceChunks(ctx context.Context, lessonID uuid.UUID, chunks []models.ContentChunk) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("lesson_id = ?", lessonID).Delete(&models.ContentChunk{}).Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}
		// Text is large; keep insert batches small.
		return tx.CreateInBatches(chunks, 50).Error
	})
}

func (s *Store) GetChunks(ctx context.Context, lessonID uuid.UUID) ([]models.ContentChunk, error) {
	var chunks []models.ContentChunk
	err := s.db.WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Order("chunk_index ASC").
		Find(&chunks).Error
	return chunks, err
}
