package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/licenseprep/curricula/pkg/models"
)

// EnsureTrack creates the track unless its slug already exists, in which
// case the stored row is copied back and created is false. Existing rows
// are never overwritten by an import.
func (s *Store) EnsureTrack(ctx context.Context, t *models.Track) (bool, error) {
	var existing models.Track
	err := s.db.WithContext(ctx).Where("slug = ?", t.Slug).First(&existing).Error
	if err == nil {
		*t = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(t).Error; err != nil {
		return false, err
	}
	return true, nil
}

// EnsureModule is slug-idempotent within its parent track.
func (s *Store) EnsureModule(ctx context.Context, m *models.Module) (bool, error) {
	var existing models.Module
	err := s.db.WithContext(ctx).
		Where("track_id = ? AND slug = ?", m.TrackID, m.Slug).
		First(&existing).Error
	if err == nil {
		*m = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(m).Error; err != nil {
		return false, err
	}
	return true, nil
}

// EnsureLesson is slug-idempotent; lesson slugs are globally unique.
func (s *Store) EnsureLesson(ctx context.Context, l *models.Lesson) (bool, error) {
	var existing models.Lesson
	err := s.db.WithContext(ctx).Where("slug = ?", l.Slug).First(&existing).Error
	if err == nil {
		*l = existing
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) ListTracks(ctx context.Context) ([]models.Track, error) {
	var tracks []models.Track
	err := s.db.WithContext(ctx).Order("order_index ASC").Find(&tracks).Error
	return tracks, err
}

func (s *Store) ListModulesByTrack(ctx context.Context, trackID uuid.UUID) ([]models.Module, error) {
	var modules []models.Module
	err := s.db.WithContext(ctx).
		Where("track_id = ?", trackID).
		Order("order_index ASC").
		Find(&modules).Error
	return modules, err
}

func (s *Store) GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := s.db.WithContext(ctx).First(&lesson, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (s *Store) ListLessonsByModule(ctx context.Context, moduleID uuid.UUID) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := s.db.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Order("order_index ASC").
		Find(&lessons).Error
	return lessons, err
}

func (s *Store) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	err := s.db.WithContext(ctx).Order("order_index ASC").Find(&lessons).Error
	return lessons, err
}

// ClearCurriculum hard-deletes all curriculum-derived data, preserving
// user flashcards. Used by import --clear before a fresh run.
func (s *Store) ClearCurriculum(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []interface{}{
			&models.CheckpointProgress{},
			&models.Checkpoint{},
			&models.ContentChunk{},
			&models.Question{},
			&models.QuestionBank{},
			&models.ExamConfig{},
			&models.Lesson{},
			&models.Module{},
			&models.Track{},
		} {
			if err := tx.Unscoped().Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
