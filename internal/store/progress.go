package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/licenseprep/curricula/pkg/models"
)

// ProgressUpdate is one progress event for a user/checkpoint pair.
// TimeSpentSeconds is the delta for this session, not a running total.
type ProgressUpdate struct {
	TimeSpentSeconds int
	Complete         bool
	QuizScore        *int
	ReflectionText   string
}

// RecordProgress upserts a user's state on a checkpoint. Time accumulates
// across calls and Completed never reverts once set. Completion requests
// are checked against the checkpoint's gate: reading gates need the
// accumulated time, reflection needs a long-enough response, quiz gates
// need a passing score.
func (s *Store) RecordProgress(ctx context.Context, userID, checkpointID uuid.UUID, update ProgressUpdate) (*models.CheckpointProgress, error) {
	cp, err := s.GetCheckpoint(ctx, checkpointID)
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", checkpointID, err)
	}

	var progress models.CheckpointProgress
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND checkpoint_id = ?", userID, checkpointID).
		First(&progress).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		progress = models.CheckpointProgress{
			ID:           uuid.New(),
			UserID:       userID,
			CheckpointID: checkpointID,
		}
	} else if err != nil {
		return nil, err
	}

	if update.TimeSpentSeconds > 0 {
		progress.TimeSpentSeconds += update.TimeSpentSeconds
	}
	if update.ReflectionText != "" {
		progress.ReflectionText = update.ReflectionText
	}
	if update.QuizScore != nil {
		progress.QuizScore = update.QuizScore
		gate := cp.Gate.Data()
		if gate.PassingScore != nil {
			passed := *update.QuizScore >= *gate.PassingScore
			progress.QuizPassed = &passed
		}
	}

	if update.Complete && !progress.Completed {
		if err := checkGate(cp, &progress); err != nil {
			return nil, err
		}
		progress.Completed = true
	}

	if err := s.db.WithContext(ctx).Save(&progress).Error; err != nil {
		return nil, err
	}
	return &progress, nil
}

func checkGate(cp *models.Checkpoint, progress *models.CheckpointProgress) error {
	gate := cp.Gate.Data()

	if gate.MinTimeMinutes != nil {
		required := *gate.MinTimeMinutes * 60
		if progress.TimeSpentSeconds < required {
			return fmt.Errorf("checkpoint %q needs %d minutes, %ds recorded",
				cp.Title, *gate.MinTimeMinutes, progress.TimeSpentSeconds)
		}
	}
	if gate.PassingScore != nil {
		if progress.QuizScore == nil {
			return fmt.Errorf("checkpoint %q needs a quiz score", cp.Title)
		}
		if *progress.QuizScore < *gate.PassingScore {
			return fmt.Errorf("checkpoint %q needs score >= %d, got %d",
				cp.Title, *gate.PassingScore, *progress.QuizScore)
		}
	}
	if cp.Type == models.CheckpointReflection {
		if len(strings.TrimSpace(progress.ReflectionText)) < models.MinReflectionLength {
			return fmt.Errorf("reflection needs at least %d characters", models.MinReflectionLength)
		}
	}
	return nil
}

// GetProgress returns a user's progress rows for a lesson's checkpoints,
// in checkpoint order.
func (s *Store) GetProgress(ctx context.Context, userID, lessonID uuid.UUID) ([]models.CheckpointProgress, error) {
	var rows []models.CheckpointProgress
	err := s.db.WithContext(ctx).
		Joins("JOIN checkpoint ON checkpoint.id = checkpoint_progress.checkpoint_id").
		Where("checkpoint_progress.user_id = ? AND checkpoint.lesson_id = ?", userID, lessonID).
		Order("checkpoint.order_index ASC").
		Find(&rows).Error
	return rows, err
}
