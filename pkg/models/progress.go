package models

import (
	"time"

	"github.com/google/uuid"
)

// CheckpointProgress tracks one user's state on one checkpoint.
// TimeSpentSeconds accumulates across sessions; Completed is monotonic and
// never reverts to false once set.
type CheckpointProgress struct {
	ID               uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_checkpoint" json:"user_id"`
	CheckpointID     uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_progress_user_checkpoint" json:"checkpoint_id"`
	Checkpoint       *Checkpoint `gorm:"constraint:OnDelete:CASCADE;foreignKey:CheckpointID;references:ID" json:"checkpoint,omitempty"`
	Completed        bool        `gorm:"not null;default:false" json:"completed"`
	TimeSpentSeconds int         `gorm:"not null;default:0" json:"time_spent_seconds"`
	QuizScore        *int        `json:"quiz_score,omitempty"`
	QuizPassed       *bool       `json:"quiz_passed,omitempty"`
	ReflectionText   string      `gorm:"type:text" json:"reflection_text,omitempty"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

func (CheckpointProgress) TableName() string { return "checkpoint_progress" }

// MinReflectionLength is the reflection checkpoint's completion threshold.
const MinReflectionLength = 50
