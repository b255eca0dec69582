package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ExamConfig is a practice-exam definition derived from question banks at
// the end of an import.
type ExamConfig struct {
	ID               uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Slug             string                      `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Title            string                      `gorm:"not null" json:"title"`
	BankKeys         datatypes.JSONSlice[string] `json:"bank_keys"`
	QuestionCount    int                         `gorm:"not null" json:"question_count"`
	PassingScore     int                         `gorm:"not null;default:70" json:"passing_score"`
	TimeLimitMinutes int                         `json:"time_limit_minutes"`
	CreatedAt        time.Time                   `json:"created_at"`
}

func (ExamConfig) TableName() string { return "exam_config" }
