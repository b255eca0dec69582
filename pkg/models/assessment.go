package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "multiple-choice"
	QuestionTrueFalse      QuestionType = "true-false"
	QuestionMultipleSelect QuestionType = "multiple-select"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// QuestionBank groups extracted questions under a canonical topic key.
type QuestionBank struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Key       string     `gorm:"uniqueIndex;size:50;not null" json:"key"`
	Title     string     `json:"title"`
	Questions []Question `gorm:"constraint:OnDelete:CASCADE;foreignKey:BankID" json:"questions,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (QuestionBank) TableName() string { return "question_bank" }

type Question struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	BankID      uuid.UUID                   `gorm:"type:uuid;not null;index" json:"bank_id"`
	Type        QuestionType                `gorm:"not null" json:"type"`
	Stem        string                      `gorm:"type:text;not null" json:"stem"`
	Options     datatypes.JSONSlice[string] `json:"options"`
	AnswerKey   datatypes.JSONSlice[int]    `json:"answer_key"`
	Difficulty  Difficulty                  `gorm:"not null;default:medium" json:"difficulty"`
	Topic       string                      `json:"topic"`
	Explanation string                      `gorm:"type:text" json:"explanation"`
	CreatedAt   time.Time                   `json:"created_at"`
}

func (Question) TableName() string { return "question" }

// ExtractedQuestion is the pre-persistence form produced by the question
// extractor; Validate enforces the option/answer invariants before a
// question may join a bank.
type ExtractedQuestion struct {
	Type        QuestionType
	Stem        string
	Options     []string
	AnswerKey   []int
	Difficulty  Difficulty
	Topic       string
	Explanation string
}

func (q ExtractedQuestion) Validate() error {
	if len(q.Options) < 2 {
		return fmt.Errorf("%w: %d options", ErrExtractionIncomplete, len(q.Options))
	}
	for _, idx := range q.AnswerKey {
		if idx < 0 || idx >= len(q.Options) {
			return fmt.Errorf("answer index %d out of bounds for %d options", idx, len(q.Options))
		}
	}
	return nil
}
