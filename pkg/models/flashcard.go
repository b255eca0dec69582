package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type FlashcardType string

const (
	FlashcardTerm  FlashcardType = "term"
	FlashcardMCQ   FlashcardType = "mcq"
	FlashcardCloze FlashcardType = "cloze"
)

// MinEaseFactor is the SM-2 ease floor; difficulty never drops below it.
const MinEaseFactor = 1.3

// Flashcard is a user's spaced-repetition card. Scheduling state
// (Difficulty, Interval, NextReviewDate, ReviewCount) mutates together on
// every review; content fields are write-once. Hash is the duplicate key:
// sha256 over userID|type|front|sourceID in that order.
type Flashcard struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         uuid.UUID                   `gorm:"type:uuid;not null;index" json:"user_id"`
	Type           FlashcardType               `gorm:"not null" json:"type"`
	Front          string                      `gorm:"type:text" json:"front"`
	Back           string                      `gorm:"type:text" json:"back"`
	Prompt         string                      `gorm:"type:text" json:"prompt,omitempty"`
	Options        datatypes.JSONSlice[string] `json:"options,omitempty"`
	AnswerIndex    int                         `json:"answer_index"`
	Rationale      string                      `gorm:"type:text" json:"rationale,omitempty"`
	SourceID       string                      `gorm:"index" json:"source_id"`
	Hash           string                      `gorm:"uniqueIndex;size:64;not null" json:"hash"`
	Difficulty     float64                     `gorm:"not null;default:2.5" json:"difficulty"`
	Interval       int                         `gorm:"not null;default:1" json:"interval"`
	NextReviewDate time.Time                   `gorm:"not null" json:"next_review_date"`
	ReviewCount    int                         `gorm:"not null;default:0" json:"review_count"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

func (Flashcard) TableName() string { return "flashcard" }

// ReviewResult is the scheduler's verdict for a single review.
type ReviewResult struct {
	Interval       int       `json:"interval"`
	Difficulty     float64   `json:"difficulty"`
	NextReviewDate time.Time `json:"next_review_date"`
}

// GenerationResult reports one flashcard-generation run.
type GenerationResult struct {
	Created    int         `json:"created"`
	Duplicates int         `json:"duplicates"`
	Cards      []Flashcard `json:"cards"`
}
