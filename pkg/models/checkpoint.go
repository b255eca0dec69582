package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CheckpointType string

const (
	CheckpointIntro      CheckpointType = "intro"
	CheckpointObjectives CheckpointType = "objectives"
	CheckpointReading    CheckpointType = "reading"
	CheckpointVideo      CheckpointType = "video"
	CheckpointIflash     CheckpointType = "iflash"
	CheckpointMicroquiz  CheckpointType = "microquiz"
	CheckpointReflection CheckpointType = "reflection"
	CheckpointCompletion CheckpointType = "completion"
)

type QuizItemType string

const (
	QuizItemMCQ QuizItemType = "mcq"
	QuizItemTF  QuizItemType = "tf"
)

// QuizItem is one question inside a microquiz payload.
type QuizItem struct {
	ID          string       `json:"id"`
	Type        QuizItemType `json:"type"`
	Stem        string       `json:"stem"`
	Options     []string     `json:"options"`
	AnswerIndex int          `json:"answerIndex"`
	Rationale   string       `json:"rationale,omitempty"`
}

func (qi QuizItem) Validate() error {
	if len(qi.Options) < 2 {
		return fmt.Errorf("quiz item %q: %d options", qi.Stem, len(qi.Options))
	}
	if qi.AnswerIndex < 0 || qi.AnswerIndex >= len(qi.Options) {
		return fmt.Errorf("quiz item %q: answer index %d out of bounds", qi.Stem, qi.AnswerIndex)
	}
	return nil
}

type QuizPayload struct {
	Items []QuizItem `json:"items"`
}

type CERequirements struct {
	Hours    float64 `json:"hours"`
	Category string  `json:"category,omitempty"`
}

// Gate is the completion condition attached to a checkpoint. Fields are
// pointers so each checkpoint type carries only the conditions that apply
// (reading: MinTimeMinutes, completion: PassingScore + CERequirements).
type Gate struct {
	MinTimeMinutes *int            `json:"minTimeMinutes,omitempty"`
	PassingScore   *int            `json:"passingScore,omitempty"`
	CERequirements *CERequirements `json:"ceRequirements,omitempty"`
}

func (g Gate) IsZero() bool {
	return g.MinTimeMinutes == nil && g.PassingScore == nil && g.CERequirements == nil
}

// Checkpoint is one gated step of a lesson's guided sequence. A lesson's
// checkpoint set is always replaced whole (delete then recreate) so
// OrderIndex and gating stay internally consistent.
type Checkpoint struct {
	ID           uuid.UUID                       `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID     uuid.UUID                       `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson       *Lesson                         `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Type         CheckpointType                  `gorm:"not null" json:"type"`
	Title        string                          `gorm:"not null" json:"title"`
	BodyMarkdown string                          `gorm:"type:text" json:"body_markdown"`
	VideoURL     string                          `json:"video_url,omitempty"`
	Quiz         datatypes.JSONType[QuizPayload] `json:"quiz"`
	Gate         datatypes.JSONType[Gate]        `json:"gate"`
	OrderIndex   int                             `gorm:"not null" json:"order_index"`
	CreatedAt    time.Time                       `json:"created_at"`
	UpdatedAt    time.Time                       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt                  `gorm:"index" json:"deleted_at,omitempty"`
}

func (Checkpoint) TableName() string { return "checkpoint" }

// ValidateCheckpointSequence enforces the ordering invariant for a lesson's
// full checkpoint set: intro first, completion last, OrderIndex strictly
// increasing.
func ValidateCheckpointSequence(cps []Checkpoint) error {
	if len(cps) == 0 {
		return fmt.Errorf("empty checkpoint sequence")
	}
	if cps[0].Type != CheckpointIntro {
		return fmt.Errorf("first checkpoint is %s, want %s", cps[0].Type, CheckpointIntro)
	}
	if cps[len(cps)-1].Type != CheckpointCompletion {
		return fmt.Errorf("last checkpoint is %s, want %s", cps[len(cps)-1].Type, CheckpointCompletion)
	}
	for i := 1; i < len(cps); i++ {
		if cps[i].OrderIndex <= cps[i-1].OrderIndex {
			return fmt.Errorf("order index not strictly increasing at position %d", i)
		}
	}
	return nil
}
