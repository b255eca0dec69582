package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ContentChunk is a token-bounded retrieval passage cut from a lesson's
// content. Chunks are write-once: re-importing a lesson replaces its set.
type ContentChunk struct {
	ID         uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	LessonID   uuid.UUID                    `gorm:"type:uuid;not null;index" json:"lesson_id"`
	Lesson     *Lesson                      `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	Index      int                          `gorm:"column:chunk_index;not null" json:"index"`
	Text       string                       `gorm:"type:text;not null" json:"text"`
	TokenCount int                          `gorm:"not null" json:"token_count"`
	Headings   datatypes.JSONSlice[string]  `json:"headings"`
	PageRef    int                          `json:"page_ref"`
	Embedding  datatypes.JSONSlice[float32] `json:"embedding,omitempty"`
	CreatedAt  time.Time                    `json:"created_at"`
}

func (ContentChunk) TableName() string { return "content_chunk" }
