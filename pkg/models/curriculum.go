package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Track is the top level of the curriculum tree (one licensing line, e.g.
// "Health Insurance & Managed Care"). Tracks own modules, modules own
// lessons; deletes cascade downward.
type Track struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Description string         `json:"description"`
	OrderIndex  int            `gorm:"not null" json:"order_index"`
	CEHours     float64        `gorm:"not null;default:0" json:"ce_hours"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	Modules     []Module       `gorm:"constraint:OnDelete:CASCADE;foreignKey:TrackID" json:"modules,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Track) TableName() string { return "track" }

type Module struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	TrackID     uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_module_track_slug" json:"track_id"`
	Title       string         `gorm:"not null" json:"title"`
	Slug        string         `gorm:"size:50;not null;uniqueIndex:idx_module_track_slug" json:"slug"`
	Description string         `json:"description"`
	OrderIndex  int            `gorm:"not null" json:"order_index"`
	Lessons     []Lesson       `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID" json:"lessons,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Module) TableName() string { return "module" }

type Lesson struct {
	ID              uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID        uuid.UUID                   `gorm:"type:uuid;not null;index" json:"module_id"`
	Title           string                      `gorm:"not null" json:"title"`
	Slug            string                      `gorm:"uniqueIndex;size:50;not null" json:"slug"`
	Description     string                      `json:"description"`
	Content         string                      `gorm:"type:text" json:"content"`
	Objectives      datatypes.JSONSlice[string] `json:"objectives"`
	OrderIndex      int                         `gorm:"not null" json:"order_index"`
	DurationMinutes int                         `json:"duration_minutes"`
	CEHours         float64                     `gorm:"not null;default:0" json:"ce_hours"`
	CreatedAt       time.Time                   `json:"created_at"`
	UpdatedAt       time.Time                   `json:"updated_at"`
	DeletedAt       gorm.DeletedAt              `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
