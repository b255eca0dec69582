package models

import (
	"fmt"

	"github.com/google/uuid"
)

// LessonError records a non-fatal failure from one lesson's processing
// phase. The import continues past these.
type LessonError struct {
	LessonID    uuid.UUID `json:"lesson_id"`
	LessonTitle string    `json:"lesson_title"`
	Phase       string    `json:"phase"`
	Err         string    `json:"error"`
}

func (e LessonError) Error() string {
	return fmt.Sprintf("lesson %q (%s): %s: %s", e.LessonTitle, e.LessonID, e.Phase, e.Err)
}

// ImportResult is the single source of truth for an import run's outcome.
// Counts cover newly created entities only; callers inspect Errors to
// decide between success, partial success, and failure.
type ImportResult struct {
	Tracks     int           `json:"tracks"`
	Modules    int           `json:"modules"`
	Lessons    int           `json:"lessons"`
	Chunks     int           `json:"chunks"`
	Banks      int           `json:"banks"`
	Questions  int           `json:"questions"`
	Exams      int           `json:"exams"`
	Flashcards int           `json:"flashcards"`
	Errors     []LessonError `json:"errors"`
}
