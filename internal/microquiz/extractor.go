package microquiz

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// maxItems caps a microquiz; extraction past the cap is discarded.
const maxItems = 8

// fallbackCount is how many generic questions substitute when a lesson
// yields no valid quiz items.
const fallbackCount = 4

// sectionKeywords mark a heading as an in-lesson quiz section.
var sectionKeywords = []string{
	"quiz",
	"review questions",
	"self-test",
	"practice questions",
	"knowledge check",
	"assessment",
	"checkpoint questions",
	"test your understanding",
	"quick check",
	"comprehension check",
}

var (
	headingLineRe  = regexp.MustCompile(`^#{1,6}\s+(.+)$`)
	stemLineRe     = regexp.MustCompile(`^\d+[\.\)]\s+(.+)$`)
	optionLineRe   = regexp.MustCompile(`^([A-Da-d])[\)\.:]\s*(.+)$`)
	answerLineRe   = regexp.MustCompile(`(?i)^(?:answer|correct|key)\s*:\s*(.+)$`)
	bareBoolLineRe = regexp.MustCompile(`(?i)^(true|false)$`)
)

// CheckpointStore is the slice of the persistence collaborator ApplyTo
// needs: lesson lookup plus the in-place microquiz update that leaves
// every other checkpoint untouched.
type CheckpointStore interface {
	GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	UpdateMicroquiz(ctx context.Context, lessonID uuid.UUID, quiz models.QuizPayload, body string) error
}

type Extractor struct {
	store CheckpointStore
	log   *logger.Logger
}

func New(store CheckpointStore, log *logger.Logger) *Extractor {
	return &Extractor{store: store, log: log.With("component", "microquiz")}
}

// ExtractForLesson finds in-lesson quiz sections and converts them into a
// quiz payload. Lessons with no extractable questions get a fixed fallback
// set so every microquiz is non-empty.
func (e *Extractor) ExtractForLesson(content, title string) models.QuizPayload {
	var items []models.QuizItem

	lines := strings.Split(content, "\n")
	inSection := false

	var current *models.QuizItem
	resolved := false

	closeCurrent := func() {
		if current == nil {
			return
		}
		if resolved && current.Validate() == nil {
			if len(items) < maxItems {
				items = append(items, *current)
			}
		}
		current = nil
		resolved = false
	}

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if m := headingLineRe.FindStringSubmatch(line); m != nil {
			closeCurrent()
			inSection = isQuizHeading(m[1])
			continue
		}
		if !inSection {
			continue
		}

		if m := stemLineRe.FindStringSubmatch(line); m != nil {
			closeCurrent()
			current = &models.QuizItem{
				ID:   fmt.Sprintf("q%d", len(items)+1),
				Type: models.QuizItemMCQ,
				Stem: strings.TrimSpace(m[1]),
			}
			continue
		}
		if current == nil {
			continue
		}

		if m := optionLineRe.FindStringSubmatch(line); m != nil && !resolved {
			current.Options = append(current.Options, strings.TrimSpace(m[2]))
			current.Type = models.QuizItemMCQ
			continue
		}
		if m := bareBoolLineRe.FindStringSubmatch(line); m != nil && !resolved {
			label := "True"
			if strings.EqualFold(m[1], "false") {
				label = "False"
			}
			current.Options = append(current.Options, label)
			if len(current.Options) == 2 {
				current.Type = models.QuizItemTF
			}
			continue
		}
		if m := answerLineRe.FindStringSubmatch(line); m != nil && !resolved {
			if idx, ok := resolveAnswer(m[1], current.Type); ok {
				current.AnswerIndex = idx
				resolved = true
			}
			continue
		}
		// Prose after a resolved answer becomes the rationale.
		if resolved && current.Rationale == "" && len(line) > 20 {
			current.Rationale = line
		}
	}
	closeCurrent()

	if len(items) == 0 {
		e.log.Debug("no quiz items extracted, using fallback", "lesson", title)
		items = FallbackItems(title)
	}
	return models.QuizPayload{Items: items}
}

// ApplyTo rebuilds only the microquiz checkpoint's payload and body for a
// lesson; order and sibling checkpoints are untouched.
func (e *Extractor) ApplyTo(ctx context.Context, lessonID uuid.UUID) error {
	lesson, err := e.store.GetLesson(ctx, lessonID)
	if err != nil {
		return fmt.Errorf("load lesson %s: %w", lessonID, err)
	}

	quiz := e.ExtractForLesson(lesson.Content, lesson.Title)
	body := fmt.Sprintf("Answer the %d questions below to check your understanding of %s.",
		len(quiz.Items), lesson.Title)

	if err := e.store.UpdateMicroquiz(ctx, lessonID, quiz, body); err != nil {
		return fmt.Errorf("update microquiz for lesson %s: %w", lessonID, err)
	}
	return nil
}

func isQuizHeading(heading string) bool {
	lower := strings.ToLower(heading)
	for _, kw := range sectionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func resolveAnswer(answerText string, itemType models.QuizItemType) (int, bool) {
	trimmed := strings.ToLower(strings.TrimSpace(answerText))

	if itemType == models.QuizItemTF {
		switch {
		case strings.HasPrefix(trimmed, "true"):
			return 0, true
		case strings.HasPrefix(trimmed, "false"):
			return 1, true
		}
		return 0, false
	}

	if len(trimmed) > 0 {
		c := trimmed[0]
		if c >= 'a' && c <= 'd' {
			return int(c - 'a'), true
		}
	}
	return 0, false
}

// FallbackItems is the deterministic substitute quiz: four generic
// comprehension probes referencing the lesson title.
func FallbackItems(lessonTitle string) []models.QuizItem {
	return []models.QuizItem{
		{
			ID:          "fallback-1",
			Type:        models.QuizItemMCQ,
			Stem:        fmt.Sprintf("Which statement best describes the main focus of %q?", lessonTitle),
			Options:     []string{"The concepts presented in this lesson", "An unrelated licensing topic", "Federal tax law only", "None of the above"},
			AnswerIndex: 0,
			Rationale:   "This lesson's reading segments cover its stated objectives.",
		},
		{
			ID:          "fallback-2",
			Type:        models.QuizItemTF,
			Stem:        fmt.Sprintf("True or False: %q covers material that may appear on the state licensing exam.", lessonTitle),
			Options:     []string{"True", "False"},
			AnswerIndex: 0,
			Rationale:   "All curriculum lessons map to exam outline topics.",
		},
		{
			ID:          "fallback-3",
			Type:        models.QuizItemMCQ,
			Stem:        "Before moving on, you should be able to do what with this lesson's objectives?",
			Options:     []string{"Ignore them", "Restate and apply each of them", "Memorize the page numbers", "Skip to the final exam"},
			AnswerIndex: 1,
			Rationale:   "The objectives checkpoint lists what you are expected to apply.",
		},
		{
			ID:          "fallback-4",
			Type:        models.QuizItemTF,
			Stem:        "True or False: You can revisit the reading segments of this lesson at any time.",
			Options:     []string{"True", "False"},
			AnswerIndex: 0,
			Rationale:   "Completed checkpoints stay available for review.",
		},
	}
}
