package srs

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
	"github.com/licenseprep/curricula/pkg/utils"
)

// Style selects the voice of generated card content.
type Style string

const (
	StyleConcise  Style = "concise"
	StyleExam     Style = "exam"
	StyleMnemonic Style = "mnemonic"
)

// definitionLineRe matches "Term — Definition" and "Term: Definition"
// marker lines; the term side stays short so prose colons don't match.
var definitionLineRe = regexp.MustCompile(`^([A-Z][A-Za-z0-9&/' \-]{1,60}?)\s*(?:—|–|:)\s+(\S.{10,})$`)

// TermCard is a front/back pair recovered from definition markers.
type TermCard struct {
	Front string
	Back  string
}

// ExtractDefinitionCards scans lesson content for definition marker lines.
// Deterministic; used during import and as the no-service fallback for
// styled generation.
func ExtractDefinitionCards(content string) []TermCard {
	var cards []TermCard
	for _, raw := range strings.Split(content, "\n") {
		line := strings.TrimSpace(raw)
		if strings.HasPrefix(line, "#") {
			continue
		}
		m := definitionLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		front := strings.TrimSpace(m[1])
		// Skip lines that are really quiz answer keys or option rows.
		lower := strings.ToLower(front)
		if lower == "answer" || lower == "correct" || lower == "key" || lower == "true" || lower == "false" {
			continue
		}
		cards = append(cards, TermCard{Front: front, Back: strings.TrimSpace(m[2])})
	}
	return cards
}

// TextGenerator is the optional text-generation collaborator.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// FlashcardStore is the slice of the persistence collaborator the
// generator needs: hash-deduplicated creation and lesson content lookup.
type FlashcardStore interface {
	GetLesson(ctx context.Context, id uuid.UUID) (*models.Lesson, error)
	CreateFlashcardIfAbsent(ctx context.Context, card *models.Flashcard) (created bool, err error)
}

type Generator struct {
	store FlashcardStore
	gen   TextGenerator // nil means template-only generation
	log   *logger.Logger
}

func NewGenerator(store FlashcardStore, gen TextGenerator, log *logger.Logger) *Generator {
	return &Generator{store: store, gen: gen, log: log.With("component", "srs")}
}

// generatedCard is the JSON shape the text-generation service returns.
type generatedCard struct {
	Type        string   `json:"type"`
	Front       string   `json:"front"`
	Back        string   `json:"back"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answerIndex"`
	Rationale   string   `json:"rationale"`
}

// GenerateFromLessons builds flashcards for a user from the given source
// lessons. Cards whose fingerprint already exists are counted as
// duplicates and skipped, never overwritten, so a second run over the same
// sources creates nothing.
func (g *Generator) GenerateFromLessons(ctx context.Context, userID uuid.UUID, sourceIDs []uuid.UUID, style Style, maxCards int) (*models.GenerationResult, error) {
	if maxCards <= 0 {
		maxCards = 20
	}
	result := &models.GenerationResult{}

	for _, sourceID := range sourceIDs {
		lesson, err := g.store.GetLesson(ctx, sourceID)
		if err != nil {
			return result, fmt.Errorf("load source %s: %w", sourceID, err)
		}

		cards, err := g.cardsForLesson(ctx, lesson, style, maxCards-result.Created-result.Duplicates)
		if err != nil {
			return result, err
		}

		for _, card := range cards {
			card.UserID = userID
			card.SourceID = lesson.ID.String()
			if err := g.persist(ctx, &card, result); err != nil {
				return result, err
			}
			if result.Created+result.Duplicates >= maxCards {
				return result, nil
			}
		}
	}
	return result, nil
}

// PersistTermCards writes marker-extracted cards for the given user, with
// the same duplicate suppression as styled generation. The importer uses
// this for its flashcard phase.
func (g *Generator) PersistTermCards(ctx context.Context, userID uuid.UUID, sourceID uuid.UUID, cards []TermCard) (*models.GenerationResult, error) {
	result := &models.GenerationResult{}
	for _, tc := range cards {
		card := models.Flashcard{
			Type:     models.FlashcardTerm,
			Front:    tc.Front,
			Back:     tc.Back,
			UserID:   userID,
			SourceID: sourceID.String(),
		}
		if err := g.persist(ctx, &card, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

func (g *Generator) persist(ctx context.Context, card *models.Flashcard, result *models.GenerationResult) error {
	front := card.Front
	if card.Type == models.FlashcardMCQ {
		front = card.Prompt
	}
	card.ID = uuid.New()
	card.Hash = utils.ContentHash(card.UserID.String(), string(card.Type), front, card.SourceID)
	card.Difficulty = 2.5
	card.Interval = 1
	card.NextReviewDate = time.Now().AddDate(0, 0, 1)

	created, err := g.store.CreateFlashcardIfAbsent(ctx, card)
	if err != nil {
		return fmt.Errorf("persist flashcard %q: %w", front, err)
	}
	if created {
		result.Created++
		result.Cards = append(result.Cards, *card)
	} else {
		result.Duplicates++
	}
	return nil
}

func (g *Generator) cardsForLesson(ctx context.Context, lesson *models.Lesson, style Style, budget int) ([]models.Flashcard, error) {
	if budget <= 0 {
		return nil, nil
	}

	if g.gen != nil {
		cards, err := g.generateStyled(ctx, lesson, style, budget)
		if err != nil {
			return nil, err
		}
		return cards, nil
	}

	// Template path: definition markers in the lesson content.
	var cards []models.Flashcard
	for _, tc := range ExtractDefinitionCards(lesson.Content) {
		cards = append(cards, models.Flashcard{
			Type:  models.FlashcardTerm,
			Front: styleFront(tc.Front, style),
			Back:  tc.Back,
		})
		if len(cards) == budget {
			break
		}
	}
	return cards, nil
}

func (g *Generator) generateStyled(ctx context.Context, lesson *models.Lesson, style Style, budget int) ([]models.Flashcard, error) {
	prompt := buildPrompt(lesson, style, budget)
	raw, err := g.gen.Generate(ctx, prompt, 2048)
	if err != nil {
		return nil, fmt.Errorf("generate cards for %q: %w", lesson.Title, err)
	}

	var generated []generatedCard
	if err := json.Unmarshal([]byte(extractJSONArray(raw)), &generated); err != nil {
		return nil, fmt.Errorf("decode generated cards for %q: %w", lesson.Title, err)
	}

	var cards []models.Flashcard
	for _, gc := range generated {
		card, ok := toFlashcard(gc)
		if !ok {
			continue
		}
		cards = append(cards, card)
		if len(cards) == budget {
			break
		}
	}
	return cards, nil
}

func toFlashcard(gc generatedCard) (models.Flashcard, bool) {
	switch models.FlashcardType(gc.Type) {
	case models.FlashcardMCQ:
		if gc.Prompt == "" || len(gc.Options) < 2 || gc.AnswerIndex < 0 || gc.AnswerIndex >= len(gc.Options) {
			return models.Flashcard{}, false
		}
		return models.Flashcard{
			Type:        models.FlashcardMCQ,
			Prompt:      gc.Prompt,
			Options:     gc.Options,
			AnswerIndex: gc.AnswerIndex,
			Rationale:   gc.Rationale,
		}, true
	case models.FlashcardCloze:
		if gc.Front == "" || gc.Back == "" {
			return models.Flashcard{}, false
		}
		return models.Flashcard{Type: models.FlashcardCloze, Front: gc.Front, Back: gc.Back}, true
	default:
		if gc.Front == "" || gc.Back == "" {
			return models.Flashcard{}, false
		}
		return models.Flashcard{Type: models.FlashcardTerm, Front: gc.Front, Back: gc.Back}, true
	}
}

func buildPrompt(lesson *models.Lesson, style Style, count int) string {
	voice := map[Style]string{
		StyleConcise:  "Keep each answer under 20 words.",
		StyleExam:     "Phrase questions the way a state licensing exam would, including distractors.",
		StyleMnemonic: "Include a short mnemonic or memory hook in each answer.",
	}[style]

	return fmt.Sprintf(
		"Create up to %d flashcards from the lesson below. %s\n"+
			"Respond with a JSON array; each element has \"type\" (term, mcq, or cloze) and the "+
			"matching fields (front/back for term and cloze; prompt/options/answerIndex/rationale for mcq).\n\n"+
			"Lesson: %s\n\n%s",
		count, voice, lesson.Title, lesson.Content,
	)
}

func styleFront(front string, style Style) string {
	switch style {
	case StyleExam:
		return fmt.Sprintf("Which term does this describe on the exam: %s?", front)
	default:
		return front
	}
}

// extractJSONArray tolerates generation output that wraps the array in
// prose or a code fence.
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		return raw[start : end+1]
	}
	return raw
}
