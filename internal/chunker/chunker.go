package chunker

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

const (
	// DefaultTargetTokens closes a chunk once the running estimate passes it.
	DefaultTargetTokens = 600

	// overlapSentences is how many trailing sentences seed the next chunk.
	overlapSentences = 2
)

var (
	headingLineRe = regexp.MustCompile(`(?m)^#{1,6}\s+(.+)$`)
	pageRefRe     = regexp.MustCompile(`(?i)\bpage\s+(\d+)\b`)
)

// Embedder is the optional embedding-service collaborator. Failures never
// abort chunking.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

type Chunker struct {
	targetTokens int
	embedder     Embedder
	log          *logger.Logger
}

// New builds a chunker; embedder may be nil.
func New(targetTokens int, embedder Embedder, log *logger.Logger) *Chunker {
	if targetTokens <= 0 {
		targetTokens = DefaultTargetTokens
	}
	return &Chunker{
		targetTokens: targetTokens,
		embedder:     embedder,
		log:          log.With("component", "chunker"),
	}
}

// EstimateTokens is the pipeline-wide token estimate: ceil(len/4).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// Chunk splits lesson text into overlapping token-bounded passages. The
// last two sentences of each closed chunk carry over as the seed of the
// next so context survives the boundary.
func (c *Chunker) Chunk(ctx context.Context, lessonID uuid.UUID, text string) []models.ContentChunk {
	sentences := SplitSentences(text)
	if len(sentences) == 0 {
		return nil
	}

	var chunks []models.ContentChunk
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunkText := strings.TrimSpace(strings.Join(current, ""))
		if chunkText == "" {
			current = nil
			currentTokens = 0
			return
		}
		chunk := models.ContentChunk{
			ID:         uuid.New(),
			LessonID:   lessonID,
			Index:      len(chunks),
			Text:       chunkText,
			TokenCount: EstimateTokens(chunkText),
			Headings:   extractHeadings(chunkText),
			PageRef:    extractPageRef(chunkText),
		}
		c.attachEmbedding(ctx, &chunk)
		chunks = append(chunks, chunk)

		// Seed the next chunk with the trailing sentences.
		start := len(current) - overlapSentences
		if start < 0 {
			start = 0
		}
		carried := append([]string(nil), current[start:]...)
		current = carried
		currentTokens = 0
		for _, s := range carried {
			currentTokens += EstimateTokens(s)
		}
	}

	for _, sentence := range sentences {
		current = append(current, sentence)
		currentTokens += EstimateTokens(sentence)
		if currentTokens > c.targetTokens {
			flush()
		}
	}

	// Final partial chunk, unless it is only the carried-over overlap.
	if len(chunks) == 0 || len(current) > overlapSentences {
		flush()
	}

	return chunks
}

func (c *Chunker) attachEmbedding(ctx context.Context, chunk *models.ContentChunk) {
	if c.embedder == nil {
		return
	}
	vec, err := c.embedder.Embed(ctx, chunk.Text)
	if err != nil {
		c.log.Warn("embedding unavailable, persisting chunk without vector",
			"lesson_id", chunk.LessonID, "chunk_index", chunk.Index, "error", err)
		return
	}
	chunk.Embedding = vec
}

// SplitSentences cuts text at sentence terminators followed by whitespace
// and at line breaks, preserving the original separators so rejoining the
// pieces reproduces the source text.
func SplitSentences(text string) []string {
	var sentences []string
	runes := []rune(text)
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		atTerminator := (r == '.' || r == '!' || r == '?') &&
			i+1 < len(runes) && (runes[i+1] == ' ' || runes[i+1] == '\t')
		if atTerminator || r == '\n' {
			// Include the terminator and one following whitespace rune.
			end := i + 1
			if atTerminator {
				end = i + 2
			}
			piece := string(runes[start:end])
			if strings.TrimSpace(piece) != "" {
				sentences = append(sentences, piece)
			}
			start = end
			if atTerminator {
				i++
			}
		}
	}
	if start < len(runes) {
		piece := string(runes[start:])
		if strings.TrimSpace(piece) != "" {
			sentences = append(sentences, piece)
		}
	}
	return sentences
}

func extractHeadings(chunkText string) []string {
	var headings []string
	for _, m := range headingLineRe.FindAllStringSubmatch(chunkText, -1) {
		headings = append(headings, strings.TrimSpace(m[1]))
	}
	return headings
}

func extractPageRef(chunkText string) int {
	if m := pageRefRe.FindStringSubmatch(chunkText); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return 0
}
