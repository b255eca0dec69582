package docparse

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// rawBlock is one structural unit straight out of a format reader, before
// heading normalization and node typing.
type rawBlock struct {
	level  int // 1-6 for headings, 0 for body text
	text   string
	markup string
}

// trackKeywords force a heading to level 1 regardless of its raw level.
// Curated from the licensing lines the curriculum covers.
var trackKeywords = []string{
	"life insurance",
	"health insurance",
	"property insurance",
	"casualty insurance",
	"property & casualty",
	"annuities",
	"law & ethics",
	"law and ethics",
	"medicare",
	"long-term care",
	"disability income",
	"managed care",
}

// sectionPatterns force a heading to level 2 (module).
var sectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(section|part|chapter|unit)\s+\d+`),
	regexp.MustCompile(`(?i)^\d+\.\s`),
	regexp.MustCompile(`(?i)\b(overview|introduction|section)\b`),
}

// lessonPatterns force a heading to level 3 (lesson).
var lessonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^\d+\.\d+`),
	regexp.MustCompile(`(?i)\b(lesson|topic)\b`),
}

var (
	numberedStemRe = regexp.MustCompile(`^\d+[\.\)]\s+\S`)
	qPrefixRe      = regexp.MustCompile(`(?i)^q\d+\s*:`)
	optionRe       = regexp.MustCompile(`^[A-Ea-e][\)\.:]\s*\S`)
	answerRe       = regexp.MustCompile(`(?i)^(answer|correct)\s*:`)
)

var interrogativeTriggers = []string{
	"which of the following",
	"what is",
	"true or false",
}

const maxHeadingLevel = 5

type Parser struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Parser {
	return &Parser{log: log.With("component", "docparse")}
}

// Parse converts a document into a flat, position-ordered node list. No
// tree construction happens here; the outline mapper owns that. Unreadable
// documents fail fast with models.ErrDocumentUnreadable.
func (p *Parser) Parse(path string) ([]models.ParsedNode, error) {
	var (
		blocks []rawBlock
		err    error
	)

	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		blocks, err = readDocx(path)
	case ".html", ".htm":
		blocks, err = readHTMLFile(path)
	default:
		return nil, fmt.Errorf("%w: unsupported format %q", models.ErrDocumentUnreadable, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrDocumentUnreadable, path, err)
	}

	nodes := make([]models.ParsedNode, 0, len(blocks))
	for _, b := range blocks {
		text := strings.TrimSpace(b.text)
		if text == "" {
			continue
		}
		nodes = append(nodes, p.classify(b, text))
	}

	p.log.Debug("parsed document", "path", path, "nodes", len(nodes))
	return nodes, nil
}

func (p *Parser) classify(b rawBlock, text string) models.ParsedNode {
	node := models.ParsedNode{Text: text, RawMarkup: b.markup}

	if b.level > 0 {
		node.Kind = models.NodeHeading
		node.Level = NormalizeHeadingLevel(b.level, text)
		return node
	}

	switch {
	case IsAnswerLine(text):
		node.Kind = models.NodeAnswer
	case IsQuestionLine(text):
		node.Kind = models.NodeQuestion
	default:
		node.Kind = models.NodeContent
	}
	return node
}

// NormalizeHeadingLevel remaps a raw heading level using keyword
// heuristics: section markers pin to 2, lesson markers to 3, track names to
// 1, anything else keeps its raw level capped at 5. Structural markers are
// checked before track keywords so a heading like "Lesson 1.1 Managed Care
// Plans" stays a lesson instead of opening a new track.
func NormalizeHeadingLevel(raw int, text string) int {
	for _, re := range sectionPatterns {
		if re.MatchString(text) {
			return 2
		}
	}
	for _, re := range lessonPatterns {
		if re.MatchString(text) {
			return 3
		}
	}
	lower := strings.ToLower(text)
	for _, kw := range trackKeywords {
		if strings.Contains(lower, kw) {
			return 1
		}
	}
	if raw > maxHeadingLevel {
		return maxHeadingLevel
	}
	return raw
}

// IsQuestionLine reports whether a content line reads like a question stem.
func IsQuestionLine(text string) bool {
	if numberedStemRe.MatchString(text) || qPrefixRe.MatchString(text) {
		return true
	}
	lower := strings.ToLower(text)
	for _, t := range interrogativeTriggers {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// IsAnswerLine reports whether a content line is an option or answer-key
// line.
func IsAnswerLine(text string) bool {
	return optionRe.MatchString(text) || answerRe.MatchString(text)
}
