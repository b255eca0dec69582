package questions

import (
	"regexp"
	"strings"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// assessmentKeywords mark a heading as the start of an assessment section;
// only these change the current bank key.
var assessmentKeywords = []string{
	"quiz",
	"exam",
	"review questions",
	"self-test",
	"practice",
}

// bankKeyTable maps heading keywords to canonical bank keys, first match
// wins. Headings matching nothing fall back to their own slug.
var bankKeyTable = []struct {
	keyword string
	key     string
}{
	{"law", "law-ethics-core"},
	{"ethics", "law-ethics-core"},
	{"health", "health-insurance-core"},
	{"life", "life-insurance-core"},
	{"annuit", "annuities-core"},
	{"property", "property-casualty-core"},
	{"casualty", "property-casualty-core"},
	{"medicare", "medicare-core"},
	{"long-term care", "ltc-core"},
	{"disability", "disability-income-core"},
}

var (
	stemPrefixRe   = regexp.MustCompile(`(?i)^(?:\d+[\.\)]|q\d+\s*:)\s*`)
	optionPrefixRe = regexp.MustCompile(`^([A-Ea-e])[\)\.:]\s*`)
	answerLineRe   = regexp.MustCompile(`(?i)^(?:answer|correct)\s*:\s*(.+)$`)
	letterListRe   = regexp.MustCompile(`(?i)\b([A-E])\b`)
)

// hard/easy stem cues for the deterministic difficulty rule.
var (
	hardCues = []string{"except", "not", "calculate", "scenario"}
	easyCues = []string{"define", "what is", "which term"}
)

type state int

const (
	seekingStem state = iota
	collectingOptions
	complete
)

type Extractor struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Extractor {
	return &Extractor{log: log.With("component", "questions")}
}

// Extract scans parsed nodes for assessment sections and recovers discrete
// questions grouped by bank key. Questions with fewer than two options are
// dropped; a question with no explicit answer line keeps answer index 0 (a
// known heuristic limitation, preserved deliberately).
func (e *Extractor) Extract(nodes []models.ParsedNode) map[string][]models.ExtractedQuestion {
	banks := make(map[string][]models.ExtractedQuestion)

	var (
		bankKey   string
		topic     string
		st        = seekingStem
		current   models.ExtractedQuestion
		hasAnswer bool
	)

	emit := func() {
		if st == seekingStem || current.Stem == "" {
			return
		}
		q := finalize(current, hasAnswer)
		if err := q.Validate(); err != nil {
			e.log.Debug("dropping partial question", "stem", current.Stem, "error", err)
		} else {
			banks[bankKey] = append(banks[bankKey], q)
		}
		current = models.ExtractedQuestion{}
		hasAnswer = false
		st = seekingStem
	}

	for _, node := range nodes {
		switch node.Kind {
		case models.NodeHeading:
			if key, ok := recognizeAssessmentHeading(node.Text); ok {
				emit()
				bankKey = key
				topic = node.Text
			}

		case models.NodeQuestion:
			if bankKey == "" {
				continue
			}
			emit()
			current = models.ExtractedQuestion{
				Stem:  stemPrefixRe.ReplaceAllString(node.Text, ""),
				Topic: topic,
				Type:  models.QuestionMultipleChoice,
			}
			st = collectingOptions

		case models.NodeAnswer:
			if st != collectingOptions {
				continue
			}
			if m := answerLineRe.FindStringSubmatch(node.Text); m != nil {
				current.AnswerKey = parseAnswerKey(m[1], current)
				hasAnswer = true
				st = complete
				continue
			}
			if m := optionPrefixRe.FindStringSubmatch(node.Text); m != nil {
				current.Options = append(current.Options, strings.TrimSpace(node.Text[len(m[0]):]))
			}

		case models.NodeContent:
			// Prose directly after a resolved question becomes its explanation.
			if st == complete && current.Explanation == "" && len(node.Text) > 20 {
				current.Explanation = node.Text
			}
		}
	}
	emit()

	return banks
}

func finalize(q models.ExtractedQuestion, hasAnswer bool) models.ExtractedQuestion {
	if isTrueFalseStem(q.Stem) {
		q.Type = models.QuestionTrueFalse
		q.Options = []string{"True", "False"}
		if len(q.AnswerKey) > 1 {
			q.AnswerKey = q.AnswerKey[:1]
		}
	}
	if !hasAnswer || len(q.AnswerKey) == 0 {
		// No explicit answer line: default to the first option.
		q.AnswerKey = []int{0}
	}
	for _, idx := range q.AnswerKey {
		if idx < 0 || idx >= len(q.Options) {
			q.AnswerKey = []int{0}
			break
		}
	}
	if len(q.AnswerKey) > 1 {
		q.Type = models.QuestionMultipleSelect
	}
	q.Difficulty = ClassifyDifficulty(q.Stem)
	return q
}

// ClassifyDifficulty applies the deterministic stem heuristic: negation or
// computation cues (or very long stems) read hard, definition cues (or very
// short stems) read easy, everything else medium.
func ClassifyDifficulty(stem string) models.Difficulty {
	lower := strings.ToLower(stem)
	for _, cue := range hardCues {
		if containsWord(lower, cue) {
			return models.DifficultyHard
		}
	}
	if len(stem) > 200 {
		return models.DifficultyHard
	}
	for _, cue := range easyCues {
		if strings.Contains(lower, cue) {
			return models.DifficultyEasy
		}
	}
	if len(stem) < 50 {
		return models.DifficultyEasy
	}
	return models.DifficultyMedium
}

// containsWord avoids "not" matching inside "note" and similar.
func containsWord(haystack, word string) bool {
	if !strings.Contains(word, " ") {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
		return re.MatchString(haystack)
	}
	return strings.Contains(haystack, word)
}

func isTrueFalseStem(stem string) bool {
	lower := strings.ToLower(stem)
	return strings.Contains(lower, "true or false") || strings.Contains(lower, "true/false")
}

// recognizeAssessmentHeading returns the canonical bank key for an
// assessment-section heading.
func recognizeAssessmentHeading(heading string) (string, bool) {
	lower := strings.ToLower(heading)
	matched := false
	for _, kw := range assessmentKeywords {
		if strings.Contains(lower, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	return BankKeyFor(heading), true
}

// BankKeyFor normalizes a heading to its canonical bank key, falling back
// to the heading's slug truncated to 50 characters.
func BankKeyFor(heading string) string {
	lower := strings.ToLower(heading)
	for _, entry := range bankKeyTable {
		if strings.Contains(lower, entry.keyword) {
			return entry.key
		}
	}
	return slugify(heading)
}

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := strings.Trim(nonAlnumRe.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(slug) > 50 {
		slug = strings.Trim(slug[:50], "-")
	}
	return slug
}

func parseAnswerKey(answerText string, q models.ExtractedQuestion) []int {
	trimmed := strings.TrimSpace(answerText)
	lower := strings.ToLower(trimmed)

	if isTrueFalseStem(q.Stem) || len(q.Options) == 0 {
		if strings.HasPrefix(lower, "true") {
			return []int{0}
		}
		if strings.HasPrefix(lower, "false") {
			return []int{1}
		}
	}

	var key []int
	for _, m := range letterListRe.FindAllStringSubmatch(trimmed, -1) {
		idx := int(strings.ToUpper(m[1])[0] - 'A')
		key = append(key, idx)
	}
	return key
}
