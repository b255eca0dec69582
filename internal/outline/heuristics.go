package outline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/licenseprep/curricula/pkg/models"
)

const (
	// SlugMaxLength bounds every generated slug.
	SlugMaxLength = 50

	// objectiveLookahead is how many content nodes after a lesson heading
	// are scanned for learning-objective lines.
	objectiveLookahead = 10

	maxObjectives = 3

	lawEthicsDefaultCEHours = 4
)

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	explicitHrRe = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)[\s-]?hr`)
)

// objectiveVerbs mark a content line as a learning objective.
var objectiveVerbs = []string{"identify", "define", "explain", "understand", "learn"}

// Slugify lowercases, collapses non-alphanumeric runs to single hyphens,
// trims, and truncates to SlugMaxLength.
func Slugify(s string) string {
	slug := nonAlnumRe.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > SlugMaxLength {
		slug = strings.Trim(slug[:SlugMaxLength], "-")
	}
	return slug
}

// InferCEHours reads continuing-education hours from a track title: an
// explicit "N-hr"/"N hr" substring wins, otherwise Law & Ethics tracks
// default to 4 and everything else to 0.
func InferCEHours(title string) float64 {
	if m := explicitHrRe.FindStringSubmatch(title); m != nil {
		if hours, err := strconv.ParseFloat(m[1], 64); err == nil {
			return hours
		}
	}
	lower := strings.ToLower(title)
	if strings.Contains(lower, "law & ethics") || strings.Contains(lower, "law and ethics") {
		return lawEthicsDefaultCEHours
	}
	return 0
}

// ExtractObjectives scans up to objectiveLookahead content nodes following
// a lesson heading for objective-verb lines and returns at most three. When
// none are found it synthesizes three generic objectives from the title.
func ExtractObjectives(nodes []models.ParsedNode, headingIdx int, lessonTitle string) []string {
	var objectives []string

	seen := 0
	for i := headingIdx + 1; i < len(nodes) && seen < objectiveLookahead; i++ {
		if nodes[i].Kind == models.NodeHeading {
			break
		}
		if nodes[i].Kind != models.NodeContent {
			continue
		}
		seen++
		lower := strings.ToLower(nodes[i].Text)
		for _, verb := range objectiveVerbs {
			if strings.Contains(lower, verb) {
				objectives = append(objectives, strings.TrimSpace(nodes[i].Text))
				break
			}
		}
		if len(objectives) == maxObjectives {
			return objectives
		}
	}

	if len(objectives) == 0 {
		return GenericObjectives(lessonTitle)
	}
	return objectives
}

// GenericObjectives is the fallback set used when a lesson carries no
// recognizable objective lines.
func GenericObjectives(lessonTitle string) []string {
	return []string{
		fmt.Sprintf("Understand the key concepts covered in %s", lessonTitle),
		fmt.Sprintf("Identify the licensing requirements related to %s", lessonTitle),
		fmt.Sprintf("Apply the principles of %s to exam-style scenarios", lessonTitle),
	}
}

// EstimateDurationMinutes approximates reading time from content length at
// the same 180 tokens/minute rate the reading gates use, floored at 5.
func EstimateDurationMinutes(content string) int {
	tokens := (len(content) + 3) / 4
	minutes := (tokens + 179) / 180
	if minutes < 5 {
		return 5
	}
	return minutes
}
