package checkpoint

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

const (
	minReadingSegments = 3
	maxReadingSegments = 7
	defaultSegments    = 5

	// readingRateTokensPerMinute drives reading gates; the gate is capped
	// at 2 minutes regardless of segment size.
	readingRateTokensPerMinute = 180
	maxReadingGateMinutes      = 2

	completionPassingScore = 70
)

var videoURLRe = regexp.MustCompile(`https?://\S*(?:youtube\.com|youtu\.be|vimeo\.com|\.mp4)\S*`)

// Section is one heading-delimited slice of lesson content.
type Section struct {
	Title string
	Body  string
}

// HeadingIndex carries pre-computed level-4 sections for reading
// segmentation. Builders fall back to paragraph grouping without one.
type HeadingIndex struct {
	H4Sections []Section
}

// BuildHeadingIndex derives the level-4 section index from markdown
// content.
func BuildHeadingIndex(content string) *HeadingIndex {
	idx := &HeadingIndex{}
	lines := strings.Split(content, "\n")

	var current *Section
	var body strings.Builder
	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(body.String())
		if current.Body != "" {
			idx.H4Sections = append(idx.H4Sections, *current)
		}
		current = nil
		body.Reset()
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "#### ") {
			flush()
			current = &Section{Title: strings.TrimSpace(strings.TrimPrefix(line, "#### "))}
			continue
		}
		if current != nil {
			body.WriteString(line + "\n")
		}
	}
	flush()
	return idx
}

type Builder struct {
	log *logger.Logger
}

func New(log *logger.Logger) *Builder {
	return &Builder{log: log.With("component", "checkpoint")}
}

// Build produces the full ordered checkpoint set for a lesson: intro,
// objectives, reading segments, optional video, flashcard prompt, microquiz
// placeholder, reflection, completion. The caller replaces any existing set
// wholesale; partial edits are unsupported so ordering and gating stay
// consistent.
func (b *Builder) Build(lesson models.Lesson, headingIndex *HeadingIndex, ceMeta *models.CERequirements) []models.Checkpoint {
	var cps []models.Checkpoint
	order := 0

	add := func(cp models.Checkpoint) {
		cp.ID = uuid.New()
		cp.LessonID = lesson.ID
		cp.OrderIndex = order
		order++
		cps = append(cps, cp)
	}

	add(models.Checkpoint{
		Type:         models.CheckpointIntro,
		Title:        "Welcome",
		BodyMarkdown: introBody(lesson),
	})

	add(models.Checkpoint{
		Type:         models.CheckpointObjectives,
		Title:        "Learning Objectives",
		BodyMarkdown: objectivesBody(lesson.Objectives),
	})

	for i, seg := range ReadingSegments(lesson.Content, headingIndex) {
		minutes := ReadingGateMinutes(seg.Body)
		title := seg.Title
		if title == "" {
			title = fmt.Sprintf("Reading %d", i+1)
		}
		add(models.Checkpoint{
			Type:         models.CheckpointReading,
			Title:        title,
			BodyMarkdown: seg.Body,
			Gate:         datatypes.NewJSONType(models.Gate{MinTimeMinutes: &minutes}),
		})
	}

	if url := videoURLRe.FindString(lesson.Content); url != "" {
		add(models.Checkpoint{
			Type:         models.CheckpointVideo,
			Title:        "Watch: " + lesson.Title,
			BodyMarkdown: "Watch the lesson video before continuing.",
			VideoURL:     strings.TrimRight(url, ".,)"),
		})
	}

	add(models.Checkpoint{
		Type:         models.CheckpointIflash,
		Title:        "Flashcard Review",
		BodyMarkdown: "Review the flashcards generated for this lesson before taking the quiz.",
	})

	add(models.Checkpoint{
		Type:         models.CheckpointMicroquiz,
		Title:        "Knowledge Check",
		BodyMarkdown: "Answer the questions below to check your understanding.",
	})

	add(models.Checkpoint{
		Type:         models.CheckpointReflection,
		Title:        "Reflection",
		BodyMarkdown: "In a few sentences, describe how you would apply what you learned in this lesson to a client situation.",
	})

	completion := models.Checkpoint{
		Type:         models.CheckpointCompletion,
		Title:        "Lesson Complete",
		BodyMarkdown: fmt.Sprintf("You have completed **%s**.", lesson.Title),
	}
	if ceMeta != nil && ceMeta.Hours > 0 {
		passing := completionPassingScore
		completion.Gate = datatypes.NewJSONType(models.Gate{
			PassingScore:   &passing,
			CERequirements: ceMeta,
		})
	}
	add(completion)

	return cps
}

// ReadingGateMinutes computes a segment's minimum reading time:
// min(2, ceil(tokens/180)).
func ReadingGateMinutes(segment string) int {
	tokens := (len(segment) + 3) / 4
	minutes := (tokens + readingRateTokensPerMinute - 1) / readingRateTokensPerMinute
	if minutes < 1 {
		minutes = 1
	}
	if minutes > maxReadingGateMinutes {
		minutes = maxReadingGateMinutes
	}
	return minutes
}

// ReadingSegments cuts lesson content into 3-7 reading segments, preferring
// level-4 heading boundaries and otherwise grouping paragraphs evenly.
// When fewer than three segments result, the largest is split at the
// nearest newline past its midpoint.
func ReadingSegments(content string, headingIndex *HeadingIndex) []Section {
	if headingIndex == nil {
		headingIndex = BuildHeadingIndex(content)
	}

	segments := headingIndex.H4Sections
	if len(segments) == 0 {
		segments = groupParagraphs(content)
	}
	if len(segments) > maxReadingSegments {
		segments = mergeEvenly(segments, maxReadingSegments)
	}
	for len(segments) < minReadingSegments {
		split, ok := splitLargest(segments)
		if !ok {
			break
		}
		segments = split
	}
	return segments
}

func groupParagraphs(content string) []Section {
	paragraphs := []string{}
	for _, p := range strings.Split(content, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, strings.TrimSpace(p))
		}
	}
	if len(paragraphs) == 0 {
		return nil
	}

	groups := defaultSegments
	if len(paragraphs) < groups {
		groups = len(paragraphs)
	}
	per := (len(paragraphs) + groups - 1) / groups

	var segments []Section
	for start := 0; start < len(paragraphs); start += per {
		end := start + per
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		segments = append(segments, Section{
			Body: strings.Join(paragraphs[start:end], "\n\n"),
		})
	}
	return segments
}

func mergeEvenly(segments []Section, target int) []Section {
	per := (len(segments) + target - 1) / target
	var merged []Section
	for start := 0; start < len(segments); start += per {
		end := start + per
		if end > len(segments) {
			end = len(segments)
		}
		title := segments[start].Title
		var bodies []string
		for _, s := range segments[start:end] {
			bodies = append(bodies, s.Body)
		}
		merged = append(merged, Section{Title: title, Body: strings.Join(bodies, "\n\n")})
	}
	return merged
}

// splitLargest divides the largest segment in two at the nearest newline
// past its midpoint, labeling the halves as parts. Returns false when no
// segment can be split.
func splitLargest(segments []Section) ([]Section, bool) {
	if len(segments) == 0 {
		return segments, false
	}
	largest := 0
	for i, s := range segments {
		if len(s.Body) > len(segments[largest].Body) {
			largest = i
		}
	}

	body := segments[largest].Body
	mid := len(body) / 2
	cut := strings.IndexByte(body[mid:], '\n')
	if cut < 0 {
		// No newline past the midpoint; fall back to a space boundary.
		cut = strings.IndexByte(body[mid:], ' ')
	}
	if cut < 0 {
		return segments, false
	}
	cut += mid

	title := segments[largest].Title
	if title == "" {
		title = "Reading"
	}
	first := Section{Title: title + " (Part 1)", Body: strings.TrimSpace(body[:cut])}
	second := Section{Title: title + " (Part 2)", Body: strings.TrimSpace(body[cut:])}
	if first.Body == "" || second.Body == "" {
		return segments, false
	}

	out := make([]Section, 0, len(segments)+1)
	out = append(out, segments[:largest]...)
	out = append(out, first, second)
	out = append(out, segments[largest+1:]...)
	return out, true
}

func introBody(lesson models.Lesson) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Welcome to **%s**.\n\n", lesson.Title)
	if lesson.Description != "" {
		sb.WriteString(lesson.Description + "\n\n")
	}
	fmt.Fprintf(&sb, "Work through each step in order; later steps unlock as you complete the ones before them.")
	return sb.String()
}

func objectivesBody(objectives []string) string {
	var sb strings.Builder
	sb.WriteString("By the end of this lesson you will be able to:\n")
	for _, obj := range objectives {
		sb.WriteString("\n- " + obj)
	}
	return sb.String()
}
