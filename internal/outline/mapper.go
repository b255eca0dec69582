package outline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// CurriculumStore is the slice of the persistence collaborator the mapper
// needs. Ensure calls are idempotent by slug: when the slug already exists
// under the same parent, the stored row's ID is copied back and created is
// false.
type CurriculumStore interface {
	EnsureTrack(ctx context.Context, t *models.Track) (created bool, err error)
	EnsureModule(ctx context.Context, m *models.Module) (created bool, err error)
	EnsureLesson(ctx context.Context, l *models.Lesson) (created bool, err error)
}

// PersistedLesson pairs a stored lesson with the CE hours of its owning
// track, which the checkpoint builder needs for completion gates.
type PersistedLesson struct {
	Lesson       models.Lesson
	TrackCEHours float64
}

type Mapper struct {
	store CurriculumStore
	log   *logger.Logger
}

func New(store CurriculumStore, log *logger.Logger) *Mapper {
	return &Mapper{store: store, log: log.With("component", "outline")}
}

// cursor is the explicit accumulator threaded through the node scan: the
// currently open track/module/lesson plus the lesson's content buffer.
type cursor struct {
	track   *TrackNode
	module  *ModuleNode
	lesson  *LessonNode
	content strings.Builder
}

func (c *cursor) closeLesson() {
	if c.lesson == nil {
		return
	}
	c.lesson.Content = strings.TrimSpace(c.content.String())
	c.lesson.DurationMinutes = EstimateDurationMinutes(c.lesson.Content)
	c.module.Lessons = append(c.module.Lessons, *c.lesson)
	c.lesson = nil
	c.content.Reset()
}

func (c *cursor) closeModule() {
	c.closeLesson()
	if c.module == nil {
		return
	}
	c.track.Modules = append(c.track.Modules, *c.module)
	c.module = nil
}

func (c *cursor) closeTrack(tree *Tree) {
	c.closeModule()
	if c.track == nil {
		return
	}
	tree.Tracks = append(tree.Tracks, *c.track)
	c.track = nil
}

// MapToOutline folds the flat node list into a Track > Module > Lesson
// tree with a single left-to-right scan. Heading levels drive the cursor:
// level 1 opens a track, level 2 a module, level 3 a lesson; levels 4-5
// become markdown sub-headings inside the open lesson's content.
func (m *Mapper) MapToOutline(nodes []models.ParsedNode) (*Tree, error) {
	tree := &Tree{}
	cur := &cursor{}

	for i, node := range nodes {
		if node.Kind != models.NodeHeading {
			m.appendBody(cur, node)
			continue
		}

		switch node.Level {
		case 1:
			cur.closeTrack(tree)
			cur.track = &TrackNode{
				Title:       node.Text,
				Description: lookaheadDescription(nodes, i),
				CEHours:     InferCEHours(node.Text),
			}
		case 2:
			if cur.track == nil {
				return nil, fmt.Errorf("%w: module heading %q before any track heading", models.ErrStructureMalformed, node.Text)
			}
			cur.closeModule()
			cur.module = &ModuleNode{
				Title:       node.Text,
				Description: lookaheadDescription(nodes, i),
			}
		case 3:
			if cur.module == nil {
				return nil, fmt.Errorf("%w: lesson heading %q before any module heading", models.ErrStructureMalformed, node.Text)
			}
			cur.closeLesson()
			cur.lesson = &LessonNode{
				Title:       node.Text,
				Description: lookaheadDescription(nodes, i),
				Objectives:  ExtractObjectives(nodes, i, node.Text),
			}
		default:
			if cur.lesson != nil {
				cur.content.WriteString(strings.Repeat("#", node.Level) + " " + node.Text + "\n\n")
			}
		}
	}
	cur.closeTrack(tree)

	m.log.Debug("mapped outline", "tracks", len(tree.Tracks))
	return tree, nil
}

// appendBody routes non-heading nodes into the open lesson's content
// buffer. Question and answer lines are kept verbatim so the microquiz
// extractor can recover them from lesson content later.
func (m *Mapper) appendBody(cur *cursor, node models.ParsedNode) {
	if cur.lesson == nil {
		return
	}
	switch node.Kind {
	case models.NodeContent:
		cur.content.WriteString(node.Text + "\n\n")
	case models.NodeQuestion, models.NodeAnswer:
		cur.content.WriteString(node.Text + "\n")
	}
}

// lookaheadDescription takes the first content node before the next
// heading as the entity description, clipped to 200 characters.
func lookaheadDescription(nodes []models.ParsedNode, headingIdx int) string {
	for i := headingIdx + 1; i < len(nodes); i++ {
		if nodes[i].Kind == models.NodeHeading {
			return ""
		}
		if nodes[i].Kind == models.NodeContent {
			desc := nodes[i].Text
			if len(desc) > 200 {
				desc = desc[:200]
			}
			return desc
		}
	}
	return ""
}

// Persist writes the tree through the store, never overwriting an existing
// slug under the same parent. Lessons inherit their track's CE hours.
// Returned stats count newly created rows only; the lesson list carries
// store-assigned IDs for both new and pre-existing lessons so downstream
// phases can run against either.
func (m *Mapper) Persist(ctx context.Context, tree *Tree) (PersistStats, []PersistedLesson, error) {
	var stats PersistStats
	var lessons []PersistedLesson

	for ti, tn := range tree.Tracks {
		track := &models.Track{
			ID:          uuid.New(),
			Title:       tn.Title,
			Slug:        Slugify(tn.Title),
			Description: tn.Description,
			OrderIndex:  ti,
			CEHours:     tn.CEHours,
			IsActive:    true,
		}
		created, err := m.store.EnsureTrack(ctx, track)
		if err != nil {
			return stats, lessons, fmt.Errorf("persist track %q: %w", tn.Title, err)
		}
		if created {
			stats.TracksCreated++
		}

		for mi, mn := range tn.Modules {
			module := &models.Module{
				ID:          uuid.New(),
				TrackID:     track.ID,
				Title:       mn.Title,
				Slug:        Slugify(mn.Title),
				Description: mn.Description,
				OrderIndex:  mi,
			}
			created, err := m.store.EnsureModule(ctx, module)
			if err != nil {
				return stats, lessons, fmt.Errorf("persist module %q: %w", mn.Title, err)
			}
			if created {
				stats.ModulesCreated++
			}

			for li, ln := range mn.Lessons {
				lesson := &models.Lesson{
					ID:              uuid.New(),
					ModuleID:        module.ID,
					Title:           ln.Title,
					Slug:            Slugify(ln.Title),
					Description:     ln.Description,
					Content:         ln.Content,
					Objectives:      ln.Objectives,
					OrderIndex:      li,
					DurationMinutes: ln.DurationMinutes,
					CEHours:         track.CEHours,
				}
				created, err := m.store.EnsureLesson(ctx, lesson)
				if err != nil {
					return stats, lessons, fmt.Errorf("persist lesson %q: %w", ln.Title, err)
				}
				if created {
					stats.LessonsCreated++
				}
				lessons = append(lessons, PersistedLesson{Lesson: *lesson, TrackCEHours: track.CEHours})
			}
		}
	}

	m.log.Info("outline persisted",
		"tracks_created", stats.TracksCreated,
		"modules_created", stats.ModulesCreated,
		"lessons_created", stats.LessonsCreated,
	)
	return stats, lessons, nil
}
