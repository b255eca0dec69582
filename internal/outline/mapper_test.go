package outline_test

import (
	"context"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/licenseprep/curricula/internal/outline"
	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

// memStore is an in-memory CurriculumStore with the same slug-idempotence
// contract as the real one.
type memStore struct {
	tracks  map[string]models.Track
	modules map[string]models.Module // trackID|slug
	lessons map[string]models.Lesson
}

func newMemStore() *memStore {
	return &memStore{
		tracks:  make(map[string]models.Track),
		modules: make(map[string]models.Module),
		lessons: make(map[string]models.Lesson),
	}
}

func (m *memStore) EnsureTrack(_ context.Context, t *models.Track) (bool, error) {
	if existing, ok := m.tracks[t.Slug]; ok {
		*t = existing
		return false, nil
	}
	m.tracks[t.Slug] = *t
	return true, nil
}

func (m *memStore) EnsureModule(_ context.Context, mod *models.Module) (bool, error) {
	key := mod.TrackID.String() + "|" + mod.Slug
	if existing, ok := m.modules[key]; ok {
		*mod = existing
		return false, nil
	}
	m.modules[key] = *mod
	return true, nil
}

func (m *memStore) EnsureLesson(_ context.Context, l *models.Lesson) (bool, error) {
	if existing, ok := m.lessons[l.Slug]; ok {
		*l = existing
		return false, nil
	}
	m.lessons[l.Slug] = *l
	return true, nil
}

func heading(level int, text string) models.ParsedNode {
	return models.ParsedNode{Kind: models.NodeHeading, Level: level, Text: text}
}

func content(text string) models.ParsedNode {
	return models.ParsedNode{Kind: models.NodeContent, Text: text}
}

var _ = Describe("Mapper", func() {
	var (
		store  *memStore
		mapper *outline.Mapper
		ctx    context.Context
	)

	BeforeEach(func() {
		store = newMemStore()
		mapper = outline.New(store, logger.NewNop())
		ctx = context.Background()
	})

	Describe("MapToOutline", func() {
		It("builds the track > module > lesson tree", func() {
			nodes := []models.ParsedNode{
				heading(1, "Health Insurance & Managed Care"),
				content("The health licensing line."),
				heading(2, "Section 1: HMO/PPO Models"),
				heading(3, "Lesson 1.1 HMO Balance Billing"),
				content("Balance billing is restricted for HMO members."),
			}
			tree, err := mapper.MapToOutline(nodes)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.Tracks).To(HaveLen(1))
			Expect(tree.Tracks[0].Modules).To(HaveLen(1))
			Expect(tree.Tracks[0].Modules[0].Lessons).To(HaveLen(1))

			lesson := tree.Tracks[0].Modules[0].Lessons[0]
			Expect(lesson.Content).To(ContainSubstring("Balance billing"))
			Expect(lesson.DurationMinutes).To(BeNumerically(">=", 5))
		})

		It("rejects a module heading before any track", func() {
			nodes := []models.ParsedNode{
				heading(2, "Section 1: Orphan Module"),
			}
			_, err := mapper.MapToOutline(nodes)
			Expect(err).To(MatchError(models.ErrStructureMalformed))
		})

		It("rejects a lesson heading before any module", func() {
			nodes := []models.ParsedNode{
				heading(1, "Life Insurance"),
				heading(3, "Lesson 1.1 Orphan Lesson"),
			}
			_, err := mapper.MapToOutline(nodes)
			Expect(err).To(MatchError(models.ErrStructureMalformed))
		})

		It("renders level-4 headings as markdown inside lesson content", func() {
			nodes := []models.ParsedNode{
				heading(1, "Life Insurance"),
				heading(2, "Section 1: Basics"),
				heading(3, "Lesson 1.1 Policy Parts"),
				heading(4, "The Insuring Clause"),
				content("The insuring clause states the insurer's promise."),
			}
			tree, err := mapper.MapToOutline(nodes)
			Expect(err).NotTo(HaveOccurred())
			lessonContent := tree.Tracks[0].Modules[0].Lessons[0].Content
			Expect(lessonContent).To(ContainSubstring("#### The Insuring Clause"))
		})

		It("keeps question and answer lines verbatim in lesson content", func() {
			nodes := []models.ParsedNode{
				heading(1, "Life Insurance"),
				heading(2, "Section 1: Basics"),
				heading(3, "Lesson 1.1 Policy Parts"),
				{Kind: models.NodeQuestion, Text: "1. Which clause is the promise to pay?"},
				{Kind: models.NodeAnswer, Text: "A) Insuring clause"},
			}
			tree, err := mapper.MapToOutline(nodes)
			Expect(err).NotTo(HaveOccurred())
			lessonContent := tree.Tracks[0].Modules[0].Lessons[0].Content
			Expect(lessonContent).To(ContainSubstring("1. Which clause is the promise to pay?\nA) Insuring clause"))
		})

		It("takes the first content node as the description", func() {
			nodes := []models.ParsedNode{
				heading(1, "Annuities"),
				content("Fixed and variable annuity products."),
				heading(2, "Section 1: Annuity Basics"),
			}
			tree, err := mapper.MapToOutline(nodes)
			Expect(err).NotTo(HaveOccurred())
			Expect(tree.Tracks[0].Description).To(Equal("Fixed and variable annuity products."))
		})
	})

	Describe("Persist", func() {
		tree := func() *outline.Tree {
			return &outline.Tree{Tracks: []outline.TrackNode{{
				Title:   "Health Insurance",
				CEHours: 0,
				Modules: []outline.ModuleNode{{
					Title: "HMO/PPO Models",
					Lessons: []outline.LessonNode{{
						Title:   "HMO Balance Billing",
						Content: "Lesson body.",
					}},
				}},
			}}}
		}

		It("creates new rows and counts them", func() {
			stats, lessons, err := mapper.Persist(ctx, tree())
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TracksCreated).To(Equal(1))
			Expect(stats.ModulesCreated).To(Equal(1))
			Expect(stats.LessonsCreated).To(Equal(1))
			Expect(lessons).To(HaveLen(1))
			Expect(lessons[0].Lesson.Slug).To(Equal("hmo-balance-billing"))
			Expect(lessons[0].Lesson.ID).NotTo(Equal(uuid.Nil))
		})

		It("copies the track's CE hours onto each lesson row", func() {
			ceTree := &outline.Tree{Tracks: []outline.TrackNode{{
				Title:   "Law & Ethics Update",
				CEHours: 4,
				Modules: []outline.ModuleNode{{
					Title: "Section 1: Ethics",
					Lessons: []outline.LessonNode{{
						Title:   "Lesson 1.1 Fiduciary Duties",
						Content: "Lesson body.",
					}},
				}},
			}}}

			_, lessons, err := mapper.Persist(ctx, ceTree)
			Expect(err).NotTo(HaveOccurred())
			Expect(lessons[0].Lesson.CEHours).To(Equal(4.0))
			Expect(lessons[0].TrackCEHours).To(Equal(4.0))
			Expect(store.lessons["lesson-1-1-fiduciary-duties"].CEHours).To(Equal(4.0))
		})

		It("is idempotent on re-run", func() {
			_, first, err := mapper.Persist(ctx, tree())
			Expect(err).NotTo(HaveOccurred())

			stats, second, err := mapper.Persist(ctx, tree())
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.TracksCreated).To(BeZero())
			Expect(stats.ModulesCreated).To(BeZero())
			Expect(stats.LessonsCreated).To(BeZero())

			// Existing IDs come back so later phases target the stored rows.
			Expect(second[0].Lesson.ID).To(Equal(first[0].Lesson.ID))
		})
	})
})
