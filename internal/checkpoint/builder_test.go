package checkpoint_test

import (
	"strings"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/licenseprep/curricula/internal/checkpoint"
	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

func sampleLesson(content string) models.Lesson {
	return models.Lesson{
		ID:          uuid.New(),
		Title:       "HMO Balance Billing",
		Description: "When providers may bill HMO members directly.",
		Content:     content,
		Objectives:  []string{"Identify prohibited balance billing situations."},
	}
}

func paragraphs(n int) string {
	var parts []string
	for i := 0; i < n; i++ {
		parts = append(parts, "Balance billing rules protect HMO members from surprise charges after covered services.")
	}
	return strings.Join(parts, "\n\n")
}

var _ = Describe("Builder", func() {
	var builder *checkpoint.Builder

	BeforeEach(func() {
		builder = checkpoint.New(logger.NewNop())
	})

	Describe("Build", func() {
		It("produces a valid ordered sequence", func() {
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			Expect(models.ValidateCheckpointSequence(cps)).To(Succeed())
			Expect(len(cps)).To(BeNumerically(">=", 7))
		})

		It("starts with intro and objectives and ends with completion", func() {
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			Expect(cps[0].Type).To(Equal(models.CheckpointIntro))
			Expect(cps[1].Type).To(Equal(models.CheckpointObjectives))
			Expect(cps[len(cps)-1].Type).To(Equal(models.CheckpointCompletion))
		})

		It("assigns gap-free order indices", func() {
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			for i, cp := range cps {
				Expect(cp.OrderIndex).To(Equal(i))
			}
		})

		It("includes reading, flashcard, microquiz, and reflection steps", func() {
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			var types []models.CheckpointType
			for _, cp := range cps {
				types = append(types, cp.Type)
			}
			Expect(types).To(ContainElements(
				models.CheckpointReading,
				models.CheckpointIflash,
				models.CheckpointMicroquiz,
				models.CheckpointReflection,
			))
		})

		It("gates every reading segment with a minimum time", func() {
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			for _, cp := range cps {
				if cp.Type != models.CheckpointReading {
					continue
				}
				gate := cp.Gate.Data()
				Expect(gate.MinTimeMinutes).NotTo(BeNil())
				Expect(*gate.MinTimeMinutes).To(BeNumerically(">=", 1))
				Expect(*gate.MinTimeMinutes).To(BeNumerically("<=", 2))
			}
		})

		It("adds a video step only when the content links one", func() {
			without := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			for _, cp := range without {
				Expect(cp.Type).NotTo(Equal(models.CheckpointVideo))
			}

			content := paragraphs(10) + "\n\nWatch https://youtu.be/dQw4w9WgXcQ before the quiz."
			with := builder.Build(sampleLesson(content), nil, nil)
			var video *models.Checkpoint
			for i := range with {
				if with[i].Type == models.CheckpointVideo {
					video = &with[i]
				}
			}
			Expect(video).NotTo(BeNil())
			Expect(video.VideoURL).To(Equal("https://youtu.be/dQw4w9WgXcQ"))
		})

		It("attaches CE requirements to the completion gate", func() {
			ce := &models.CERequirements{Hours: 4}
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, ce)
			completion := cps[len(cps)-1]
			gate := completion.Gate.Data()
			Expect(gate.PassingScore).NotTo(BeNil())
			Expect(*gate.PassingScore).To(Equal(70))
			Expect(gate.CERequirements).To(Equal(ce))
		})

		It("leaves the completion gate empty without CE hours", func() {
			cps := builder.Build(sampleLesson(paragraphs(10)), nil, nil)
			completion := cps[len(cps)-1]
			Expect(completion.Gate.Data().IsZero()).To(BeTrue())
		})
	})

	Describe("ReadingGateMinutes", func() {
		It("implements min(2, ceil(tokens/180))", func() {
			// 400 tokens -> ceil(400/180)=3 -> capped at 2.
			Expect(checkpoint.ReadingGateMinutes(strings.Repeat("a", 1600))).To(Equal(2))
			// 100 tokens -> 1 minute.
			Expect(checkpoint.ReadingGateMinutes(strings.Repeat("a", 400))).To(Equal(1))
			Expect(checkpoint.ReadingGateMinutes("")).To(Equal(1))
		})
	})

	Describe("ReadingSegments", func() {
		It("prefers level-4 heading sections", func() {
			content := "#### First Topic\nBody one.\n#### Second Topic\nBody two.\n#### Third Topic\nBody three.\n"
			segments := checkpoint.ReadingSegments(content, nil)
			Expect(segments).To(HaveLen(3))
			Expect(segments[0].Title).To(Equal("First Topic"))
		})

		It("splits the largest segment into parts when below the minimum", func() {
			content := "#### Only Topic\n" + paragraphs(6) + "\n"
			segments := checkpoint.ReadingSegments(content, nil)
			Expect(len(segments)).To(BeNumerically(">=", 3))

			var partTitles []string
			for _, seg := range segments {
				if strings.Contains(seg.Title, "(Part") {
					partTitles = append(partTitles, seg.Title)
				}
			}
			Expect(partTitles).NotTo(BeEmpty())
		})

		It("caps segment count at seven", func() {
			var sb strings.Builder
			for i := 0; i < 12; i++ {
				sb.WriteString("#### Topic\nSome body text for the section.\n")
			}
			segments := checkpoint.ReadingSegments(sb.String(), nil)
			Expect(len(segments)).To(BeNumerically("<=", 7))
		})

		It("groups paragraphs when no headings exist", func() {
			segments := checkpoint.ReadingSegments(paragraphs(15), nil)
			Expect(len(segments)).To(BeNumerically(">=", 3))
			Expect(len(segments)).To(BeNumerically("<=", 7))
		})
	})

	Describe("BuildHeadingIndex", func() {
		It("collects level-4 sections with their bodies", func() {
			idx := checkpoint.BuildHeadingIndex("#### Alpha\nbody a\n#### Beta\nbody b\n")
			Expect(idx.H4Sections).To(HaveLen(2))
			Expect(idx.H4Sections[1].Title).To(Equal("Beta"))
			Expect(idx.H4Sections[1].Body).To(Equal("body b"))
		})

		It("drops heading-only sections", func() {
			idx := checkpoint.BuildHeadingIndex("#### Empty\n#### Full\nbody\n")
			Expect(idx.H4Sections).To(HaveLen(1))
		})
	})
})
