package acceptance_test

import (
	"context"
	"fmt"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/licenseprep/curricula/internal/importer"
	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
	"github.com/licenseprep/curricula/tests/acceptance"
)

// courseHTML is a single-track course document: one module, one lesson
// with enough prose to need multiple chunks, a definition marker, and a
// quiz section with one answered question.
func courseHTML() string {
	var prose strings.Builder
	for i := 0; i < 18; i++ {
		prose.WriteString("<p>Balance billing happens when a network provider bills the member for the " +
			"difference between the billed charge and the plan's allowed amount, a practice " +
			"HMO contracts prohibit for covered services rendered to enrolled members.</p>\n")
	}

	return fmt.Sprintf(`<html><body>
<h1>Health Insurance &amp; Managed Care</h1>
<p>The health insurance licensing line, from plan types to claims.</p>
<h2>HMO/PPO Models</h2>
<p>How managed care organizations structure networks and cost sharing.</p>
<h3>HMO Balance Billing</h3>
<p>Identify when balance billing is prohibited under an HMO contract.</p>
<p>Balance Billing: Charging a member for amounts above the plan's allowed amount.</p>
%s
<h2>Managed Care Review Questions</h2>
<p>1. Which of the following plans may NOT balance bill members for covered services?</p>
<p>A) Indemnity plan</p>
<p>B) HMO</p>
<p>C) Surplus lines carrier</p>
<p>D) Reinsurer</p>
<p>Answer: B</p>
</body></html>`, prose.String())
}

var _ = Describe("Curriculum import end-to-end", Ordered, func() {
	var (
		store  *acceptance.MemoryStore
		result *models.ImportResult
	)

	BeforeAll(func() {
		store = acceptance.NewMemoryStore()

		path, err := acceptance.WriteFixture(GinkgoT().TempDir(), "course.html", courseHTML())
		Expect(err).NotTo(HaveOccurred())

		imp := importer.New(store, importer.Options{}, logger.NewNop())
		result, err = imp.Run(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(BeEmpty())
	})

	It("creates one track, one module, and one lesson", func() {
		Expect(result.Tracks).To(Equal(2)) // course track + review-questions section
		Expect(store.Tracks).To(HaveKey("health-insurance-managed-care"))
		Expect(result.Lessons).To(Equal(1))

		lessons := store.SortedLessons()
		Expect(lessons).To(HaveLen(1))
		Expect(lessons[0].Slug).To(Equal("hmo-balance-billing"))
		Expect(lessons[0].Objectives).NotTo(BeEmpty())
	})

	It("cuts the lesson into at least two chunks within the token bound", func() {
		lesson := store.SortedLessons()[0]
		chunks := store.Chunks[lesson.ID]
		Expect(len(chunks)).To(BeNumerically(">=", 2))

		for i, chunk := range chunks {
			Expect(chunk.Index).To(Equal(i))
			Expect(chunk.TokenCount).To(BeNumerically("<=", 700))
		}
	})

	It("extracts the quiz question with answerKey B", func() {
		// No canonical bank keyword matches, so the heading slug is the key.
		Expect(store.Banks).To(HaveKey("managed-care-review-questions"))
		bank := store.Banks["managed-care-review-questions"]

		qs := store.Questions[bank.ID]
		Expect(qs).To(HaveLen(1))
		Expect(qs[0].Options).To(HaveLen(4))
		Expect([]int(qs[0].AnswerKey)).To(Equal([]int{1}))
		Expect(qs[0].Difficulty).To(Equal(models.DifficultyHard)) // "NOT" cue
	})

	It("builds a checkpoint sequence of at least seven ending in completion", func() {
		lesson := store.SortedLessons()[0]
		cps := store.Checkpoints[lesson.ID]
		Expect(len(cps)).To(BeNumerically(">=", 7))
		Expect(models.ValidateCheckpointSequence(cps)).To(Succeed())
		Expect(cps[len(cps)-1].Type).To(Equal(models.CheckpointCompletion))
	})

	It("fills the microquiz with a non-empty payload", func() {
		lesson := store.SortedLessons()[0]
		var quiz *models.QuizPayload
		for _, cp := range store.Checkpoints[lesson.ID] {
			if cp.Type == models.CheckpointMicroquiz {
				payload := cp.Quiz.Data()
				quiz = &payload
			}
		}
		Expect(quiz).NotTo(BeNil())
		Expect(quiz.Items).NotTo(BeEmpty())
		for _, item := range quiz.Items {
			Expect(item.Validate()).To(Succeed())
		}
	})

	It("derives a practice exam for the bank", func() {
		Expect(store.Exams).To(HaveKey("managed-care-review-questions-exam"))
		exam := store.Exams["managed-care-review-questions-exam"]
		Expect(exam.QuestionCount).To(Equal(1))
		Expect(exam.PassingScore).To(Equal(70))
	})

	It("creates a term flashcard from the definition marker", func() {
		Expect(result.Flashcards).To(Equal(1))
		for _, card := range store.Flashcards {
			Expect(card.Front).To(Equal("Balance Billing"))
			Expect(card.UserID).To(Equal(importer.SystemUserID))
		}
	})

	It("creates nothing new when the same document is imported again", func() {
		path, err := acceptance.WriteFixture(GinkgoT().TempDir(), "course.html", courseHTML())
		Expect(err).NotTo(HaveOccurred())

		rerun, err := importer.New(store, importer.Options{}, logger.NewNop()).
			Run(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(rerun.Tracks).To(BeZero())
		Expect(rerun.Modules).To(BeZero())
		Expect(rerun.Lessons).To(BeZero())
		Expect(rerun.Exams).To(BeZero())
		Expect(rerun.Flashcards).To(BeZero())
	})
})

// singleTrackHTML nests the quiz section inside the lesson (level-4
// heading), so the whole document stays one track, one module, one lesson.
const singleTrackHTML = `<html><body>
<h1>Health Insurance &amp; Managed Care</h1>
<p>The health insurance licensing line.</p>
<h2>HMO/PPO Models</h2>
<p>Network structures and member cost sharing.</p>
<h3>HMO Balance Billing</h3>
<p>Identify when balance billing is prohibited under an HMO contract.</p>
<p>Balance Billing: Charging a member for amounts above the plan's allowed amount.</p>
<p>HMO provider contracts hold the member harmless for covered services, so the
provider may only collect the agreed copayment from the member.</p>
<p>PPO members who go outside the network lose that protection and can be billed
the difference between the provider's charge and the plan's allowed amount.</p>
<h4>Review Questions</h4>
<p>1. Which of the following plans may NOT balance bill members for covered services?</p>
<p>A) Indemnity plan</p>
<p>B) HMO</p>
<p>C) Surplus lines carrier</p>
<p>D) Reinsurer</p>
<p>Answer: B</p>
</body></html>`

var _ = Describe("Single-track course import", Ordered, func() {
	var (
		store  *acceptance.MemoryStore
		result *models.ImportResult
	)

	BeforeAll(func() {
		store = acceptance.NewMemoryStore()

		path, err := acceptance.WriteFixture(GinkgoT().TempDir(), "single.html", singleTrackHTML)
		Expect(err).NotTo(HaveOccurred())

		result, err = importer.New(store, importer.Options{}, logger.NewNop()).
			Run(context.Background(), path)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Errors).To(BeEmpty())
	})

	It("creates exactly one track, one module, and one lesson", func() {
		Expect(result.Tracks).To(Equal(1))
		Expect(result.Modules).To(Equal(1))
		Expect(result.Lessons).To(Equal(1))
	})

	It("keeps the nested quiz section inside the lesson content", func() {
		lesson := store.SortedLessons()[0]
		Expect(lesson.Slug).To(Equal("hmo-balance-billing"))
		Expect(lesson.Content).To(ContainSubstring("#### Review Questions"))
	})

	It("banks the nested quiz under the heading slug", func() {
		Expect(store.Banks).To(HaveKey("review-questions"))
		qs := store.Questions[store.Banks["review-questions"].ID]
		Expect(qs).To(HaveLen(1))
		Expect([]int(qs[0].AnswerKey)).To(Equal([]int{1}))
	})

	It("fits the short lesson into a single chunk", func() {
		lesson := store.SortedLessons()[0]
		chunks := store.Chunks[lesson.ID]
		Expect(chunks).To(HaveLen(1))
		Expect(chunks[0].TokenCount).To(BeNumerically("<=", 600))
	})

	It("still builds the full checkpoint sequence", func() {
		lesson := store.SortedLessons()[0]
		cps := store.Checkpoints[lesson.ID]
		Expect(len(cps)).To(BeNumerically(">=", 7))
		Expect(models.ValidateCheckpointSequence(cps)).To(Succeed())
	})
})
