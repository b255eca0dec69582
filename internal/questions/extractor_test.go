package questions_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/licenseprep/curricula/internal/questions"
	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

func heading(text string) models.ParsedNode {
	return models.ParsedNode{Kind: models.NodeHeading, Level: 2, Text: text}
}

func question(text string) models.ParsedNode {
	return models.ParsedNode{Kind: models.NodeQuestion, Text: text}
}

func answer(text string) models.ParsedNode {
	return models.ParsedNode{Kind: models.NodeAnswer, Text: text}
}

func prose(text string) models.ParsedNode {
	return models.ParsedNode{Kind: models.NodeContent, Text: text}
}

var _ = Describe("Extractor", func() {
	var extractor *questions.Extractor

	BeforeEach(func() {
		extractor = questions.New(logger.NewNop())
	})

	Describe("Extract", func() {
		It("recovers a multiple-choice question with an explicit answer", func() {
			nodes := []models.ParsedNode{
				heading("Health Insurance Review Questions"),
				question("1. Which of the following plans requires a gatekeeper?"),
				answer("A) PPO"),
				answer("B) HMO"),
				answer("C) Indemnity plan"),
				answer("D) Medigap"),
				answer("Answer: B"),
			}
			banks := extractor.Extract(nodes)
			Expect(banks).To(HaveKey("health-insurance-core"))

			qs := banks["health-insurance-core"]
			Expect(qs).To(HaveLen(1))
			Expect(qs[0].Type).To(Equal(models.QuestionMultipleChoice))
			Expect(qs[0].Options).To(HaveLen(4))
			Expect(qs[0].AnswerKey).To(Equal([]int{1}))
			Expect(qs[0].Topic).To(Equal("Health Insurance Review Questions"))
		})

		It("ignores questions before any assessment heading", func() {
			nodes := []models.ParsedNode{
				question("1. Which clause is the promise to pay?"),
				answer("A) Insuring clause"),
				answer("B) Consideration clause"),
				answer("Answer: A"),
			}
			Expect(extractor.Extract(nodes)).To(BeEmpty())
		})

		It("defaults a missing answer line to index 0", func() {
			nodes := []models.ParsedNode{
				heading("Life Insurance Quiz"),
				question("1. Which rider waives premium during disability?"),
				answer("A) Waiver of premium"),
				answer("B) Guaranteed insurability"),
				question("2. Which of the following is a settlement option?"),
				answer("A) Lump sum"),
				answer("B) Extended term"),
				answer("Answer: A"),
			}
			qs := extractor.Extract(nodes)["life-insurance-core"]
			Expect(qs).To(HaveLen(2))
			Expect(qs[0].AnswerKey).To(Equal([]int{0}))
			Expect(qs[1].AnswerKey).To(Equal([]int{0}))
		})

		It("drops questions with fewer than two options", func() {
			nodes := []models.ParsedNode{
				heading("Annuities Quiz"),
				question("1. What is an annuity?"),
				answer("A) A contract"),
			}
			Expect(extractor.Extract(nodes)["annuities-core"]).To(BeEmpty())
		})

		It("forces True/False stems to two options", func() {
			nodes := []models.ParsedNode{
				heading("Medicare Self-Test"),
				question("1. True or False: Medicare Part A covers hospital stays."),
				answer("Answer: True"),
			}
			qs := extractor.Extract(nodes)["medicare-core"]
			Expect(qs).To(HaveLen(1))
			Expect(qs[0].Type).To(Equal(models.QuestionTrueFalse))
			Expect(qs[0].Options).To(Equal([]string{"True", "False"}))
			Expect(qs[0].AnswerKey).To(Equal([]int{0}))
		})

		It("promotes multi-letter answers to multiple-select", func() {
			nodes := []models.ParsedNode{
				heading("Property Practice Exam"),
				question("1. Which of the following are named perils?"),
				answer("A) Fire"),
				answer("B) Flood"),
				answer("C) Windstorm"),
				answer("Answer: A and C"),
			}
			qs := extractor.Extract(nodes)["property-casualty-core"]
			Expect(qs).To(HaveLen(1))
			Expect(qs[0].Type).To(Equal(models.QuestionMultipleSelect))
			Expect(qs[0].AnswerKey).To(Equal([]int{0, 2}))
		})

		It("attaches trailing prose as the explanation", func() {
			nodes := []models.ParsedNode{
				heading("Law & Ethics Quiz"),
				question("1. Which of the following is rebating?"),
				answer("A) Sharing commission with the insured"),
				answer("B) Twisting a policy"),
				answer("Answer: A"),
				prose("Returning any part of the commission to the insured constitutes rebating."),
			}
			qs := extractor.Extract(nodes)["law-ethics-core"]
			Expect(qs).To(HaveLen(1))
			Expect(qs[0].Explanation).To(ContainSubstring("rebating"))
		})
	})

	DescribeTable("ClassifyDifficulty",
		func(stem string, want models.Difficulty) {
			Expect(questions.ClassifyDifficulty(stem)).To(Equal(want))
		},
		Entry("except cue reads hard",
			"All of the following are exclusions under the policy terms, except which one option?",
			models.DifficultyHard),
		Entry("calculate cue reads hard",
			"Calculate the coinsurance payment owed by the insured for this inpatient claim today.",
			models.DifficultyHard),
		Entry("very long stems read hard",
			strings.Repeat("An insured carries two policies with overlapping coverage provisions. ", 3)+"Which applies?",
			models.DifficultyHard),
		Entry("define cue reads easy", "Define the term peril as used in property insurance.", models.DifficultyEasy),
		Entry("short stems read easy", "What is a hazard?", models.DifficultyEasy),
		Entry("ordinary stems read medium",
			"Which provision allows the policyowner to reinstate a lapsed policy under stated conditions?",
			models.DifficultyMedium),
		Entry("not inside a longer word does not trigger hard",
			"Which endorsement takes note of the insured's prior coverage history and limits?",
			models.DifficultyMedium),
	)

	DescribeTable("BankKeyFor",
		func(heading, want string) {
			Expect(questions.BankKeyFor(heading)).To(Equal(want))
		},
		Entry("law maps to the shared key", "Law Review Questions", "law-ethics-core"),
		Entry("ethics maps to the shared key", "Ethics Self-Test", "law-ethics-core"),
		Entry("annuity stems match the annuities key", "Annuity Practice Exam", "annuities-core"),
		Entry("unknown headings fall back to a slug", "Surplus Lines Quiz", "surplus-lines-quiz"),
	)
})
