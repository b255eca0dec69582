package docparse_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/licenseprep/curricula/internal/docparse"
	"github.com/licenseprep/curricula/pkg/logger"
	"github.com/licenseprep/curricula/pkg/models"
)

const sampleHTML = `<!DOCTYPE html>
<html>
<head><title>Course Export</title><style>body { color: red; }</style></head>
<body>
<h1>Health Insurance &amp; Managed Care</h1>
<p>This track covers the health insurance licensing line.</p>
<h2>Section 1: HMO/PPO Models</h2>
<p>Managed care organizations come in several forms.</p>
<h3>Lesson 1.1 HMO Balance Billing</h3>
<p>Balance billing occurs when a provider bills the patient for the
difference between the charge and the allowed amount.</p>
<ul><li>Identify when balance billing is prohibited.</li></ul>
<h2>Review Questions</h2>
<p>1. Which of the following plans requires a primary care gatekeeper?</p>
<p>A) PPO</p>
<p>B) HMO</p>
<p>Answer: B</p>
</body>
</html>`

var _ = Describe("Parser", func() {
	var (
		parser  *docparse.Parser
		tempDir string
	)

	BeforeEach(func() {
		parser = docparse.New(logger.NewNop())
		tempDir = GinkgoT().TempDir()
	})

	writeFile := func(name, content string) string {
		path := filepath.Join(tempDir, name)
		Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
		return path
	}

	Describe("Parse", func() {
		It("rejects unsupported formats with ErrDocumentUnreadable", func() {
			path := writeFile("notes.txt", "plain text")
			_, err := parser.Parse(path)
			Expect(err).To(MatchError(models.ErrDocumentUnreadable))
		})

		It("fails fast on a missing file", func() {
			_, err := parser.Parse(filepath.Join(tempDir, "missing.html"))
			Expect(err).To(MatchError(models.ErrDocumentUnreadable))
		})

		Context("with an HTML course export", func() {
			var nodes []models.ParsedNode

			BeforeEach(func() {
				path := writeFile("course.html", sampleHTML)
				var err error
				nodes, err = parser.Parse(path)
				Expect(err).NotTo(HaveOccurred())
			})

			It("produces document-ordered nodes", func() {
				Expect(nodes).NotTo(BeEmpty())
				Expect(nodes[0].Kind).To(Equal(models.NodeHeading))
				Expect(nodes[0].Text).To(Equal("Health Insurance & Managed Care"))
			})

			It("normalizes the track heading to level 1", func() {
				Expect(nodes[0].Level).To(Equal(1))
			})

			It("keeps section and lesson headings at levels 2 and 3", func() {
				var levels []int
				for _, n := range nodes {
					if n.Kind == models.NodeHeading {
						levels = append(levels, n.Level)
					}
				}
				Expect(levels).To(ContainElements(2, 3))
			})

			It("classifies quiz stems and option lines", func() {
				var kinds []models.NodeKind
				for _, n := range nodes {
					kinds = append(kinds, n.Kind)
				}
				Expect(kinds).To(ContainElement(models.NodeQuestion))
				Expect(kinds).To(ContainElement(models.NodeAnswer))
			})

			It("drops script and style content", func() {
				for _, n := range nodes {
					Expect(n.Text).NotTo(ContainSubstring("color: red"))
				}
			})
		})
	})

	DescribeTable("NormalizeHeadingLevel",
		func(raw int, text string, want int) {
			Expect(docparse.NormalizeHeadingLevel(raw, text)).To(Equal(want))
		},
		Entry("track keyword pins to 1", 3, "Life Insurance Fundamentals", 1),
		Entry("law and ethics pins to 1", 4, "Law & Ethics Update", 1),
		Entry("section marker pins to 2", 1, "Section 3 Policy Provisions", 2),
		Entry("numbered chapter pins to 2", 4, "Chapter 2 Underwriting", 2),
		Entry("dotted number pins to 3", 1, "2.4 Renewability Provisions", 3),
		Entry("lesson keyword pins to 3", 5, "Lesson: Policy Riders", 3),
		Entry("lesson marker beats track keyword", 3, "Lesson 1.1 Managed Care Plans", 3),
		Entry("section marker beats track keyword", 2, "Chapter 4 Health Insurance Basics", 2),
		Entry("plain heading keeps its level", 4, "Glossary", 4),
		Entry("deep headings cap at 5", 6, "Fine Print", 5),
	)

	DescribeTable("IsQuestionLine",
		func(text string, want bool) {
			Expect(docparse.IsQuestionLine(text)).To(Equal(want))
		},
		Entry("numbered stem", "1. Which rider waives premium?", true),
		Entry("parenthesis numbering", "12) What is a peril?", true),
		Entry("q-prefix", "Q3: Which of these applies?", true),
		Entry("interrogative trigger", "Which of the following is a hazard?", true),
		Entry("true/false trigger", "True or False: Annuities are insurance.", true),
		Entry("ordinary prose", "The insurer retains the risk.", false),
	)

	DescribeTable("IsAnswerLine",
		func(text string, want bool) {
			Expect(docparse.IsAnswerLine(text)).To(Equal(want))
		},
		Entry("lettered option", "B) Indemnity", true),
		Entry("lettered option with period", "c. Waiver of premium", true),
		Entry("answer key line", "Answer: C", true),
		Entry("correct key line", "Correct: A and C", true),
		Entry("ordinary prose", "Both parties sign the application.", false),
	)
})
