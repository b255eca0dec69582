package srs_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/licenseprep/curricula/internal/srs"
	"github.com/licenseprep/curricula/pkg/models"
)

var _ = Describe("Scheduler", func() {
	now := time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC)

	DescribeTable("ReviewAt",
		func(difficulty float64, grade, interval, wantInterval int, wantDifficulty float64) {
			result := srs.ReviewAt(difficulty, grade, interval, now)
			Expect(result.Interval).To(Equal(wantInterval))
			Expect(result.Difficulty).To(BeNumerically("~", wantDifficulty, 1e-9))
			Expect(result.NextReviewDate).To(Equal(now.AddDate(0, 0, wantInterval)))
		},
		// First correct review jumps to 6 days regardless of ease.
		Entry("first good review", 2.5, srs.GradeGood, 1, 6, 2.5),
		Entry("first good review at low ease", 1.3, srs.GradeGood, 1, 6, 1.3),

		// Failure resets the interval, then the grade-0 multiplier floors
		// the result at one day: round(1*0.2)=0 -> 1. Ease drops 0.2.
		Entry("again on a mature card", 2.5, srs.GradeAgain, 10, 1, 2.3),
		Entry("again never drops ease below the floor", 1.3, srs.GradeAgain, 10, 1, 1.3),

		// Hard shares the failure reset but gets the x1.2 boost:
		// round(1*1.2)=1.
		Entry("hard on a mature card", 2.5, srs.GradeHard, 10, 1, 2.3),

		// Good on a mature card: round(10*2.5)=25, ease unchanged.
		Entry("good on a mature card", 2.5, srs.GradeGood, 10, 25, 2.5),

		// Easy: round(10*2.5)=25, x1.3 -> 33 (round(32.5)=33 in Go's
		// round-half-away-from-zero); ease +0.1 then +0.15.
		Entry("easy on a mature card", 2.5, srs.GradeEasy, 10, 33, 2.75),

		// Out-of-range grades clamp.
		Entry("grade above easy clamps", 2.5, 9, 10, 33, 2.75),
		Entry("negative grade clamps to again", 2.5, -1, 10, 1, 2.3),
	)

	It("is pure: the same inputs always give the same result", func() {
		a := srs.ReviewAt(2.5, srs.GradeGood, 4, now)
		b := srs.ReviewAt(2.5, srs.GradeGood, 4, now)
		Expect(a).To(Equal(b))
	})

	It("never returns an interval below one day", func() {
		for grade := srs.GradeAgain; grade <= srs.GradeEasy; grade++ {
			for _, interval := range []int{1, 2, 5, 30} {
				result := srs.ReviewAt(models.MinEaseFactor, grade, interval, now)
				Expect(result.Interval).To(BeNumerically(">=", 1))
			}
		}
	})

	It("never returns ease below the floor", func() {
		ease := 1.35
		for i := 0; i < 5; i++ {
			result := srs.ReviewAt(ease, srs.GradeAgain, 10, now)
			Expect(result.Difficulty).To(BeNumerically(">=", models.MinEaseFactor))
			ease = result.Difficulty
		}
	})
})
