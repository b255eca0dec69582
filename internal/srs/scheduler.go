package srs

import (
	"math"
	"time"

	"github.com/licenseprep/curricula/pkg/models"
)

// Review grades: 0 Again, 1 Hard, 2 Good, 3 Easy.
const (
	GradeAgain = 0
	GradeHard  = 1
	GradeGood  = 2
	GradeEasy  = 3
)

// Review applies the scheduling update for one flashcard review. Pure and
// deterministic given its inputs; safe to call concurrently.
func Review(difficulty float64, grade, interval int) models.ReviewResult {
	return ReviewAt(difficulty, grade, interval, time.Now())
}

// ReviewAt is Review with an explicit clock.
//
// The computation is deliberately two-stage: grades 0 and 1 share the
// failure branch (interval reset, ease penalty), and every grade then gets
// its own post-multiplier. Grade 1 therefore resets to 1 day and is then
// boosted x1.2 — that asymmetry is the scheduling contract, keep it.
func ReviewAt(difficulty float64, grade, interval int, now time.Time) models.ReviewResult {
	if grade < GradeAgain {
		grade = GradeAgain
	}
	if grade > GradeEasy {
		grade = GradeEasy
	}

	next := interval
	if grade < GradeGood {
		next = 1
		difficulty = math.Max(models.MinEaseFactor, difficulty-0.2)
	} else {
		if interval == 1 {
			next = 6
		} else {
			next = int(math.Round(float64(interval) * difficulty))
		}
		q := float64(GradeEasy - grade)
		difficulty += 0.1 - q*(0.08+q*0.02)
		if difficulty < models.MinEaseFactor {
			difficulty = models.MinEaseFactor
		}
	}

	switch grade {
	case GradeAgain:
		next = int(math.Round(float64(next) * 0.2))
	case GradeHard:
		next = int(math.Round(float64(next) * 1.2))
	case GradeEasy:
		next = int(math.Round(float64(next) * 1.3))
		difficulty += 0.15
	}

	if next < 1 {
		next = 1
	}

	return models.ReviewResult{
		Interval:       next,
		Difficulty:     difficulty,
		NextReviewDate: now.AddDate(0, 0, next),
	}
}
