package srs

import (
	"math"
	"time"

	"github.com/brightpath/progress-api/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease-factor update for the given
// review quality and clamps the result to the configured floor.
//
// The formula is EF' = EF + (0.1 - (5-q)*(0.08 + (5-q)*0.02)): a perfect
// recall (q=5) raises the ease factor by 0.1, q=4 leaves it unchanged, and
// a strained pass (q=3) lowers it by 0.14. The floor prevents items from
// being punished into ever-shrinking intervals.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	q := float64(quality)
	newEF := currentEF + (0.1 - (5-q)*(0.08+(5-q)*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNextInterval determines the interval in days until the next
// review of an item that just passed.
//
// The first two passing reviews use fixed intervals; from the third
// repetition onward the previous interval is multiplied by the ease factor
// the item carried into this review and rounded, capped at
// params.MaxIntervalDays. repetitions is the count of consecutive passes
// before this review.
func calculateNextInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	params *Params,
) int {
	var next int
	switch repetitions {
	case 0:
		next = params.FirstInterval
	case 1:
		next = params.SecondInterval
	default:
		next = int(math.Round(float64(currentInterval) * easeFactor))
	}

	if next > params.MaxIntervalDays {
		next = params.MaxIntervalDays
	}

	return next
}

// bucketForInterval classifies a graded item: items at or past the mature
// threshold are mature, everything else stays in learning. New items never
// reach this function because grading always moves them out of the new
// bucket.
func bucketForInterval(intervalDays int, params *Params) domain.Bucket {
	if intervalDays >= params.MatureThresholdDays {
		return domain.BucketMature
	}
	return domain.BucketLearning
}

// nextItem computes the full post-review state for an item. It returns a
// fresh copy rather than mutating the input, keeping the scheduler a pure
// function of (item, quality, now).
//
// Failing reviews (quality below the pass threshold) reset repetitions to
// zero and the interval to the failure interval, demote mature items back
// to learning, and leave the ease factor untouched. Passing reviews grow
// the interval per SM-2, adjust the ease factor, and may graduate the item
// to mature.
func nextItem(
	item *domain.ReviewItem,
	quality int,
	now time.Time,
	params *Params,
) *domain.ReviewItem {
	next := *item
	next.LastReviewedAt = now
	next.UpdatedAt = now

	if quality < params.PassThreshold {
		next.Repetitions = 0
		next.IntervalDays = params.FailureInterval
		next.Bucket = domain.BucketLearning
	} else {
		// The interval uses the ease factor the item carried into this
		// review; the ease-factor update applies from the next review on.
		next.IntervalDays = calculateNextInterval(
			item.IntervalDays,
			item.Repetitions,
			item.EaseFactor,
			params,
		)
		next.EaseFactor = calculateNewEaseFactor(item.EaseFactor, quality, params)
		next.Repetitions = item.Repetitions + 1
		next.Bucket = bucketForInterval(next.IntervalDays, params)
	}

	next.DueAt = now.AddDate(0, 0, next.IntervalDays)

	return &next
}
