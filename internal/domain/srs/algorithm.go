package srs

import (
	"math"
	"time"

	"github.com/revisamed/revisamed-api/internal/domain"
)

// calculateNewEaseFactor determines the new ease factor after a successful
// review.
//
// The ease factor represents the card's difficulty - higher values mean the
// card is easier and intervals will grow faster. The modifier follows the
// SM-2 shape anchored to the 0-3 grade scale: "easy" raises the ease factor
// by 0.1, "good" lowers it slightly, and lower grades never reach this
// function (the failure path applies a flat penalty instead).
//
// The result is always clamped to params.MinEaseFactor.
func calculateNewEaseFactor(
	currentEF float64,
	grade domain.ReviewGrade,
	params *Params,
) float64 {
	distance := float64(domain.MaxReviewGrade - grade)
	modifier := 0.1 - distance*(0.08+distance*0.02)

	newEF := currentEF + modifier
	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}

	return newEF
}

// calculateNextInterval determines the interval in days until the next
// review after a successful grade.
//
// The first two successful reviews use fixed intervals from params; from
// the third onwards the current interval is multiplied by the ease factor.
// The result is clamped to [params.MinIntervalDays, params.MaxIntervalDays].
func calculateNextInterval(
	currentInterval int,
	repetitions int,
	easeFactor float64,
	params *Params,
) int {
	var next int
	switch repetitions {
	case 0:
		next = params.FirstIntervalDays
	case 1:
		next = params.SecondIntervalDays
	default:
		next = int(math.Round(float64(currentInterval) * easeFactor))
	}

	return clampInterval(next, params)
}

// clampInterval bounds an interval to the configured range.
func clampInterval(interval int, params *Params) int {
	if interval < params.MinIntervalDays {
		return params.MinIntervalDays
	}
	if interval > params.MaxIntervalDays {
		return params.MaxIntervalDays
	}
	return interval
}

// deriveStatus maps a repetition count to the card's lifecycle status.
// It is a pure function of repetitions; lapses and ease factor play no
// role here. Leech suspension is a separate override, see applyLeechPolicy.
func deriveStatus(repetitions int, params *Params) domain.CardStatus {
	switch {
	case repetitions >= params.MasteredThreshold:
		return domain.CardStatusMastered
	case repetitions >= params.ReviewingThreshold:
		return domain.CardStatusReviewing
	default:
		return domain.CardStatusLearning
	}
}

// applyLeechPolicy suspends a card whose lifetime lapse count has reached
// the leech threshold. Checked after status derivation, so suspension wins
// over whatever the repetition ladder produced.
func applyLeechPolicy(status domain.CardStatus, lapses int, params *Params) domain.CardStatus {
	if params.LeechThreshold > 0 && lapses >= params.LeechThreshold {
		return domain.CardStatusSuspended
	}
	return status
}

// calculateNextState creates a new Card with updated SRS state based on the
// review grade. The input card is never modified; the caller receives a
// fully populated copy.
//
// Failure path (grade below "good"): the interval resets to the minimum,
// the ease factor drops by the failure penalty (floored), repetitions reset
// to zero, and the lapse count increments.
//
// Success path: repetitions increment, the interval grows per
// calculateNextInterval, and the ease factor moves by the grade-dependent
// modifier. Lapses are unchanged.
//
// In both paths the resulting status follows the repetition ladder with the
// leech override applied last, and the next review is scheduled interval
// days after now.
func calculateNextState(
	card *domain.Card,
	grade domain.ReviewGrade,
	now time.Time,
	params *Params,
) *domain.Card {
	next := *card

	if grade.IsCorrect() {
		next.Interval = calculateNextInterval(
			card.Interval,
			card.Repetitions,
			card.EaseFactor,
			params,
		)
		next.EaseFactor = calculateNewEaseFactor(card.EaseFactor, grade, params)
		next.Repetitions = card.Repetitions + 1
	} else {
		next.Interval = clampInterval(params.MinIntervalDays, params)
		next.EaseFactor = card.EaseFactor - params.FailureEasePenalty
		if next.EaseFactor < params.MinEaseFactor {
			next.EaseFactor = params.MinEaseFactor
		}
		next.Repetitions = 0
		next.Lapses = card.Lapses + 1
	}

	next.Status = applyLeechPolicy(
		deriveStatus(next.Repetitions, params),
		next.Lapses,
		params,
	)
	next.LastReviewedAt = now
	next.NextReviewAt = now.AddDate(0, 0, next.Interval)
	next.UpdatedAt = now

	return &next
}
