package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeckStatistics is the derived per-deck rollup of card scheduling state.
// It is always recomputed from a full scan of the deck's cards, never
// patched incrementally, so it can be safely overwritten by any writer.
type DeckStatistics struct {
	DeckID         uuid.UUID `json:"deck_id"`
	UserID         uuid.UUID `json:"user_id"`
	TotalCards     int       `json:"total_cards"`
	LearningCards  int       `json:"learning_cards"`
	ReviewingCards int       `json:"reviewing_cards"`
	MasteredCards  int       `json:"mastered_cards"`
	SuspendedCards int       `json:"suspended_cards"`
	ArchivedCards  int       `json:"archived_cards"`
	// DueCards counts cards with next_review_at <= now, excluding
	// suspended and archived cards.
	DueCards        int     `json:"due_cards"`
	AvgEaseFactor   float64 `json:"avg_ease_factor"`
	AvgIntervalDays float64 `json:"avg_interval_days"`
	// ReviewsLast7Days counts review events in the trailing week. It comes
	// from the review history, not the card scan, so ComputeDeckStatistics
	// leaves it zero and the aggregator fills it in.
	ReviewsLast7Days int `json:"reviews_last_7_days"`
	// LastReviewedAt is the most recent review across the deck; zero if
	// no card has ever been reviewed.
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	// NextReviewAt is the earliest upcoming review across the deck; zero
	// if the deck is empty.
	NextReviewAt time.Time `json:"next_review_at"`
	RefreshedAt  time.Time `json:"refreshed_at"`
}

// ActiveCards is the number of cards still in the review rotation.
func (s *DeckStatistics) ActiveCards() int {
	return s.LearningCards + s.ReviewingCards + s.MasteredCards
}

// ComputeDeckStatistics builds the rollup for a deck from the full set of
// its cards as of the given time.
func ComputeDeckStatistics(
	deckID, userID uuid.UUID,
	cards []*Card,
	now time.Time,
) *DeckStatistics {
	stats := &DeckStatistics{
		DeckID:      deckID,
		UserID:      userID,
		TotalCards:  len(cards),
		RefreshedAt: now,
	}

	var totalEase, totalInterval float64
	for _, card := range cards {
		totalEase += card.EaseFactor
		totalInterval += float64(card.Interval)

		if card.IsDue(now) {
			stats.DueCards++
		}

		if card.LastReviewedAt.After(stats.LastReviewedAt) {
			stats.LastReviewedAt = card.LastReviewedAt
		}

		if stats.NextReviewAt.IsZero() || card.NextReviewAt.Before(stats.NextReviewAt) {
			stats.NextReviewAt = card.NextReviewAt
		}

		switch card.Status {
		case CardStatusLearning:
			stats.LearningCards++
		case CardStatusReviewing:
			stats.ReviewingCards++
		case CardStatusMastered:
			stats.MasteredCards++
		case CardStatusSuspended:
			stats.SuspendedCards++
		case CardStatusArchived:
			stats.ArchivedCards++
		}
	}

	if len(cards) > 0 {
		stats.AvgEaseFactor = totalEase / float64(len(cards))
		stats.AvgIntervalDays = totalInterval / float64(len(cards))
	}

	return stats
}
