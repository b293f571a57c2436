package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsCard(t *testing.T, status CardStatus, interval int, ease float64, nextReview time.Time) *Card {
	t.Helper()
	card, err := NewCard(uuid.New(), uuid.New(), "front", "back")
	require.NoError(t, err)
	card.Status = status
	card.Interval = interval
	card.EaseFactor = ease
	card.NextReviewAt = nextReview
	return card
}

func TestComputeDeckStatistics(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	deckID := uuid.New()
	userID := uuid.New()

	cards := []*Card{
		statsCard(t, CardStatusLearning, 1, 2.5, now.Add(-time.Hour)),   // due
		statsCard(t, CardStatusReviewing, 10, 2.3, now.Add(48*time.Hour)),
		statsCard(t, CardStatusMastered, 90, 2.7, now.Add(-time.Minute)), // due
		statsCard(t, CardStatusSuspended, 1, 1.3, now.Add(-time.Hour)),   // overdue but suspended
		statsCard(t, CardStatusArchived, 30, 2.2, now.Add(-time.Hour)),   // overdue but archived
	}

	stats := ComputeDeckStatistics(deckID, userID, cards, now)

	assert.Equal(t, deckID, stats.DeckID)
	assert.Equal(t, userID, stats.UserID)
	assert.Equal(t, 5, stats.TotalCards)
	assert.Equal(t, 1, stats.LearningCards)
	assert.Equal(t, 1, stats.ReviewingCards)
	assert.Equal(t, 1, stats.MasteredCards)
	assert.Equal(t, 1, stats.SuspendedCards)
	assert.Equal(t, 1, stats.ArchivedCards)
	assert.Equal(t, 3, stats.ActiveCards())
	assert.Equal(t, 2, stats.DueCards, "suspended and archived cards never count as due")
	assert.InDelta(t, (1+10+90+1+30)/5.0, stats.AvgIntervalDays, 1e-9)
	assert.InDelta(t, (2.5+2.3+2.7+1.3+2.2)/5.0, stats.AvgEaseFactor, 1e-9)
	assert.Equal(t, now, stats.RefreshedAt)
	assert.Equal(t, now.Add(-time.Hour), stats.NextReviewAt)
}

func TestComputeDeckStatisticsEmptyDeck(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()
	stats := ComputeDeckStatistics(uuid.New(), uuid.New(), nil, now)

	assert.Equal(t, 0, stats.TotalCards)
	assert.Equal(t, 0, stats.DueCards)
	assert.Zero(t, stats.AvgEaseFactor)
	assert.Zero(t, stats.AvgIntervalDays)
	assert.True(t, stats.NextReviewAt.IsZero())
	assert.True(t, stats.LastReviewedAt.IsZero())
}

func TestComputeDeckStatisticsIsDeterministic(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	deckID := uuid.New()
	userID := uuid.New()
	cards := []*Card{
		statsCard(t, CardStatusLearning, 1, 2.5, now),
		statsCard(t, CardStatusReviewing, 6, 2.4, now.Add(time.Hour)),
	}

	first := ComputeDeckStatistics(deckID, userID, cards, now)
	second := ComputeDeckStatistics(deckID, userID, cards, now)
	assert.Equal(t, first, second, "recomputation without intervening reviews must be identical")
}
