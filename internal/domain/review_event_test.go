package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReviewEvent(t *testing.T) {
	t.Parallel()

	card, err := NewCard(uuid.New(), uuid.New(), "front", "back")
	require.NoError(t, err)

	previous := card.Snapshot()

	// Simulate the scheduler's update before the event is recorded.
	reviewedAt := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	card.Interval = 1
	card.Repetitions = 1
	card.LastReviewedAt = reviewedAt
	card.NextReviewAt = reviewedAt.AddDate(0, 0, 1)

	event, err := NewReviewEvent(card, card.UserID, previous, ReviewGradeGood, 4200, reviewedAt)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, card.ID, event.CardID)
	assert.Equal(t, card.DeckID, event.DeckID)
	assert.Equal(t, card.UserID, event.UserID)
	assert.Equal(t, ReviewGradeGood, event.Grade)
	assert.Equal(t, 4200, event.ReviewTimeMs)
	assert.Equal(t, reviewedAt, event.ReviewedAt)

	assert.Equal(t, 0, event.Previous.Interval)
	assert.Equal(t, 0, event.Previous.Repetitions)
	assert.Equal(t, 1, event.Result.Interval)
	assert.Equal(t, 1, event.Result.Repetitions)
}

func TestNewReviewEventRejectsInvalidGrade(t *testing.T) {
	t.Parallel()

	card, err := NewCard(uuid.New(), uuid.New(), "front", "back")
	require.NoError(t, err)

	_, err = NewReviewEvent(card, card.UserID, card.Snapshot(), ReviewGrade(7), 0, time.Now().UTC())
	assert.ErrorIs(t, err, ErrEventGradeInvalid)
}
