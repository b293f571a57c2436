package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Review event validation errors
var (
	// ErrEventCardIDEmpty is returned when a review event's card ID is empty.
	ErrEventCardIDEmpty = errors.New("review event card ID cannot be empty")

	// ErrEventUserIDEmpty is returned when a review event's user ID is empty.
	ErrEventUserIDEmpty = errors.New("review event user ID cannot be empty")

	// ErrEventGradeInvalid is returned when a review event carries a grade
	// outside the 0-3 scale.
	ErrEventGradeInvalid = errors.New("review event grade is invalid")
)

// SRSSnapshot is a point-in-time copy of a card's scheduling state.
type SRSSnapshot struct {
	Interval     int        `json:"interval"`
	EaseFactor   float64    `json:"ease_factor"`
	Repetitions  int        `json:"repetitions"`
	Lapses       int        `json:"lapses"`
	Status       CardStatus `json:"status"`
	NextReviewAt time.Time  `json:"next_review_at"`
}

// ReviewEvent records a single card review. Events are append-only: once
// written they are never updated or deleted, and serve audit, analytics,
// and achievement/streak processing.
type ReviewEvent struct {
	ID           uuid.UUID   `json:"id"`
	CardID       uuid.UUID   `json:"card_id"`
	DeckID       uuid.UUID   `json:"deck_id"`
	UserID       uuid.UUID   `json:"user_id"`
	Grade        ReviewGrade `json:"grade"`
	ReviewTimeMs int         `json:"review_time_ms,omitempty"` // 0 when the client did not report timing
	Previous     SRSSnapshot `json:"previous"`
	Result       SRSSnapshot `json:"result"`
	ReviewedAt   time.Time   `json:"reviewed_at"`
}

// NewReviewEvent creates an immutable record of a review, capturing the
// card state before and after the grade was applied. reviewerID is the user
// who performed the review; on public decks this may differ from the card's
// owner.
func NewReviewEvent(
	card *Card,
	reviewerID uuid.UUID,
	previous SRSSnapshot,
	grade ReviewGrade,
	reviewTimeMs int,
	reviewedAt time.Time,
) (*ReviewEvent, error) {
	event := &ReviewEvent{
		ID:           uuid.New(),
		CardID:       card.ID,
		DeckID:       card.DeckID,
		UserID:       reviewerID,
		Grade:        grade,
		ReviewTimeMs: reviewTimeMs,
		Previous:     previous,
		Result:       card.Snapshot(),
		ReviewedAt:   reviewedAt,
	}

	if err := event.Validate(); err != nil {
		return nil, err
	}

	return event, nil
}

// Validate checks if the ReviewEvent has valid data.
func (e *ReviewEvent) Validate() error {
	if e.CardID == uuid.Nil {
		return ErrEventCardIDEmpty
	}

	if e.UserID == uuid.Nil {
		return ErrEventUserIDEmpty
	}

	if !e.Grade.IsValid() {
		return ErrEventGradeInvalid
	}

	return nil
}
