package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// CardStatus represents the lifecycle state of a flashcard.
type CardStatus string

// Possible card lifecycle states.
const (
	CardStatusLearning  CardStatus = "LEARNING"
	CardStatusReviewing CardStatus = "REVIEWING"
	CardStatusMastered  CardStatus = "MASTERED"
	CardStatusSuspended CardStatus = "SUSPENDED"
	CardStatusArchived  CardStatus = "ARCHIVED"
)

// IsValid reports whether the status is one of the defined lifecycle states.
func (s CardStatus) IsValid() bool {
	switch s {
	case CardStatusLearning,
		CardStatusReviewing,
		CardStatusMastered,
		CardStatusSuspended,
		CardStatusArchived:
		return true
	default:
		return false
	}
}

// ReviewGrade represents the result of a card review on the 0-3 scale
// used throughout the scheduler: again, hard, good, easy.
type ReviewGrade int

// Possible review grades, ordered from total failure to effortless recall.
const (
	ReviewGradeAgain ReviewGrade = iota
	ReviewGradeHard
	ReviewGradeGood
	ReviewGradeEasy
)

// MaxReviewGrade is the ceiling of the grade scale. The ease-factor
// modifier formula is anchored to this value.
const MaxReviewGrade = ReviewGradeEasy

// IsValid reports whether the grade is within the defined 0-3 scale.
func (g ReviewGrade) IsValid() bool {
	return g >= ReviewGradeAgain && g <= ReviewGradeEasy
}

// IsCorrect reports whether the grade counts as a successful recall.
// Grades below "good" are failures.
func (g ReviewGrade) IsCorrect() bool {
	return g >= ReviewGradeGood
}

// String returns the lowercase name of the grade for logging and events.
func (g ReviewGrade) String() string {
	switch g {
	case ReviewGradeAgain:
		return "again"
	case ReviewGradeHard:
		return "hard"
	case ReviewGradeGood:
		return "good"
	case ReviewGradeEasy:
		return "easy"
	default:
		return "unknown"
	}
}

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardDeckIDEmpty is returned when a card's deck ID is empty or nil.
	ErrCardDeckIDEmpty = errors.New("card deck ID cannot be empty")

	// ErrCardContentEmpty is returned when a card's front or back is empty.
	ErrCardContentEmpty = errors.New("card content cannot be empty")

	// ErrCardStatusInvalid is returned when a card's status is not a defined state.
	ErrCardStatusInvalid = errors.New("invalid card status")

	// ErrCardIntervalNegative is returned when a card's interval is below zero.
	ErrCardIntervalNegative = errors.New("interval must be greater than or equal to 0")

	// ErrCardEaseFactorTooLow is returned when a card's ease factor is below the floor.
	ErrCardEaseFactorTooLow = errors.New("ease factor must be at least 1.3")

	// ErrCardCounterNegative is returned when repetitions or lapses go negative.
	ErrCardCounterNegative = errors.New("repetitions and lapses cannot be negative")
)

// Card represents a medical-study flashcard together with its spaced
// repetition state. The SRS fields (Interval through LastReviewedAt) are
// owned by the review flow and must only be mutated through it.
type Card struct {
	ID           uuid.UUID  `json:"id"`
	DeckID       uuid.UUID  `json:"deck_id"`
	UserID       uuid.UUID  `json:"user_id"`
	FrontContent string     `json:"front_content"`
	BackContent  string     `json:"back_content"`
	Status       CardStatus `json:"status"`
	Interval     int        `json:"interval"`    // Current interval in days; 0 for an unreviewed card
	EaseFactor   float64    `json:"ease_factor"` // Growth rate of the interval, floored at 1.3
	Repetitions  int        `json:"repetitions"` // Consecutive successful reviews since the last lapse
	Lapses       int        `json:"lapses"`      // Lifetime count of failed reviews
	NextReviewAt time.Time  `json:"next_review_at"`
	// LastReviewedAt is the zero time for a card that has never been reviewed.
	LastReviewedAt time.Time `json:"last_reviewed_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewCard creates a new Card in the given deck with default SRS state:
// learning, interval 0, ease factor 2.5, due immediately.
// Returns an error if validation fails.
func NewCard(userID, deckID uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:           uuid.New(),
		DeckID:       deckID,
		UserID:       userID,
		FrontContent: front,
		BackContent:  back,
		Status:       CardStatusLearning,
		Interval:     0,
		EaseFactor:   DefaultEaseFactor,
		Repetitions:  0,
		Lapses:       0,
		NextReviewAt: now, // Available for review immediately
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// DefaultEaseFactor is the ease factor assigned to a card that has never
// been reviewed.
const DefaultEaseFactor = 2.5

// MinEaseFactor is the hard floor for a card's ease factor.
const MinEaseFactor = 1.3

// Validate checks if the Card has valid data.
// Returns an error if any field fails validation.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.DeckID == uuid.Nil {
		return ErrCardDeckIDEmpty
	}

	if c.FrontContent == "" || c.BackContent == "" {
		return ErrCardContentEmpty
	}

	if !c.Status.IsValid() {
		return ErrCardStatusInvalid
	}

	if c.Interval < 0 {
		return ErrCardIntervalNegative
	}

	if c.EaseFactor < MinEaseFactor {
		return ErrCardEaseFactorTooLow
	}

	if c.Repetitions < 0 || c.Lapses < 0 {
		return ErrCardCounterNegative
	}

	return nil
}

// IsDue reports whether the card is due for review at the given time.
// Suspended and archived cards are never due.
func (c *Card) IsDue(now time.Time) bool {
	if c.Status == CardStatusSuspended || c.Status == CardStatusArchived {
		return false
	}
	return !c.NextReviewAt.After(now)
}

// Snapshot captures the card's current SRS state. Snapshots are embedded
// in review events and never mutated afterwards.
func (c *Card) Snapshot() SRSSnapshot {
	return SRSSnapshot{
		Interval:     c.Interval,
		EaseFactor:   c.EaseFactor,
		Repetitions:  c.Repetitions,
		Lapses:       c.Lapses,
		Status:       c.Status,
		NextReviewAt: c.NextReviewAt,
	}
}
