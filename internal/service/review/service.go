// Package review implements the card review workflow: grading a card,
// persisting its new schedule atomically with the review record, and
// fanning out follow-up work.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
)

// ReviewRequest carries a user's answer to a flashcard.
type ReviewRequest struct {
	// Grade is the recall quality on the 0-3 scale (again, hard, good, easy).
	Grade domain.ReviewGrade `json:"grade"`

	// ReviewTimeMs is how long the user took to answer, in milliseconds.
	// Zero means the client did not report timing.
	ReviewTimeMs int `json:"review_time_ms,omitempty"`
}

// ReviewResult is the outcome of a recorded review.
type ReviewResult struct {
	// Card is the card's state after the grade was applied.
	Card *domain.Card `json:"card"`

	// Event is the immutable review record written alongside the card.
	Event *domain.ReviewEvent `json:"review_event"`
}

// ReviewService provides operations for reviewing flashcards on a spaced
// repetition schedule.
type ReviewService interface {
	// RecordReview grades a card and persists the resulting schedule.
	//
	// The card load, schedule write, and review-event append happen in one
	// transaction guarded by a row lock, so concurrent reviews of the same
	// card serialize and the later one sees the earlier one's committed
	// state. A review that loses a serialization race is retried once
	// against fresh state before the conflict is surfaced.
	//
	// Returns ErrCardNotFound if the card does not exist, ErrCardNotOwned
	// if the requester may not review the card's deck, and ErrInvalidGrade
	// for grades outside the 0-3 scale.
	RecordReview(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
		req ReviewRequest,
	) (*ReviewResult, error)

	// GetNextReviewCard retrieves the user's next due card: earliest
	// next_review_at not after now, suspended and archived cards excluded.
	// Returns ErrNoCardsDue when nothing is due.
	GetNextReviewCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error)

	// GetReviewHistory lists a card's review events, most recent first.
	// Access follows the review rule: the deck owner always may, anyone may
	// on a public deck.
	GetReviewHistory(
		ctx context.Context,
		userID uuid.UUID,
		cardID uuid.UUID,
	) ([]*domain.ReviewEvent, error)

	// SuspendCard takes a card out of the review rotation. Scheduling
	// counters are preserved. Only the deck owner may suspend.
	SuspendCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*domain.Card, error)

	// ResumeCard returns a suspended card to the rotation. Its status is
	// re-derived from the preserved repetition count; lapses are kept, so a
	// leech that lapses again is suspended again.
	ResumeCard(ctx context.Context, userID uuid.UUID, cardID uuid.UUID) (*domain.Card, error)
}

// Common error types for ReviewService
var (
	// ErrNoCardsDue indicates that the user has no cards due for review.
	ErrNoCardsDue = errors.New("no cards due for review")

	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the user may not act on the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidGrade indicates a grade outside the 0-3 scale.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrCardNotSuspended indicates a resume was attempted on a card that
	// is not suspended.
	ErrCardNotSuspended = errors.New("card is not suspended")

	// ErrReviewConflict indicates the review lost a concurrency race twice
	// and was not applied.
	ErrReviewConflict = errors.New("review conflicted with a concurrent update")
)

// ServiceError wraps errors from the review service with additional context.
// Consumers differentiate failure classes with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "record_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewRecordReviewError returns a new ServiceError for the record_review operation.
func NewRecordReviewError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "record_review",
		Message:   message,
		Err:       err,
	}
}
