package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
)

// ReviewEventStore defines the interface for the append-only review history.
type ReviewEventStore interface {
	// Append writes a new review event. Events are immutable once written;
	// there are no update or delete operations.
	Append(ctx context.Context, event *domain.ReviewEvent) error

	// ListByCard retrieves the review history for a card, most recent first.
	ListByCard(ctx context.Context, cardID uuid.UUID) ([]*domain.ReviewEvent, error)

	// CountByDeckSince counts the review events recorded for a deck's cards
	// at or after the given time. Used by activity reporting.
	CountByDeckSince(ctx context.Context, deckID uuid.UUID, since time.Time) (int, error)

	// WithTx returns a new ReviewEventStore instance that uses the provided
	// transaction. The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) ReviewEventStore
}
