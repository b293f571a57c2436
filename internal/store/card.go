package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
)

// CardStore defines the interface for card data persistence.
type CardStore interface {
	// Create saves a new card to the store.
	// Returns validation errors if the card data is invalid.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	// No row lock is taken; do not use the result as the basis for an
	// SRS-state update.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetByIDForUpdate retrieves a card with a row-level lock using
	// SELECT ... FOR UPDATE. It MUST be called within a transaction; the
	// lock serializes concurrent reviews of the same card so the second
	// writer always sees the first writer's committed state.
	// Returns ErrCardNotFound if the card does not exist.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// UpdateSRSState writes the card's scheduling fields (status, interval,
	// ease factor, repetitions, lapses, next/last review timestamps).
	// Returns ErrCardNotFound if the card does not exist.
	// MUST be run within the same transaction that took the row lock.
	UpdateSRSState(ctx context.Context, card *domain.Card) error

	// UpdateStatus sets only the card's lifecycle status (suspend/resume
	// flows). SRS counters are untouched.
	// Returns ErrCardNotFound if the card does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.CardStatus) error

	// GetNextReviewCard retrieves the user's next due card: the card with
	// the earliest next_review_at that is not suspended or archived.
	// Returns ErrCardNotFound if no cards are due.
	GetNextReviewCard(ctx context.Context, userID uuid.UUID) (*domain.Card, error)

	// ListByDeck retrieves all cards currently bound to the deck.
	// Used by the statistics aggregator's full rescan.
	ListByDeck(ctx context.Context, deckID uuid.UUID) ([]*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) CardStore
}
