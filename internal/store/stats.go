package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
)

// DeckStatsStore defines the interface for persisted deck statistics snapshots.
type DeckStatsStore interface {
	// Upsert writes a statistics snapshot, replacing any existing snapshot
	// for the same deck. Last writer wins; snapshots are always recomputed
	// from a full card scan, never patched incrementally.
	Upsert(ctx context.Context, stats *domain.DeckStatistics) error

	// Get retrieves the latest statistics snapshot for the deck.
	// Returns ErrDeckStatsNotFound if no snapshot has been computed yet.
	Get(ctx context.Context, deckID uuid.UUID) (*domain.DeckStatistics, error)

	// WithTx returns a new DeckStatsStore instance that uses the provided
	// transaction. The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) DeckStatsStore
}
