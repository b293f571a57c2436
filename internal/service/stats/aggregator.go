// Package stats maintains per-deck statistics snapshots. Snapshots are
// always rebuilt from a full scan of the deck's cards; there is no
// incremental update path, so refreshes are idempotent and safe to repeat.
package stats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/store"
)

// Common error types for the aggregator
var (
	// ErrDeckNotFound indicates that the deck does not exist.
	ErrDeckNotFound = errors.New("deck not found")

	// ErrDeckNotOwned indicates that the user may not read the deck's
	// statistics.
	ErrDeckNotOwned = errors.New("unauthorized access: deck not owned by user")
)

// recentReviewWindow is the trailing period covered by the snapshot's
// recent-activity counter.
const recentReviewWindow = 7 * 24 * time.Hour

// Aggregator recomputes and serves deck statistics.
type Aggregator interface {
	// Refresh rebuilds the deck's statistics snapshot from a full card scan
	// and upserts it. Last writer wins; a stale concurrent refresh simply
	// overwrites with slightly older but internally consistent numbers.
	Refresh(ctx context.Context, deckID uuid.UUID) (*domain.DeckStatistics, error)

	// Get returns the deck's statistics snapshot for the requesting user.
	// When no snapshot exists yet, one is computed synchronously so the
	// first read never 404s on a populated deck.
	Get(ctx context.Context, userID, deckID uuid.UUID) (*domain.DeckStatistics, error)
}

// aggregatorImpl implements the Aggregator interface.
type aggregatorImpl struct {
	deckStore  store.DeckStore
	cardStore  store.CardStore
	eventStore store.ReviewEventStore
	statsStore store.DeckStatsStore
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// NewAggregator creates a new statistics Aggregator.
func NewAggregator(
	deckStore store.DeckStore,
	cardStore store.CardStore,
	eventStore store.ReviewEventStore,
	statsStore store.DeckStatsStore,
	log *slog.Logger,
) Aggregator {
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if eventStore == nil {
		panic("eventStore cannot be nil")
	}
	if statsStore == nil {
		panic("statsStore cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &aggregatorImpl{
		deckStore:  deckStore,
		cardStore:  cardStore,
		eventStore: eventStore,
		statsStore: statsStore,
		timeFunc:   time.Now,
		logger:     log.With(slog.String("component", "stats_aggregator")),
	}
}

// Ensure aggregatorImpl implements Aggregator
var _ Aggregator = (*aggregatorImpl)(nil)

// Refresh implements Aggregator.Refresh.
func (a *aggregatorImpl) Refresh(
	ctx context.Context,
	deckID uuid.UUID,
) (*domain.DeckStatistics, error) {
	log := logger.FromContextOrDefault(ctx, a.logger)

	deck, err := a.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}

	cards, err := a.cardStore.ListByDeck(ctx, deckID)
	if err != nil {
		return nil, fmt.Errorf("failed to list deck cards: %w", err)
	}

	now := a.timeFunc().UTC()
	snapshot := domain.ComputeDeckStatistics(deckID, deck.UserID, cards, now)

	recentReviews, err := a.eventStore.CountByDeckSince(ctx, deckID, now.Add(-recentReviewWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to count recent reviews: %w", err)
	}
	snapshot.ReviewsLast7Days = recentReviews

	if err := a.statsStore.Upsert(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store deck statistics: %w", err)
	}

	log.Debug("deck statistics refreshed",
		slog.String("deck_id", deckID.String()),
		slog.Int("total_cards", snapshot.TotalCards),
		slog.Int("due_cards", snapshot.DueCards))

	return snapshot, nil
}

// Get implements Aggregator.Get.
func (a *aggregatorImpl) Get(
	ctx context.Context,
	userID, deckID uuid.UUID,
) (*domain.DeckStatistics, error) {
	deck, err := a.deckStore.GetByID(ctx, deckID)
	if err != nil {
		if errors.Is(err, store.ErrDeckNotFound) {
			return nil, ErrDeckNotFound
		}
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if !deck.CanBeReviewedBy(userID) {
		return nil, ErrDeckNotOwned
	}

	snapshot, err := a.statsStore.Get(ctx, deckID)
	if err == nil {
		return snapshot, nil
	}
	if !errors.Is(err, store.ErrDeckStatsNotFound) {
		return nil, fmt.Errorf("failed to load deck statistics: %w", err)
	}

	// No snapshot yet: compute one on the spot.
	return a.Refresh(ctx, deckID)
}
