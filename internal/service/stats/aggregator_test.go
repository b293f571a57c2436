package stats

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/store"
)

// mockDeckStore is a hand-rolled store.DeckStore for aggregator tests.
type mockDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

var _ store.DeckStore = (*mockDeckStore)(nil)

func (m *mockDeckStore) Create(_ context.Context, deck *domain.Deck) error {
	m.decks[deck.ID] = deck
	return nil
}

func (m *mockDeckStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Deck, error) {
	deck, ok := m.decks[id]
	if !ok {
		return nil, store.ErrDeckNotFound
	}
	return deck, nil
}

func (m *mockDeckStore) ListByOwner(_ context.Context, _ uuid.UUID) ([]*domain.Deck, error) {
	return nil, nil
}

func (m *mockDeckStore) WithTx(_ *sql.Tx) store.DeckStore { return m }

// mockCardStore only implements the card listing used by the aggregator.
type mockCardStore struct {
	cards   []*domain.Card
	listErr error
}

var _ store.CardStore = (*mockCardStore)(nil)

func (m *mockCardStore) Create(_ context.Context, _ *domain.Card) error { return nil }

func (m *mockCardStore) GetByID(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) GetByIDForUpdate(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) UpdateSRSState(_ context.Context, _ *domain.Card) error { return nil }

func (m *mockCardStore) UpdateStatus(_ context.Context, _ uuid.UUID, _ domain.CardStatus) error {
	return nil
}

func (m *mockCardStore) GetNextReviewCard(_ context.Context, _ uuid.UUID) (*domain.Card, error) {
	return nil, store.ErrCardNotFound
}

func (m *mockCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []*domain.Card
	for _, c := range m.cards {
		if c.DeckID == deckID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCardStore) WithTx(_ *sql.Tx) store.CardStore { return m }

// mockEventStore serves a canned recent-review count.
type mockEventStore struct {
	recentCount int
	countErr    error
	sinceArg    time.Time
}

var _ store.ReviewEventStore = (*mockEventStore)(nil)

func (m *mockEventStore) Append(_ context.Context, _ *domain.ReviewEvent) error { return nil }

func (m *mockEventStore) ListByCard(
	_ context.Context,
	_ uuid.UUID,
) ([]*domain.ReviewEvent, error) {
	return nil, nil
}

func (m *mockEventStore) CountByDeckSince(
	_ context.Context,
	_ uuid.UUID,
	since time.Time,
) (int, error) {
	m.sinceArg = since
	if m.countErr != nil {
		return 0, m.countErr
	}
	return m.recentCount, nil
}

func (m *mockEventStore) WithTx(_ *sql.Tx) store.ReviewEventStore { return m }

// mockStatsStore records upserts and serves a canned snapshot.
type mockStatsStore struct {
	snapshot  *domain.DeckStatistics
	getErr    error
	upsertErr error
	upserts   []*domain.DeckStatistics
}

var _ store.DeckStatsStore = (*mockStatsStore)(nil)

func (m *mockStatsStore) Upsert(_ context.Context, stats *domain.DeckStatistics) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserts = append(m.upserts, stats)
	m.snapshot = stats
	return nil
}

func (m *mockStatsStore) Get(_ context.Context, _ uuid.UUID) (*domain.DeckStatistics, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	if m.snapshot == nil {
		return nil, store.ErrDeckStatsNotFound
	}
	return m.snapshot, nil
}

func (m *mockStatsStore) WithTx(_ *sql.Tx) store.DeckStatsStore { return m }

type fixture struct {
	aggregator Aggregator
	deckStore  *mockDeckStore
	cardStore  *mockCardStore
	eventStore *mockEventStore
	statsStore *mockStatsStore
	now        time.Time
}

func newFixture(t *testing.T, decks ...*domain.Deck) *fixture {
	t.Helper()

	deckStore := &mockDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
	for _, d := range decks {
		deckStore.decks[d.ID] = d
	}
	cardStore := &mockCardStore{}
	eventStore := &mockEventStore{}
	statsStore := &mockStatsStore{}

	agg := NewAggregator(deckStore, cardStore, eventStore, statsStore, nil)

	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	agg.(*aggregatorImpl).timeFunc = func() time.Time { return now }

	return &fixture{
		aggregator: agg,
		deckStore:  deckStore,
		cardStore:  cardStore,
		eventStore: eventStore,
		statsStore: statsStore,
		now:        now,
	}
}

func newTestDeck(t *testing.T, ownerID uuid.UUID) *domain.Deck {
	t.Helper()
	deck, err := domain.NewDeck(ownerID, "Cardiology", "")
	require.NoError(t, err)
	return deck
}

func newTestCard(
	t *testing.T,
	deck *domain.Deck,
	status domain.CardStatus,
	interval int,
	ease float64,
	nextReviewAt time.Time,
) *domain.Card {
	t.Helper()
	card, err := domain.NewCard(deck.UserID, deck.ID, "front", "back")
	require.NoError(t, err)
	card.Status = status
	card.Interval = interval
	card.EaseFactor = ease
	card.NextReviewAt = nextReviewAt
	return card
}

func TestRefreshComputesAndStoresSnapshot(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)

	due := f.now.Add(-time.Hour)
	future := f.now.Add(48 * time.Hour)
	f.cardStore.cards = []*domain.Card{
		newTestCard(t, deck, domain.CardStatusLearning, 1, 2.5, due),
		newTestCard(t, deck, domain.CardStatusReviewing, 6, 2.3, future),
		newTestCard(t, deck, domain.CardStatusMastered, 30, 2.7, future),
		newTestCard(t, deck, domain.CardStatusSuspended, 4, 2.1, due),
	}

	f.eventStore.recentCount = 9

	snapshot, err := f.aggregator.Refresh(context.Background(), deck.ID)
	require.NoError(t, err)

	assert.Equal(t, deck.ID, snapshot.DeckID)
	assert.Equal(t, ownerID, snapshot.UserID)
	assert.Equal(t, 4, snapshot.TotalCards)
	assert.Equal(t, 1, snapshot.LearningCards)
	assert.Equal(t, 1, snapshot.ReviewingCards)
	assert.Equal(t, 1, snapshot.MasteredCards)
	assert.Equal(t, 1, snapshot.SuspendedCards)
	assert.Equal(t, 1, snapshot.DueCards, "suspended card is not due even when overdue")
	assert.InDelta(t, 2.4, snapshot.AvgEaseFactor, 0.0001)
	assert.InDelta(t, 10.25, snapshot.AvgIntervalDays, 0.0001)
	assert.Equal(t, 9, snapshot.ReviewsLast7Days)
	assert.Equal(t, f.now.Add(-7*24*time.Hour), f.eventStore.sinceArg,
		"recent reviews are counted over the trailing week")
	assert.Equal(t, f.now, snapshot.RefreshedAt)

	require.Len(t, f.statsStore.upserts, 1)
	assert.Equal(t, snapshot, f.statsStore.upserts[0])
}

func TestRefreshEmptyDeck(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)

	snapshot, err := f.aggregator.Refresh(context.Background(), deck.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, snapshot.TotalCards)
	assert.Equal(t, 0, snapshot.DueCards)
	assert.Zero(t, snapshot.AvgEaseFactor)
	assert.True(t, snapshot.NextReviewAt.IsZero())
	require.Len(t, f.statsStore.upserts, 1)
}

func TestRefreshDeckNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.aggregator.Refresh(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrDeckNotFound)
	assert.Empty(t, f.statsStore.upserts)
}

func TestRefreshUpsertError(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)
	f.statsStore.upsertErr = errors.New("connection reset")

	_, err := f.aggregator.Refresh(context.Background(), deck.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to store deck statistics")
}

func TestRefreshRecentCountError(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)
	f.eventStore.countErr = errors.New("connection reset")

	_, err := f.aggregator.Refresh(context.Background(), deck.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count recent reviews")
	assert.Empty(t, f.statsStore.upserts)
}

func TestGetReturnsExistingSnapshot(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)

	existing := &domain.DeckStatistics{
		DeckID:     deck.ID,
		UserID:     ownerID,
		TotalCards: 7,
	}
	f.statsStore.snapshot = existing

	snapshot, err := f.aggregator.Get(context.Background(), ownerID, deck.ID)
	require.NoError(t, err)
	assert.Equal(t, existing, snapshot)
	assert.Empty(t, f.statsStore.upserts, "existing snapshot is served without recomputing")
}

func TestGetComputesWhenSnapshotMissing(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)
	f.cardStore.cards = []*domain.Card{
		newTestCard(t, deck, domain.CardStatusLearning, 0, 2.5, f.now.Add(-time.Minute)),
	}

	snapshot, err := f.aggregator.Get(context.Background(), ownerID, deck.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, snapshot.TotalCards)
	assert.Equal(t, 1, snapshot.DueCards)
	require.Len(t, f.statsStore.upserts, 1, "missing snapshot triggers a synchronous refresh")
}

func TestGetDeckAccess(t *testing.T) {
	ownerID := uuid.New()
	strangerID := uuid.New()

	privateDeck := newTestDeck(t, ownerID)
	publicDeck := newTestDeck(t, ownerID)
	publicDeck.IsPublic = true

	f := newFixture(t, privateDeck, publicDeck)

	_, err := f.aggregator.Get(context.Background(), strangerID, privateDeck.ID)
	assert.ErrorIs(t, err, ErrDeckNotOwned)

	snapshot, err := f.aggregator.Get(context.Background(), strangerID, publicDeck.ID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, snapshot.UserID, "public deck stats stay attributed to the owner")
}

func TestGetDeckNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.aggregator.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, ErrDeckNotFound)
}

func TestGetStoreError(t *testing.T) {
	ownerID := uuid.New()
	deck := newTestDeck(t, ownerID)
	f := newFixture(t, deck)
	f.statsStore.getErr = errors.New("connection reset")

	_, err := f.aggregator.Get(context.Background(), ownerID, deck.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load deck statistics")
}
