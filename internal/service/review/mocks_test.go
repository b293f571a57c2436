package review

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/events"
	"github.com/revisamed/revisamed-api/internal/store"
)

// mockCardStore is a hand-rolled store.CardStore for service tests.
// WithTx returns the same instance so assertions see all calls.
type mockCardStore struct {
	mu sync.Mutex

	cards map[uuid.UUID]*domain.Card

	// error overrides, consumed in order when non-empty
	updateSRSErrs []error

	nextCard *domain.Card
	nextErr  error

	srsUpdates    []*domain.Card
	statusUpdates []domain.CardStatus
}

func newMockCardStore(cards ...*domain.Card) *mockCardStore {
	m := &mockCardStore{cards: make(map[uuid.UUID]*domain.Card)}
	for _, c := range cards {
		m.cards[c.ID] = c
	}
	return m
}

var _ store.CardStore = (*mockCardStore)(nil)

func (m *mockCardStore) Create(_ context.Context, card *domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cards[card.ID] = card
	return nil
}

func (m *mockCardStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return nil, store.ErrCardNotFound
	}
	copied := *card
	return &copied, nil
}

func (m *mockCardStore) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.GetByID(ctx, id)
}

func (m *mockCardStore) UpdateSRSState(_ context.Context, card *domain.Card) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.updateSRSErrs) > 0 {
		err := m.updateSRSErrs[0]
		m.updateSRSErrs = m.updateSRSErrs[1:]
		if err != nil {
			return err
		}
	}
	copied := *card
	m.cards[card.ID] = &copied
	m.srsUpdates = append(m.srsUpdates, &copied)
	return nil
}

func (m *mockCardStore) UpdateStatus(
	_ context.Context,
	id uuid.UUID,
	status domain.CardStatus,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	card, ok := m.cards[id]
	if !ok {
		return store.ErrCardNotFound
	}
	card.Status = status
	m.statusUpdates = append(m.statusUpdates, status)
	return nil
}

func (m *mockCardStore) GetNextReviewCard(
	_ context.Context,
	_ uuid.UUID,
) (*domain.Card, error) {
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	if m.nextCard == nil {
		return nil, store.ErrCardNotFound
	}
	return m.nextCard, nil
}

func (m *mockCardStore) ListByDeck(_ context.Context, deckID uuid.UUID) ([]*domain.Card, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.Card
	for _, c := range m.cards {
		if c.DeckID == deckID {
			copied := *c
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (m *mockCardStore) WithTx(_ *sql.Tx) store.CardStore { return m }

// mockDeckStore is a hand-rolled store.DeckStore for service tests.
type mockDeckStore struct {
	decks map[uuid.UUID]*domain.Deck
}

func newMockDeckStore(decks ...*domain.Deck) *mockDeckStore {
	m := &mockDeckStore{decks: make(map[uuid.UUID]*domain.Deck)}
	for _, d := range decks {
		m.decks[d.ID] = d
	}
	return m
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

// mockEventStore is a hand-rolled store.ReviewEventStore for service tests.
type mockEventStore struct {
	mu        sync.Mutex
	appended  []*domain.ReviewEvent
	appendErr error
}

var _ store.ReviewEventStore = (*mockEventStore)(nil)

func (m *mockEventStore) Append(_ context.Context, event *domain.ReviewEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return m.appendErr
	}
	m.appended = append(m.appended, event)
	return nil
}

func (m *mockEventStore) ListByCard(
	_ context.Context,
	cardID uuid.UUID,
) ([]*domain.ReviewEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.ReviewEvent
	for _, e := range m.appended {
		if e.CardID == cardID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockEventStore) CountByDeckSince(
	_ context.Context,
	_ uuid.UUID,
	_ time.Time,
) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appended), nil
}

func (m *mockEventStore) WithTx(_ *sql.Tx) store.ReviewEventStore { return m }

// recordingEmitter captures emitted events.
type recordingEmitter struct {
	mu      sync.Mutex
	emitted []*events.Event
	err     error
}

var _ events.EventEmitter = (*recordingEmitter)(nil)

func (e *recordingEmitter) EmitEvent(_ context.Context, event *events.Event) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.emitted = append(e.emitted, event)
	return e.err
}

func (e *recordingEmitter) byType(eventType string) []*events.Event {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []*events.Event
	for _, ev := range e.emitted {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
