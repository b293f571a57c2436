package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
)

// Event types emitted by the application.
const (
	// EventTypeCardReviewed is emitted after a review has been committed.
	EventTypeCardReviewed = "card.reviewed"

	// EventTypeStatsRefreshRequested asks the background runner to recompute
	// a deck's statistics snapshot.
	EventTypeStatsRefreshRequested = "deck.stats_refresh_requested"
)

// Event is a typed message carrying a JSON payload. It decouples the
// emitting service from whoever consumes the event.
type Event struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type indicates what happened, e.g. EventTypeCardReviewed
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *Event) UnmarshalPayload(v any) error {
	return json.Unmarshal(e.Payload, v)
}

// NewEvent creates a new Event with the specified type and payload.
func NewEvent(eventType string, payload any) (*Event, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// CardReviewedPayload is the payload of EventTypeCardReviewed events.
// Achievement and streak processors consume it.
type CardReviewedPayload struct {
	UserID          uuid.UUID         `json:"user_id"`
	CardID          uuid.UUID         `json:"card_id"`
	DeckID          uuid.UUID         `json:"deck_id"`
	Grade           int               `json:"grade"`
	IsCorrect       bool              `json:"is_correct"`
	ResultingStatus domain.CardStatus `json:"resulting_status"`
	ReviewedAt      time.Time         `json:"reviewed_at"`
}

// StatsRefreshPayload is the payload of EventTypeStatsRefreshRequested events.
type StatsRefreshPayload struct {
	DeckID uuid.UUID `json:"deck_id"`
}

// EventHandler defines an interface for components that can handle events.
// Handlers are responsible for processing events and taking appropriate actions.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *Event) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	// Returns an error if the event cannot be emitted.
	EmitEvent(ctx context.Context, event *Event) error
}
