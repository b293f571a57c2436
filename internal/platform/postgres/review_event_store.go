package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/store"
)

// PostgresReviewEventStore implements the store.ReviewEventStore interface
// using a PostgreSQL database as the storage backend. The before and after
// scheduling snapshots are stored as JSONB.
type PostgresReviewEventStore struct {
	db store.DBTX
}

// NewPostgresReviewEventStore creates a new PostgreSQL implementation of the
// ReviewEventStore interface.
func NewPostgresReviewEventStore(db store.DBTX) *PostgresReviewEventStore {
	return &PostgresReviewEventStore{
		db: db,
	}
}

// Ensure PostgresReviewEventStore implements store.ReviewEventStore interface
var _ store.ReviewEventStore = (*PostgresReviewEventStore)(nil)

// WithTx implements store.ReviewEventStore.WithTx
func (s *PostgresReviewEventStore) WithTx(tx *sql.Tx) store.ReviewEventStore {
	return &PostgresReviewEventStore{db: tx}
}

// Append implements store.ReviewEventStore.Append
// The event table has no UPDATE or DELETE paths; history is immutable.
func (s *PostgresReviewEventStore) Append(ctx context.Context, event *domain.ReviewEvent) error {
	log := logger.FromContext(ctx)

	if err := event.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	previousJSON, err := json.Marshal(event.Previous)
	if err != nil {
		return fmt.Errorf("failed to marshal previous snapshot: %w", err)
	}
	resultJSON, err := json.Marshal(event.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal result snapshot: %w", err)
	}

	query := `
		INSERT INTO review_events (id, card_id, deck_id, user_id, grade,
			review_time_ms, previous_state, result_state, reviewed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = s.db.ExecContext(ctx, query,
		event.ID,
		event.CardID,
		event.DeckID,
		event.UserID,
		int(event.Grade),
		event.ReviewTimeMs,
		previousJSON,
		resultJSON,
		event.ReviewedAt,
	)
	if err != nil {
		log.Error("failed to append review event",
			slog.String("event_id", event.ID.String()),
			slog.String("card_id", event.CardID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// ListByCard implements store.ReviewEventStore.ListByCard
func (s *PostgresReviewEventStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
) ([]*domain.ReviewEvent, error) {
	query := `
		SELECT id, card_id, deck_id, user_id, grade,
			review_time_ms, previous_state, result_state, reviewed_at
		FROM review_events
		WHERE card_id = $1
		ORDER BY reviewed_at DESC, id DESC
	`

	rows, err := s.db.QueryContext(ctx, query, cardID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var events []*domain.ReviewEvent
	for rows.Next() {
		event, err := scanReviewEvent(rows)
		if err != nil {
			return nil, MapError(err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return events, nil
}

// CountByDeckSince implements store.ReviewEventStore.CountByDeckSince
func (s *PostgresReviewEventStore) CountByDeckSince(
	ctx context.Context,
	deckID uuid.UUID,
	since time.Time,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_events
		WHERE deck_id = $1 AND reviewed_at >= $2
	`

	var count int
	if err := s.db.QueryRowContext(ctx, query, deckID, since).Scan(&count); err != nil {
		return 0, MapError(err)
	}

	return count, nil
}

func scanReviewEvent(rows *sql.Rows) (*domain.ReviewEvent, error) {
	var event domain.ReviewEvent
	var grade int
	var previousJSON, resultJSON []byte

	err := rows.Scan(
		&event.ID,
		&event.CardID,
		&event.DeckID,
		&event.UserID,
		&grade,
		&event.ReviewTimeMs,
		&previousJSON,
		&resultJSON,
		&event.ReviewedAt,
	)
	if err != nil {
		return nil, err
	}

	event.Grade = domain.ReviewGrade(grade)
	if err := json.Unmarshal(previousJSON, &event.Previous); err != nil {
		return nil, fmt.Errorf("failed to unmarshal previous snapshot: %w", err)
	}
	if err := json.Unmarshal(resultJSON, &event.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result snapshot: %w", err)
	}

	return &event, nil
}
