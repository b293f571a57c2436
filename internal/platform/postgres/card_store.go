package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/store"
)

// cardColumns is the column list shared by every card SELECT so scanCard
// stays in sync with the queries.
const cardColumns = `id, deck_id, user_id, front_content, back_content, status,
	interval_days, ease_factor, repetitions, lapses,
	next_review_at, last_reviewed_at, created_at, updated_at`

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db store.DBTX
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresCardStore(db store.DBTX) *PostgresCardStore {
	return &PostgresCardStore{
		db: db,
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx}
}

// Create implements store.CardStore.Create
// It validates the card before saving and maps constraint violations to
// store errors.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContext(ctx)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO cards (id, deck_id, user_id, front_content, back_content, status,
			interval_days, ease_factor, repetitions, lapses,
			next_review_at, last_reviewed_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := s.db.ExecContext(ctx, query,
		card.ID,
		card.DeckID,
		card.UserID,
		card.FrontContent,
		card.BackContent,
		card.Status,
		card.Interval,
		card.EaseFactor,
		card.Repetitions,
		card.Lapses,
		card.NextReviewAt,
		nullableTime(card.LastReviewedAt),
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create card",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return card, nil
}

// GetByIDForUpdate implements store.CardStore.GetByIDForUpdate
// The row lock is held until the surrounding transaction commits or rolls
// back, so a concurrent review of the same card blocks here and then reads
// the first writer's committed state.
func (s *PostgresCardStore) GetByIDForUpdate(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 FOR UPDATE`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return card, nil
}

// UpdateSRSState implements store.CardStore.UpdateSRSState
func (s *PostgresCardStore) UpdateSRSState(ctx context.Context, card *domain.Card) error {
	log := logger.FromContext(ctx)

	if err := card.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE cards
		SET status = $1,
			interval_days = $2,
			ease_factor = $3,
			repetitions = $4,
			lapses = $5,
			next_review_at = $6,
			last_reviewed_at = $7,
			updated_at = $8
		WHERE id = $9
	`

	result, err := s.db.ExecContext(ctx, query,
		card.Status,
		card.Interval,
		card.EaseFactor,
		card.Repetitions,
		card.Lapses,
		card.NextReviewAt,
		nullableTime(card.LastReviewedAt),
		card.UpdatedAt,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card scheduling state",
			slog.String("card_id", card.ID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return CheckRowsAffected(result, "card")
}

// UpdateStatus implements store.CardStore.UpdateStatus
func (s *PostgresCardStore) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	status domain.CardStatus,
) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, domain.ErrCardStatusInvalid)
	}

	query := `
		UPDATE cards
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, "card")
}

// GetNextReviewCard implements store.CardStore.GetNextReviewCard
// Among the user's due cards it picks the one with the earliest
// next_review_at; suspended and archived cards never surface.
func (s *PostgresCardStore) GetNextReviewCard(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + `
		FROM cards
		WHERE user_id = $1
		  AND status NOT IN ($2, $3)
		  AND next_review_at <= $4
		ORDER BY next_review_at ASC, id ASC
		LIMIT 1`

	card, err := scanCard(s.db.QueryRowContext(ctx, query,
		userID,
		domain.CardStatusSuspended,
		domain.CardStatusArchived,
		time.Now().UTC(),
	))
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrCardNotFound
		}
		return nil, MapError(err)
	}

	return card, nil
}

// ListByDeck implements store.CardStore.ListByDeck
func (s *PostgresCardStore) ListByDeck(
	ctx context.Context,
	deckID uuid.UUID,
) ([]*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE deck_id = $1 ORDER BY created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, deckID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	var cards []*domain.Card
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, MapError(err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return cards, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanCard.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*domain.Card, error) {
	var card domain.Card
	var lastReviewedAt sql.NullTime

	err := row.Scan(
		&card.ID,
		&card.DeckID,
		&card.UserID,
		&card.FrontContent,
		&card.BackContent,
		&card.Status,
		&card.Interval,
		&card.EaseFactor,
		&card.Repetitions,
		&card.Lapses,
		&card.NextReviewAt,
		&lastReviewedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if lastReviewedAt.Valid {
		card.LastReviewedAt = lastReviewedAt.Time
	}

	return &card, nil
}

// nullableTime maps the zero time to SQL NULL.
func nullableTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}
