package postgres

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/store"
)

// PostgresDeckStatsStore implements the store.DeckStatsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresDeckStatsStore struct {
	db store.DBTX
}

// NewPostgresDeckStatsStore creates a new PostgreSQL implementation of the
// DeckStatsStore interface.
func NewPostgresDeckStatsStore(db store.DBTX) *PostgresDeckStatsStore {
	return &PostgresDeckStatsStore{
		db: db,
	}
}

// Ensure PostgresDeckStatsStore implements store.DeckStatsStore interface
var _ store.DeckStatsStore = (*PostgresDeckStatsStore)(nil)

// WithTx implements store.DeckStatsStore.WithTx
func (s *PostgresDeckStatsStore) WithTx(tx *sql.Tx) store.DeckStatsStore {
	return &PostgresDeckStatsStore{db: tx}
}

// Upsert implements store.DeckStatsStore.Upsert
// Snapshots are whole-row replacements; ON CONFLICT gives last-writer-wins
// semantics without needing a row lock.
func (s *PostgresDeckStatsStore) Upsert(ctx context.Context, stats *domain.DeckStatistics) error {
	log := logger.FromContext(ctx)

	query := `
		INSERT INTO deck_statistics (deck_id, user_id, total_cards,
			learning_cards, reviewing_cards, mastered_cards, suspended_cards, archived_cards,
			due_cards, avg_ease_factor, avg_interval_days, reviews_last_7_days,
			last_reviewed_at, next_review_at, refreshed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		ON CONFLICT (deck_id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			total_cards = EXCLUDED.total_cards,
			learning_cards = EXCLUDED.learning_cards,
			reviewing_cards = EXCLUDED.reviewing_cards,
			mastered_cards = EXCLUDED.mastered_cards,
			suspended_cards = EXCLUDED.suspended_cards,
			archived_cards = EXCLUDED.archived_cards,
			due_cards = EXCLUDED.due_cards,
			avg_ease_factor = EXCLUDED.avg_ease_factor,
			avg_interval_days = EXCLUDED.avg_interval_days,
			reviews_last_7_days = EXCLUDED.reviews_last_7_days,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			next_review_at = EXCLUDED.next_review_at,
			refreshed_at = EXCLUDED.refreshed_at
	`

	_, err := s.db.ExecContext(ctx, query,
		stats.DeckID,
		stats.UserID,
		stats.TotalCards,
		stats.LearningCards,
		stats.ReviewingCards,
		stats.MasteredCards,
		stats.SuspendedCards,
		stats.ArchivedCards,
		stats.DueCards,
		stats.AvgEaseFactor,
		stats.AvgIntervalDays,
		stats.ReviewsLast7Days,
		nullableTime(stats.LastReviewedAt),
		nullableTime(stats.NextReviewAt),
		stats.RefreshedAt,
	)
	if err != nil {
		log.Error("failed to upsert deck statistics",
			slog.String("deck_id", stats.DeckID.String()),
			slog.String("error", err.Error()))
		return MapError(err)
	}

	return nil
}

// Get implements store.DeckStatsStore.Get
func (s *PostgresDeckStatsStore) Get(
	ctx context.Context,
	deckID uuid.UUID,
) (*domain.DeckStatistics, error) {
	query := `
		SELECT deck_id, user_id, total_cards,
			learning_cards, reviewing_cards, mastered_cards, suspended_cards, archived_cards,
			due_cards, avg_ease_factor, avg_interval_days, reviews_last_7_days,
			last_reviewed_at, next_review_at, refreshed_at
		FROM deck_statistics
		WHERE deck_id = $1
	`

	var stats domain.DeckStatistics
	var lastReviewedAt, nextReviewAt sql.NullTime

	err := s.db.QueryRowContext(ctx, query, deckID).Scan(
		&stats.DeckID,
		&stats.UserID,
		&stats.TotalCards,
		&stats.LearningCards,
		&stats.ReviewingCards,
		&stats.MasteredCards,
		&stats.SuspendedCards,
		&stats.ArchivedCards,
		&stats.DueCards,
		&stats.AvgEaseFactor,
		&stats.AvgIntervalDays,
		&stats.ReviewsLast7Days,
		&lastReviewedAt,
		&nextReviewAt,
		&stats.RefreshedAt,
	)
	if err != nil {
		if IsNotFoundError(err) {
			return nil, store.ErrDeckStatsNotFound
		}
		return nil, MapError(err)
	}

	if lastReviewedAt.Valid {
		stats.LastReviewedAt = lastReviewedAt.Time
	}
	if nextReviewAt.Valid {
		stats.NextReviewAt = nextReviewAt.Time
	}

	return &stats, nil
}
