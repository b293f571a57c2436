package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/domain/srs"
	"github.com/revisamed/revisamed-api/internal/events"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/store"
)

// conflictRetries is how many times a review that lost a serialization race
// is re-attempted against fresh state before the conflict is surfaced.
const conflictRetries = 1

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	db         *sql.DB
	cardStore  store.CardStore
	deckStore  store.DeckStore
	eventStore store.ReviewEventStore
	srsService srs.Service
	emitter    events.EventEmitter
	timeFunc   func() time.Time
	logger     *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
// emitter may be nil, in which case no domain events are published.
func NewReviewService(
	db *sql.DB,
	cardStore store.CardStore,
	deckStore store.DeckStore,
	eventStore store.ReviewEventStore,
	srsService srs.Service,
	emitter events.EventEmitter,
	log *slog.Logger,
) ReviewService {
	if db == nil {
		panic("db cannot be nil")
	}
	if cardStore == nil {
		panic("cardStore cannot be nil")
	}
	if deckStore == nil {
		panic("deckStore cannot be nil")
	}
	if eventStore == nil {
		panic("eventStore cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &reviewServiceImpl{
		db:         db,
		cardStore:  cardStore,
		deckStore:  deckStore,
		eventStore: eventStore,
		srsService: srsService,
		emitter:    emitter,
		timeFunc:   time.Now,
		logger:     log.With(slog.String("component", "review_service")),
	}
}

// RecordReview implements ReviewService.RecordReview.
func (s *reviewServiceImpl) RecordReview(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	req ReviewRequest,
) (*ReviewResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !req.Grade.IsValid() {
		log.Warn("invalid review grade",
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("grade", int(req.Grade)))
		return nil, ErrInvalidGrade
	}

	var result *ReviewResult
	var err error
	for attempt := 0; attempt <= conflictRetries; attempt++ {
		result, err = s.recordReviewOnce(ctx, userID, cardID, req)
		if err == nil {
			break
		}
		if store.IsConflictError(err) && attempt < conflictRetries {
			log.Debug("review lost a serialization race, retrying",
				slog.String("card_id", cardID.String()),
				slog.Int("attempt", attempt+1))
			continue
		}
		break
	}
	if err != nil {
		if errors.Is(err, ErrCardNotFound) || errors.Is(err, ErrCardNotOwned) {
			return nil, err
		}
		if store.IsConflictError(err) {
			log.Warn("review conflicted with a concurrent update",
				slog.String("user_id", userID.String()),
				slog.String("card_id", cardID.String()))
			return nil, fmt.Errorf("%w: %v", ErrReviewConflict, err)
		}
		log.Error("failed to record review",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("card_id", cardID.String()))
		return nil, NewRecordReviewError("failed to record review", err)
	}

	// Post-commit fan-out is best effort: the review is already durable, so
	// failures here are logged and never surfaced to the caller.
	s.publishReviewEvents(ctx, result)

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("grade", int(req.Grade)),
		slog.Int("interval", result.Card.Interval),
		slog.String("status", string(result.Card.Status)),
		slog.Time("next_review_at", result.Card.NextReviewAt))

	return result, nil
}

// recordReviewOnce runs a single transactional attempt of the review flow.
func (s *reviewServiceImpl) recordReviewOnce(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	req ReviewRequest,
) (*ReviewResult, error) {
	var result *ReviewResult

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cardStore.WithTx(tx)
		txDecks := s.deckStore.WithTx(tx)
		txEvents := s.eventStore.WithTx(tx)

		card, err := txCards.GetByIDForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to load card: %w", err)
		}

		deck, err := txDecks.GetByID(ctx, card.DeckID)
		if err != nil {
			return fmt.Errorf("failed to load deck: %w", err)
		}
		if !deck.CanBeReviewedBy(userID) {
			return ErrCardNotOwned
		}

		now := s.timeFunc().UTC()
		previous := card.Snapshot()

		next, err := s.srsService.ComputeNext(card, req.Grade, now)
		if err != nil {
			return fmt.Errorf("failed to compute next schedule: %w", err)
		}

		if err := txCards.UpdateSRSState(ctx, next); err != nil {
			return fmt.Errorf("failed to persist card schedule: %w", err)
		}

		event, err := domain.NewReviewEvent(next, userID, previous, req.Grade, req.ReviewTimeMs, now)
		if err != nil {
			return fmt.Errorf("failed to build review event: %w", err)
		}
		if err := txEvents.Append(ctx, event); err != nil {
			return fmt.Errorf("failed to append review event: %w", err)
		}

		result = &ReviewResult{Card: next, Event: event}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// publishReviewEvents emits the post-commit domain events: the reviewed
// notification and the statistics refresh request.
func (s *reviewServiceImpl) publishReviewEvents(ctx context.Context, result *ReviewResult) {
	if s.emitter == nil {
		return
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	reviewed, err := events.NewEvent(events.EventTypeCardReviewed, events.CardReviewedPayload{
		UserID:          result.Event.UserID,
		CardID:          result.Card.ID,
		DeckID:          result.Card.DeckID,
		Grade:           int(result.Event.Grade),
		IsCorrect:       result.Event.Grade.IsCorrect(),
		ResultingStatus: result.Card.Status,
		ReviewedAt:      result.Event.ReviewedAt,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, reviewed)
	}
	if err != nil {
		log.Warn("failed to publish card reviewed event",
			slog.String("error", err.Error()),
			slog.String("card_id", result.Card.ID.String()))
	}

	refresh, err := events.NewEvent(events.EventTypeStatsRefreshRequested, events.StatsRefreshPayload{
		DeckID: result.Card.DeckID,
	})
	if err == nil {
		err = s.emitter.EmitEvent(ctx, refresh)
	}
	if err != nil {
		log.Warn("failed to request statistics refresh",
			slog.String("error", err.Error()),
			slog.String("deck_id", result.Card.DeckID.String()))
	}
}

// GetNextReviewCard implements ReviewService.GetNextReviewCard.
func (s *reviewServiceImpl) GetNextReviewCard(
	ctx context.Context,
	userID uuid.UUID,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetNextReviewCard(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			log.Debug("no cards due for review",
				slog.String("user_id", userID.String()))
			return nil, ErrNoCardsDue
		}
		log.Error("failed to get next review card",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, fmt.Errorf("failed to get next review card: %w", err)
	}

	return card, nil
}

// GetReviewHistory implements ReviewService.GetReviewHistory.
func (s *reviewServiceImpl) GetReviewHistory(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) ([]*domain.ReviewEvent, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cardStore.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to load card: %w", err)
	}

	deck, err := s.deckStore.GetByID(ctx, card.DeckID)
	if err != nil {
		return nil, fmt.Errorf("failed to load deck: %w", err)
	}
	if !deck.CanBeReviewedBy(userID) {
		return nil, ErrCardNotOwned
	}

	history, err := s.eventStore.ListByCard(ctx, cardID)
	if err != nil {
		log.Error("failed to list review history",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to list review history: %w", err)
	}

	return history, nil
}

// SuspendCard implements ReviewService.SuspendCard.
func (s *reviewServiceImpl) SuspendCard(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) (*domain.Card, error) {
	return s.setSuspension(ctx, userID, cardID, true)
}

// ResumeCard implements ReviewService.ResumeCard.
func (s *reviewServiceImpl) ResumeCard(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
) (*domain.Card, error) {
	return s.setSuspension(ctx, userID, cardID, false)
}

// setSuspension toggles a card's suspended state. Suspension only touches
// the lifecycle status; interval, ease, repetitions and lapses all survive
// the round trip.
func (s *reviewServiceImpl) setSuspension(
	ctx context.Context,
	userID uuid.UUID,
	cardID uuid.UUID,
	suspend bool,
) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.Card
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txCards := s.cardStore.WithTx(tx)
		txDecks := s.deckStore.WithTx(tx)

		card, err := txCards.GetByIDForUpdate(ctx, cardID)
		if err != nil {
			if errors.Is(err, store.ErrCardNotFound) {
				return ErrCardNotFound
			}
			return fmt.Errorf("failed to load card: %w", err)
		}

		deck, err := txDecks.GetByID(ctx, card.DeckID)
		if err != nil {
			return fmt.Errorf("failed to load deck: %w", err)
		}
		// Unlike reviews, suspension is owner-only even on public decks.
		if deck.UserID != userID {
			return ErrCardNotOwned
		}

		var status domain.CardStatus
		if suspend {
			status = domain.CardStatusSuspended
		} else {
			if card.Status != domain.CardStatusSuspended {
				return ErrCardNotSuspended
			}
			status = s.srsService.StatusForRepetitions(card.Repetitions)
		}

		if err := txCards.UpdateStatus(ctx, cardID, status); err != nil {
			return fmt.Errorf("failed to update card status: %w", err)
		}

		card.Status = status
		updated = card
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCardNotFound) ||
			errors.Is(err, ErrCardNotOwned) ||
			errors.Is(err, ErrCardNotSuspended) {
			return nil, err
		}
		log.Error("failed to toggle card suspension",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()),
			slog.Bool("suspend", suspend))
		return nil, fmt.Errorf("failed to toggle card suspension: %w", err)
	}

	return updated, nil
}
