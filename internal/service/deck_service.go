package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/store"
)

// DeckService provides deck catalogue operations.
type DeckService interface {
	// ListDecks retrieves all decks owned by the given user.
	ListDecks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Deck, error)
}

// DeckServiceImpl implements the DeckService interface
type DeckServiceImpl struct {
	deckStore store.DeckStore
	logger    *slog.Logger
}

// NewDeckService creates a new DeckService
func NewDeckService(deckStore store.DeckStore, logger *slog.Logger) DeckService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeckServiceImpl{
		deckStore: deckStore,
		logger:    logger.With(slog.String("component", "deck_service")),
	}
}

// ListDecks retrieves all decks owned by the given user.
func (s *DeckServiceImpl) ListDecks(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]*domain.Deck, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	decks, err := s.deckStore.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Error("failed to list decks",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to list decks: %w", err)
	}

	return decks, nil
}
