package api

import (
	"log/slog"
	"net/http"

	"github.com/revisamed/revisamed-api/internal/api/shared"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/service"
	"github.com/revisamed/revisamed-api/internal/service/stats"
)

// DeckHandler handles deck HTTP requests.
type DeckHandler struct {
	deckService service.DeckService
	aggregator  stats.Aggregator
	logger      *slog.Logger
}

// NewDeckHandler creates a new DeckHandler.
func NewDeckHandler(
	deckService service.DeckService,
	aggregator stats.Aggregator,
	log *slog.Logger,
) *DeckHandler {
	if log == nil {
		log = slog.Default()
	}
	return &DeckHandler{
		deckService: deckService,
		aggregator:  aggregator,
		logger:      log.With(slog.String("component", "deck_handler")),
	}
}

// ListDecks handles GET /api/decks. It returns the authenticated user's
// decks; an empty list is a 200, not a 404.
func (h *DeckHandler) ListDecks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	decks, err := h.deckService.ListDecks(r.Context(), userID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to list decks"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	resp := make([]DeckResponse, 0, len(decks))
	for _, deck := range decks {
		resp = append(resp, deckToResponse(deck))
	}

	log.Debug("decks listed",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(resp)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetDeckStats handles GET /api/decks/{id}/stats. When no snapshot exists
// yet, one is computed synchronously before responding.
func (h *DeckHandler) GetDeckStats(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, deckID, ok := requireUserAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	snapshot, err := h.aggregator.Get(r.Context(), userID, deckID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get deck statistics"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("deck statistics served",
		slog.String("user_id", userID.String()),
		slog.String("deck_id", deckID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(snapshot))
}
