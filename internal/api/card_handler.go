package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/revisamed/revisamed-api/internal/api/shared"
	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/platform/logger"
	"github.com/revisamed/revisamed-api/internal/redact"
	"github.com/revisamed/revisamed-api/internal/service/review"
)

// CardHandler handles card review HTTP requests.
type CardHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(reviewService review.ReviewService, log *slog.Logger) *CardHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CardHandler{
		reviewService: reviewService,
		logger:        log.With(slog.String("component", "card_handler")),
	}
}

// GetNextReviewCard handles GET /api/cards/next. Responds 204 when the
// user has no cards due.
func (h *CardHandler) GetNextReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "User ID not found or invalid")
		return
	}

	card, err := h.reviewService.GetNextReviewCard(r.Context(), userID)
	if errors.Is(err, review.ErrNoCardsDue) {
		log.Debug("no cards due for review", slog.String("user_id", userID.String()))
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get next review card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("retrieved next review card",
		slog.String("user_id", userID.String()),
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ReviewCard handles POST /api/cards/{id}/review. It grades the card,
// persists the new schedule, and returns the updated card together with
// the recorded review event.
func (h *CardHandler) ReviewCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := requireUserAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var req ReviewCardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", cardID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error",
			slog.String("error", redact.Error(err)),
			slog.String("card_id", cardID.String()))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	result, err := h.reviewService.RecordReview(r.Context(), userID, cardID, review.ReviewRequest{
		Grade:        domain.ReviewGrade(*req.Grade),
		ReviewTimeMs: req.ReviewTimeMs,
	})
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to record review"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("review recorded",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("grade", result.Event.Grade.String()),
		slog.String("status", string(result.Card.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, ReviewResultResponse{
		Card:  cardToResponse(result.Card),
		Event: eventToResponse(result.Event),
	})
}

// GetCardReviews handles GET /api/cards/{id}/reviews. It returns the
// card's review history, most recent first; a card that has never been
// reviewed gets an empty list.
func (h *CardHandler) GetCardReviews(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := requireUserAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	history, err := h.reviewService.GetReviewHistory(r.Context(), userID, cardID)
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to get review history"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	resp := make([]ReviewEventResponse, 0, len(history))
	for _, event := range history {
		resp = append(resp, eventToResponse(event))
	}

	log.Debug("review history served",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("count", len(resp)))
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// SuspendCard handles POST /api/cards/{id}/suspend.
func (h *CardHandler) SuspendCard(w http.ResponseWriter, r *http.Request) {
	h.changeSuspension(w, r, "suspend")
}

// ResumeCard handles POST /api/cards/{id}/resume.
func (h *CardHandler) ResumeCard(w http.ResponseWriter, r *http.Request) {
	h.changeSuspension(w, r, "resume")
}

func (h *CardHandler) changeSuspension(w http.ResponseWriter, r *http.Request, action string) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, cardID, ok := requireUserAndPathID(w, r, "id", log)
	if !ok {
		return
	}

	var card *domain.Card
	var err error
	if action == "suspend" {
		card, err = h.reviewService.SuspendCard(r.Context(), userID, cardID)
	} else {
		card, err = h.reviewService.ResumeCard(r.Context(), userID, cardID)
	}
	if err != nil {
		statusCode := MapErrorToStatusCode(err)
		safeMessage := GetSafeErrorMessage(err)
		if statusCode == http.StatusInternalServerError {
			safeMessage = "Failed to " + action + " card"
		}
		shared.RespondWithErrorAndLog(w, r, statusCode, safeMessage, err)
		return
	}

	log.Debug("card suspension changed",
		slog.String("user_id", userID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("action", action),
		slog.String("status", string(card.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}
