package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/revisamed/revisamed-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT used for API authorization.
	AccessToken string `json:"token"`

	// RefreshToken is the JWT used to obtain new access tokens.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires.
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint. Both tokens rotate on every refresh.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    string `json:"expires_at"`
}

// ReviewCardRequest defines the payload for grading a card.
type ReviewCardRequest struct {
	// Grade is the recall quality: 0 again, 1 hard, 2 good, 3 easy.
	Grade *int `json:"grade" validate:"required,gte=0,lte=3"`

	// ReviewTimeMs is the client-reported answer time in milliseconds.
	ReviewTimeMs int `json:"review_time_ms,omitempty" validate:"gte=0"`
}

// CardResponse represents a card together with its scheduling state.
type CardResponse struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deck_id"`
	UserID         string     `json:"user_id"`
	FrontContent   string     `json:"front_content"`
	BackContent    string     `json:"back_content"`
	Status         string     `json:"status"`
	Interval       int        `json:"interval"`
	EaseFactor     float64    `json:"ease_factor"`
	Repetitions    int        `json:"repetitions"`
	Lapses         int        `json:"lapses"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ReviewEventResponse represents one recorded review.
type ReviewEventResponse struct {
	ID           string             `json:"id"`
	CardID       string             `json:"card_id"`
	UserID       string             `json:"user_id"`
	DeckID       string             `json:"deck_id"`
	Grade        int                `json:"grade"`
	GradeName    string             `json:"grade_name"`
	ReviewTimeMs int                `json:"review_time_ms,omitempty"`
	Previous     domain.SRSSnapshot `json:"previous_state"`
	Result       domain.SRSSnapshot `json:"result_state"`
	ReviewedAt   time.Time          `json:"reviewed_at"`
}

// ReviewResultResponse is the body returned after a successful review.
type ReviewResultResponse struct {
	Card  CardResponse        `json:"card"`
	Event ReviewEventResponse `json:"review_event"`
}

// DeckResponse represents a deck in listing responses.
type DeckResponse struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsPublic    bool      `json:"is_public"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DeckStatsResponse represents a deck's statistics snapshot.
type DeckStatsResponse struct {
	DeckID           string     `json:"deck_id"`
	TotalCards       int        `json:"total_cards"`
	LearningCards    int        `json:"learning_cards"`
	ReviewingCards   int        `json:"reviewing_cards"`
	MasteredCards    int        `json:"mastered_cards"`
	SuspendedCards   int        `json:"suspended_cards"`
	ArchivedCards    int        `json:"archived_cards"`
	DueCards         int        `json:"due_cards"`
	AvgEaseFactor    float64    `json:"avg_ease_factor"`
	AvgIntervalDays  float64    `json:"avg_interval_days"`
	ReviewsLast7Days int        `json:"reviews_last_7_days"`
	LastReviewedAt   *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt     *time.Time `json:"next_review_at,omitempty"`
	RefreshedAt      time.Time  `json:"refreshed_at"`
}

// cardToResponse converts a domain.Card to a CardResponse.
func cardToResponse(card *domain.Card) CardResponse {
	resp := CardResponse{
		ID:           card.ID.String(),
		DeckID:       card.DeckID.String(),
		UserID:       card.UserID.String(),
		FrontContent: card.FrontContent,
		BackContent:  card.BackContent,
		Status:       string(card.Status),
		Interval:     card.Interval,
		EaseFactor:   card.EaseFactor,
		Repetitions:  card.Repetitions,
		Lapses:       card.Lapses,
		NextReviewAt: card.NextReviewAt,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
	if !card.LastReviewedAt.IsZero() {
		t := card.LastReviewedAt
		resp.LastReviewedAt = &t
	}
	return resp
}

// eventToResponse converts a domain.ReviewEvent to a ReviewEventResponse.
func eventToResponse(event *domain.ReviewEvent) ReviewEventResponse {
	return ReviewEventResponse{
		ID:           event.ID.String(),
		CardID:       event.CardID.String(),
		UserID:       event.UserID.String(),
		DeckID:       event.DeckID.String(),
		Grade:        int(event.Grade),
		GradeName:    event.Grade.String(),
		ReviewTimeMs: event.ReviewTimeMs,
		Previous:     event.Previous,
		Result:       event.Result,
		ReviewedAt:   event.ReviewedAt,
	}
}

// deckToResponse converts a domain.Deck to a DeckResponse.
func deckToResponse(deck *domain.Deck) DeckResponse {
	return DeckResponse{
		ID:          deck.ID.String(),
		UserID:      deck.UserID.String(),
		Title:       deck.Title,
		Description: deck.Description,
		IsPublic:    deck.IsPublic,
		CreatedAt:   deck.CreatedAt,
		UpdatedAt:   deck.UpdatedAt,
	}
}

// statsToResponse converts a domain.DeckStatistics to a DeckStatsResponse.
func statsToResponse(stats *domain.DeckStatistics) DeckStatsResponse {
	resp := DeckStatsResponse{
		DeckID:           stats.DeckID.String(),
		TotalCards:       stats.TotalCards,
		LearningCards:    stats.LearningCards,
		ReviewingCards:   stats.ReviewingCards,
		MasteredCards:    stats.MasteredCards,
		SuspendedCards:   stats.SuspendedCards,
		ArchivedCards:    stats.ArchivedCards,
		DueCards:         stats.DueCards,
		AvgEaseFactor:    stats.AvgEaseFactor,
		AvgIntervalDays:  stats.AvgIntervalDays,
		ReviewsLast7Days: stats.ReviewsLast7Days,
		RefreshedAt:      stats.RefreshedAt,
	}
	if !stats.LastReviewedAt.IsZero() {
		t := stats.LastReviewedAt
		resp.LastReviewedAt = &t
	}
	if !stats.NextReviewAt.IsZero() {
		t := stats.NextReviewAt
		resp.NextReviewAt = &t
	}
	return resp
}
