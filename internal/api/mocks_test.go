package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/revisamed/revisamed-api/internal/domain"
	"github.com/revisamed/revisamed-api/internal/service"
	"github.com/revisamed/revisamed-api/internal/service/auth"
	"github.com/revisamed/revisamed-api/internal/service/review"
	"github.com/revisamed/revisamed-api/internal/service/stats"
)

// mockUserService returns canned users and errors.
type mockUserService struct {
	user      *domain.User
	createErr error
	getErr    error
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) GetUser(_ context.Context, _ uuid.UUID) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserService) GetUserByEmail(_ context.Context, _ string) (*domain.User, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.user, nil
}

func (m *mockUserService) CreateUser(_ context.Context, _, _ string) (*domain.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.user, nil
}

// mockJWTService issues fixed tokens and validates with canned claims.
type mockJWTService struct {
	accessToken  string
	refreshToken string
	generateErr  error
	claims       *auth.Claims
	validateErr  error
}

var _ auth.JWTService = (*mockJWTService)(nil)

func (m *mockJWTService) GenerateToken(_ context.Context, _ uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.accessToken, nil
}

func (m *mockJWTService) ValidateToken(_ context.Context, _ string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

func (m *mockJWTService) GenerateRefreshToken(_ context.Context, _ uuid.UUID) (string, error) {
	if m.generateErr != nil {
		return "", m.generateErr
	}
	return m.refreshToken, nil
}

func (m *mockJWTService) ValidateRefreshToken(_ context.Context, _ string) (*auth.Claims, error) {
	if m.validateErr != nil {
		return nil, m.validateErr
	}
	return m.claims, nil
}

// mockPasswordVerifier accepts a single expected password.
type mockPasswordVerifier struct {
	expected string
}

var _ auth.PasswordVerifier = (*mockPasswordVerifier)(nil)

func (m *mockPasswordVerifier) Compare(_, password string) error {
	if password != m.expected {
		return auth.ErrInvalidCredentials
	}
	return nil
}

// mockDeckService returns a canned deck list.
type mockDeckService struct {
	decks   []*domain.Deck
	listErr error
}

var _ service.DeckService = (*mockDeckService)(nil)

func (m *mockDeckService) ListDecks(_ context.Context, _ uuid.UUID) ([]*domain.Deck, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.decks, nil
}

// mockReviewService returns canned results per operation.
type mockReviewService struct {
	result    *review.ReviewResult
	reviewErr error

	nextCard *domain.Card
	nextErr  error

	history    []*domain.ReviewEvent
	historyErr error

	suspended  *domain.Card
	suspendErr error
	resumed    *domain.Card
	resumeErr  error

	lastGrade  domain.ReviewGrade
	lastTimeMs int
}

var _ review.ReviewService = (*mockReviewService)(nil)

func (m *mockReviewService) RecordReview(
	_ context.Context,
	_ uuid.UUID,
	_ uuid.UUID,
	req review.ReviewRequest,
) (*review.ReviewResult, error) {
	m.lastGrade = req.Grade
	m.lastTimeMs = req.ReviewTimeMs
	if m.reviewErr != nil {
		return nil, m.reviewErr
	}
	return m.result, nil
}

func (m *mockReviewService) GetNextReviewCard(
	_ context.Context,
	_ uuid.UUID,
) (*domain.Card, error) {
	if m.nextErr != nil {
		return nil, m.nextErr
	}
	return m.nextCard, nil
}

func (m *mockReviewService) GetReviewHistory(
	_ context.Context,
	_ uuid.UUID,
	_ uuid.UUID,
) ([]*domain.ReviewEvent, error) {
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	return m.history, nil
}

func (m *mockReviewService) SuspendCard(
	_ context.Context,
	_ uuid.UUID,
	_ uuid.UUID,
) (*domain.Card, error) {
	if m.suspendErr != nil {
		return nil, m.suspendErr
	}
	return m.suspended, nil
}

func (m *mockReviewService) ResumeCard(
	_ context.Context,
	_ uuid.UUID,
	_ uuid.UUID,
) (*domain.Card, error) {
	if m.resumeErr != nil {
		return nil, m.resumeErr
	}
	return m.resumed, nil
}

// mockAggregator returns a canned statistics snapshot.
type mockAggregator struct {
	snapshot *domain.DeckStatistics
	err      error
}

var _ stats.Aggregator = (*mockAggregator)(nil)

func (m *mockAggregator) Refresh(
	_ context.Context,
	_ uuid.UUID,
) (*domain.DeckStatistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}

func (m *mockAggregator) Get(
	_ context.Context,
	_, _ uuid.UUID,
) (*domain.DeckStatistics, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.snapshot, nil
}
