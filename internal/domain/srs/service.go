package srs

import (
	"errors"
	"time"

	"github.com/revisamed/revisamed-api/internal/domain"
)

// Common errors
var (
	ErrNilCard      = errors.New("card cannot be nil")
	ErrInvalidGrade = errors.New("invalid review grade")
)

// Service defines the interface for SRS scheduling operations.
// Implementations must be pure: no I/O, no hidden state beyond the
// configured parameters.
type Service interface {
	// ComputeNext computes the card's next scheduling state for a review
	// grade. The input card is not modified. Returns ErrInvalidGrade for
	// grades outside the 0-3 scale; any valid grade always produces a
	// valid new state.
	ComputeNext(
		card *domain.Card,
		grade domain.ReviewGrade,
		now time.Time,
	) (*domain.Card, error)

	// StatusForRepetitions returns the lifecycle status the progression
	// ladder assigns to a card with the given consecutive success count.
	// Used when a suspended card re-enters the rotation.
	StatusForRepetitions(repetitions int) domain.CardStatus
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// ComputeNext implements the Service interface.
func (s *defaultService) ComputeNext(
	card *domain.Card,
	grade domain.ReviewGrade,
	now time.Time,
) (*domain.Card, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if !grade.IsValid() {
		return nil, ErrInvalidGrade
	}

	return calculateNextState(card, grade, now, s.params), nil
}

// StatusForRepetitions implements the Service interface.
func (s *defaultService) StatusForRepetitions(repetitions int) domain.CardStatus {
	return deriveStatus(repetitions, s.params)
}
