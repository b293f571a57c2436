package srs

import (
	"errors"
	"testing"
	"time"

	"github.com/revisamed/revisamed-api/internal/domain"
)

func TestComputeNextValidation(t *testing.T) {
	t.Parallel()
	service := NewDefaultService()
	now := time.Now().UTC()

	t.Run("nil card is rejected", func(t *testing.T) {
		_, err := service.ComputeNext(nil, domain.ReviewGradeGood, now)
		if !errors.Is(err, ErrNilCard) {
			t.Errorf("expected ErrNilCard, got %v", err)
		}
	})

	t.Run("out-of-range grades are rejected", func(t *testing.T) {
		card := testCard(0, 2.5, 0, 0)
		for _, grade := range []domain.ReviewGrade{-1, 4, 99} {
			_, err := service.ComputeNext(card, grade, now)
			if !errors.Is(err, ErrInvalidGrade) {
				t.Errorf("grade %d: expected ErrInvalidGrade, got %v", grade, err)
			}
		}
	})

	t.Run("valid grades never error", func(t *testing.T) {
		card := testCard(10, 2.2, 4, 1)
		for g := domain.ReviewGradeAgain; g <= domain.ReviewGradeEasy; g++ {
			next, err := service.ComputeNext(card, g, now)
			if err != nil {
				t.Errorf("grade %s: unexpected error %v", g, err)
			}
			if next == nil {
				t.Errorf("grade %s: expected a new state", g)
			}
		}
	})
}

func TestComputeNextUsesConfiguredParams(t *testing.T) {
	t.Parallel()
	service := NewServiceWithParams(NewParams(ParamsConfig{
		FirstIntervalDays: 3,
		LeechThreshold:    2,
	}))
	now := time.Now().UTC()

	card := testCard(0, 2.5, 0, 0)
	next, err := service.ComputeNext(card, domain.ReviewGradeGood, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Interval != 3 {
		t.Errorf("expected configured first interval 3, got %d", next.Interval)
	}

	// Lowered leech threshold triggers suspension on the second lapse.
	card = testCard(5, 2.0, 2, 1)
	next, err = service.ComputeNext(card, domain.ReviewGradeAgain, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if next.Status != domain.CardStatusSuspended {
		t.Errorf("expected SUSPENDED at configured leech threshold, got %s", next.Status)
	}
}

func TestStatusForRepetitions(t *testing.T) {
	svc := NewDefaultService()

	tests := []struct {
		repetitions int
		want        domain.CardStatus
	}{
		{0, domain.CardStatusLearning},
		{2, domain.CardStatusLearning},
		{3, domain.CardStatusReviewing},
		{7, domain.CardStatusReviewing},
		{8, domain.CardStatusMastered},
		{20, domain.CardStatusMastered},
	}

	for _, tc := range tests {
		if got := svc.StatusForRepetitions(tc.repetitions); got != tc.want {
			t.Errorf("StatusForRepetitions(%d) = %v, want %v", tc.repetitions, got, tc.want)
		}
	}
}
