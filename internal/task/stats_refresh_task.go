package task

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/revisamed/revisamed-api/internal/domain"
)

// StatsRefresher recomputes a deck's statistics snapshot from its cards.
// Implemented by the stats service; declared here so the task package does
// not depend on the service package.
type StatsRefresher interface {
	Refresh(ctx context.Context, deckID uuid.UUID) (*domain.DeckStatistics, error)
}

// StatsRefreshTask recomputes one deck's statistics. Refreshes are full
// recomputations, so running the same task twice is harmless.
type StatsRefreshTask struct {
	id        uuid.UUID
	deckID    uuid.UUID
	refresher StatsRefresher
}

// NewStatsRefreshTask creates a task that refreshes the given deck's
// statistics when executed.
func NewStatsRefreshTask(
	deckID uuid.UUID,
	refresher StatsRefresher,
) (*StatsRefreshTask, error) {
	if deckID == uuid.Nil {
		return nil, fmt.Errorf("deck ID cannot be empty")
	}
	if refresher == nil {
		return nil, fmt.Errorf("refresher cannot be nil")
	}

	return &StatsRefreshTask{
		id:        uuid.New(),
		deckID:    deckID,
		refresher: refresher,
	}, nil
}

// Ensure StatsRefreshTask implements Task
var _ Task = (*StatsRefreshTask)(nil)

// ID implements Task.ID
func (t *StatsRefreshTask) ID() uuid.UUID {
	return t.id
}

// Type implements Task.Type
func (t *StatsRefreshTask) Type() string {
	return TaskTypeStatsRefresh
}

// Execute implements Task.Execute
func (t *StatsRefreshTask) Execute(ctx context.Context) error {
	if _, err := t.refresher.Refresh(ctx, t.deckID); err != nil {
		return fmt.Errorf("failed to refresh deck statistics: %w", err)
	}
	return nil
}
