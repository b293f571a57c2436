package task

import (
	"context"

	"github.com/google/uuid"
)

// Task type constants
const (
	// TaskTypeStatsRefresh recomputes a deck's statistics snapshot.
	TaskTypeStatsRefresh = "deck_stats_refresh"
)

// Task represents a unit of background work to be processed.
// Tasks must be idempotent: the runner may execute a task more than once
// when retrying after a failure.
type Task interface {
	// ID returns the task's unique identifier
	ID() uuid.UUID

	// Type returns the task type identifier
	Type() string

	// Execute runs the task logic
	Execute(ctx context.Context) error
}
