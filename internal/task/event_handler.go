package task

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/revisamed/revisamed-api/internal/events"
)

// StatsRefreshEventHandler implements the events.EventHandler interface.
// It converts stats refresh request events into background tasks and
// submits them to the runner.
type StatsRefreshEventHandler struct {
	refresher StatsRefresher
	runner    *Runner
	logger    *slog.Logger
}

// NewStatsRefreshEventHandler creates an event handler that schedules
// statistics refreshes through the given runner.
func NewStatsRefreshEventHandler(
	refresher StatsRefresher,
	runner *Runner,
	logger *slog.Logger,
) *StatsRefreshEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StatsRefreshEventHandler{
		refresher: refresher,
		runner:    runner,
		logger:    logger.With(slog.String("component", "stats_refresh_event_handler")),
	}
}

// Ensure StatsRefreshEventHandler implements events.EventHandler
var _ events.EventHandler = (*StatsRefreshEventHandler)(nil)

// HandleEvent processes stats refresh request events. Events of any other
// type are ignored so the handler can share an emitter with others.
func (h *StatsRefreshEventHandler) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.EventTypeStatsRefreshRequested {
		h.logger.Debug("ignoring event with unsupported type",
			slog.String("event_type", event.Type),
			slog.String("event_id", event.ID.String()))
		return nil
	}

	var payload events.StatsRefreshPayload
	if err := event.UnmarshalPayload(&payload); err != nil {
		h.logger.Error("failed to unmarshal payload",
			slog.String("error", err.Error()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	t, err := NewStatsRefreshTask(payload.DeckID, h.refresher)
	if err != nil {
		h.logger.Error("failed to create stats refresh task",
			slog.String("error", err.Error()),
			slog.String("deck_id", payload.DeckID.String()),
			slog.String("event_id", event.ID.String()))
		return fmt.Errorf("failed to create stats refresh task: %w", err)
	}

	if err := h.runner.Submit(ctx, t); err != nil {
		h.logger.Error("failed to submit stats refresh task",
			slog.String("error", err.Error()),
			slog.String("task_id", t.ID().String()),
			slog.String("deck_id", payload.DeckID.String()))
		return fmt.Errorf("failed to submit stats refresh task: %w", err)
	}

	h.logger.Debug("stats refresh task submitted",
		slog.String("task_id", t.ID().String()),
		slog.String("deck_id", payload.DeckID.String()))
	return nil
}
