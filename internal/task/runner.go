package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// RunnerConfig holds configuration for the task runner
type RunnerConfig struct {
	// WorkerCount determines how many concurrent workers process tasks
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory task queue
	QueueSize int

	// MaxRetries is how many times a failed task is re-executed before
	// being dropped
	MaxRetries int
}

// DefaultRunnerConfig returns a RunnerConfig with reasonable defaults
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		WorkerCount: 2,
		QueueSize:   100,
		MaxRetries:  3,
	}
}

// Runner manages background task processing with a fixed worker pool.
// Tasks live only in memory; anything queued at shutdown is dropped, which
// is acceptable because every task here can be recomputed on demand.
type Runner struct {
	taskChan   chan Task
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     RunnerConfig
	logger     *slog.Logger

	mu      sync.Mutex
	started bool
	closed  bool
}

// NewRunner creates a new Runner.
func NewRunner(config RunnerConfig, logger *slog.Logger) *Runner {
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultRunnerConfig().WorkerCount
	}
	if config.QueueSize <= 0 {
		config.QueueSize = DefaultRunnerConfig().QueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Runner{
		taskChan:   make(chan Task, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		config:     config,
		logger:     logger.With(slog.String("component", "task_runner")),
	}
}

// Submit adds a new task to the queue.
// Returns an error if the queue is full or the runner has been stopped.
func (r *Runner) Submit(ctx context.Context, t Task) error {
	r.mu.Lock()
	closed := r.closed
	r.mu.Unlock()
	if closed {
		return fmt.Errorf("task runner is stopped")
	}

	select {
	case r.taskChan <- t:
		return nil
	default:
		return fmt.Errorf("task queue is full, try again later")
	}
}

// Start initializes the worker pool and begins processing tasks.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.started {
		return fmt.Errorf("task runner already started")
	}
	r.started = true

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.logger.Info("task runner started",
		slog.Int("worker_count", r.config.WorkerCount),
		slog.Int("queue_size", r.config.QueueSize))

	return nil
}

// Stop gracefully shuts down the task runner. Running tasks finish;
// queued tasks are dropped.
func (r *Runner) Stop() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.cancelFunc()
	r.wg.Wait()
}

// worker processes tasks from the queue
func (r *Runner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", slog.Int("worker_id", id))

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", slog.Int("worker_id", id))
			return

		case t := <-r.taskChan:
			r.processTask(t, id)
		}
	}
}

// processTask executes a single task, retrying on failure up to MaxRetries.
// Failures never propagate beyond this function; they are logged and the
// task is dropped after the retry budget is spent.
func (r *Runner) processTask(t Task, workerID int) {
	log := r.logger.With(
		slog.String("task_id", t.ID().String()),
		slog.String("task_type", t.Type()),
		slog.Int("worker_id", workerID),
	)

	log.Debug("processing task")

	var err error
	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if r.ctx.Err() != nil {
			log.Debug("runner stopping, abandoning task")
			return
		}

		err = t.Execute(r.ctx)
		if err == nil {
			log.Debug("task completed", slog.Int("attempts", attempt+1))
			return
		}

		log.Warn("task execution failed",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}

	log.Error("task dropped after exhausting retries",
		slog.Int("max_retries", r.config.MaxRetries),
		slog.String("error", err.Error()))
}
