package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/revisamed/revisamed-api/internal/config"
	"github.com/revisamed/revisamed-api/internal/domain/srs"
	"github.com/revisamed/revisamed-api/internal/events"
	"github.com/revisamed/revisamed-api/internal/platform/postgres"
	"github.com/revisamed/revisamed-api/internal/service"
	"github.com/revisamed/revisamed-api/internal/service/auth"
	"github.com/revisamed/revisamed-api/internal/service/review"
	"github.com/revisamed/revisamed-api/internal/service/stats"
	"github.com/revisamed/revisamed-api/internal/store"
	"github.com/revisamed/revisamed-api/internal/task"
)

// application holds the shared application dependencies so wiring and
// shutdown live in one place.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores
	userStore        store.UserStore
	deckStore        store.DeckStore
	cardStore        store.CardStore
	reviewEventStore store.ReviewEventStore
	deckStatsStore   store.DeckStatsStore

	// Services
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	srsService       srs.Service
	userService      service.UserService
	deckService      service.DeckService
	reviewService    review.ReviewService
	statsAggregator  stats.Aggregator

	// Event system and background work
	eventEmitter *events.InMemoryEventEmitter
	taskRunner   *task.Runner
}

// newApplication wires all dependencies. The caller owns the database
// handle until this returns successfully; afterwards cleanup closes it.
func newApplication(cfg *config.Config, log *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: log,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	log.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier(cfg.Auth.BcryptCost)

	app.userStore = postgres.NewPostgresUserStore(db, cfg.Auth.BcryptCost)
	app.deckStore = postgres.NewPostgresDeckStore(db)
	app.cardStore = postgres.NewPostgresCardStore(db)
	app.reviewEventStore = postgres.NewPostgresReviewEventStore(db)
	app.deckStatsStore = postgres.NewPostgresDeckStatsStore(db)

	app.srsService = srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		MaxIntervalDays: cfg.SRS.MaxIntervalDays,
		LeechThreshold:  cfg.SRS.LeechThreshold,
	}))

	app.eventEmitter = events.NewInMemoryEventEmitter(log)

	app.taskRunner = task.NewRunner(task.RunnerConfig{
		WorkerCount: cfg.Task.WorkerCount,
		QueueSize:   cfg.Task.QueueSize,
		MaxRetries:  cfg.Task.MaxRetries,
	}, log)
	if err := app.taskRunner.Start(); err != nil {
		return nil, fmt.Errorf("failed to start task runner: %w", err)
	}

	app.userService = service.NewUserService(app.userStore, db, log)
	app.deckService = service.NewDeckService(app.deckStore, log)
	app.reviewService = review.NewReviewService(
		db,
		app.cardStore,
		app.deckStore,
		app.reviewEventStore,
		app.srsService,
		app.eventEmitter,
		log,
	)
	app.statsAggregator = stats.NewAggregator(
		app.deckStore,
		app.cardStore,
		app.reviewEventStore,
		app.deckStatsStore,
		log,
	)

	// Reviews emit refresh-request events; this handler turns them into
	// background recomputation tasks.
	app.eventEmitter.RegisterHandler(
		task.NewStatsRefreshEventHandler(app.statsAggregator, app.taskRunner, log),
	)

	log.Info("application initialized")
	return app, nil
}

// Run starts the HTTP server and blocks until shutdown.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// tokenLifetime returns the configured access token lifetime.
func (app *application) tokenLifetime() time.Duration {
	return time.Duration(app.config.Auth.TokenLifetimeMinutes) * time.Minute
}

// cleanup releases application resources in shutdown order: stop taking
// background work first, then close the database.
func (app *application) cleanup() {
	if app.taskRunner != nil {
		app.taskRunner.Stop()
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}

	app.logger.Info("application shutdown completed")
}
