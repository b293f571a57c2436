package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/revisamed/revisamed-api/internal/api"
	apimiddleware "github.com/revisamed/revisamed-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		app.tokenLifetime(),
		app.logger,
	)
	cardHandler := api.NewCardHandler(app.reviewService, app.logger)
	deckHandler := api.NewDeckHandler(app.deckService, app.statsAggregator, app.logger)
	authMiddleware := apimiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/cards/next", cardHandler.GetNextReviewCard)
			r.Post("/cards/{id}/review", cardHandler.ReviewCard)
			r.Get("/cards/{id}/reviews", cardHandler.GetCardReviews)
			r.Post("/cards/{id}/suspend", cardHandler.SuspendCard)
			r.Post("/cards/{id}/resume", cardHandler.ResumeCard)

			r.Get("/decks", deckHandler.ListDecks)
			r.Get("/decks/{id}/stats", deckHandler.GetDeckStats)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
