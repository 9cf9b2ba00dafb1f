package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/cirf-api/internal/api"
	"github.com/phrazzld/cirf-api/internal/api/middleware"
	"github.com/phrazzld/cirf-api/internal/api/shared"
)

const (
	healthCheckTimeout = 2 * time.Second

	previewRoute    = "/api/assessments/types/{type}/preview"
	submissionRoute = "/api/assessments/types/{type}/submissions"
)

// healthResponse is the body of GET /health.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.TraceMiddleware(app.logger))
	r.Use(chimw.Recoverer)
	if app.metrics != nil {
		r.Use(middleware.Metrics(app.metrics))
	}
	if app.config.Server.RequestTimeout > 0 {
		r.Use(chimw.Timeout(app.config.Server.RequestTimeout))
	}

	assessmentHandler := api.NewAssessmentHandler(app.assessmentService, app.logger)
	authMiddleware := middleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api/assessments", func(r chi.Router) {
		// Public catalogue and scoring
		r.Get("/types", assessmentHandler.ListTypes)
		r.Get("/types/{type}", assessmentHandler.GetType)
		r.With(app.rateLimiter.Limit(previewRoute)).Post("/types/{type}/preview", assessmentHandler.Preview)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/", assessmentHandler.ListAssessments)
			r.Get("/availability", assessmentHandler.Availability)
			r.Get("/{id}", assessmentHandler.GetAssessment)
			r.Put("/types/{type}/draft", assessmentHandler.SaveDraft)
			r.With(app.rateLimiter.Limit(submissionRoute)).
				Post("/types/{type}/submissions", assessmentHandler.Submit)
		})
	})

	r.Get("/health", app.handleHealth)
	if app.metrics != nil {
		r.Method(http.MethodGet, app.config.Metrics.Path, app.metrics.Handler())
	}

	return r
}

// handleHealth reports liveness and database reachability.
func (app *application) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Database: "ok"})
}
