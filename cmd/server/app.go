package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cirf-api/internal/api/middleware"
	"github.com/phrazzld/cirf-api/internal/config"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/domain/scoring/catalog"
	"github.com/phrazzld/cirf-api/internal/events"
	"github.com/phrazzld/cirf-api/internal/metrics"
	"github.com/phrazzld/cirf-api/internal/platform/postgres"
	"github.com/phrazzld/cirf-api/internal/service"
	"github.com/phrazzld/cirf-api/internal/service/auth"
	"github.com/phrazzld/cirf-api/internal/store"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config

	logger *slog.Logger
	db     *sql.DB

	assessmentStore store.AssessmentStore

	scorer            scoring.Service
	jwtService        auth.JWTService
	assessmentService service.AssessmentService

	eventEmitter *events.InMemoryEventEmitter
	metrics      *metrics.Recorder
	rateLimiter  *middleware.RateLimiter
}

// newApplication wires every component on top of an established database
// connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	registry, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load assessment catalogue: %w", err)
	}
	app.scorer = scoring.NewService(registry)
	logger.Info("assessment catalogue loaded", slog.Any("types", registry.Types()))

	if cfg.Metrics.Enabled {
		app.metrics, err = metrics.New(metrics.NewRegistry())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
	}

	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	app.rateLimiter, err = middleware.NewRateLimiter(cfg.RateLimit, app.metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate limiter: %w", err)
	}

	app.eventEmitter = events.NewInMemoryEventEmitter(logger)
	app.eventEmitter.RegisterHandler(events.NewAuditLogHandler(logger))
	if app.metrics != nil {
		app.eventEmitter.RegisterHandler(events.NewCompletionMetricsHandler(app.metrics))
	}

	app.assessmentStore = postgres.NewPostgresAssessmentStore(db, logger)
	app.assessmentService, err = service.NewAssessmentService(
		service.NewAssessmentRepositoryAdapter(app.assessmentStore, db),
		app.scorer,
		app.eventEmitter,
		app.metrics,
		logger,
		service.AssessmentServiceOptions{MinCompletion: cfg.Scoring.MinCompletion},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create assessment service: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("event_handlers", app.eventEmitter.HandlerCount()),
		slog.Bool("rate_limited", app.rateLimiter != nil))
	return app, nil
}

// Run serves HTTP until ctx is canceled, then releases resources.
func (app *application) Run(ctx context.Context) error {
	defer app.cleanup()

	if err := app.startHTTPServer(ctx, app.setupRouter()); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}
	app.logger.Info("application shutdown completed")
}
