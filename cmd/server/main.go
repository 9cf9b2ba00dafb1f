// Package main implements the entry point for the CIRF API server, which
// serves the assessment catalogue, scores answer sets and stores completed
// assessments.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("cirf-api: %v", err)
	}
}

// run loads configuration, connects to the database, wires the application
// and serves HTTP until ctx is canceled.
func run(ctx context.Context) error {
	cfg, err := loadAppConfig(os.Getenv(configFileEnv))
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}
	logger.Info("server configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("metrics_enabled", cfg.Metrics.Enabled))

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
