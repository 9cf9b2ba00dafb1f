package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/phrazzld/cirf-api/internal/config"
	"github.com/phrazzld/cirf-api/internal/platform/postgres"
)

const pingTimeout = 5 * time.Second

// setupAppDatabase opens the connection pool, checks connectivity and
// applies pending migrations when auto-migration is enabled.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := prepareDatabase(ctx, db, cfg.Database, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// prepareDatabase configures the pool of db, pings it and migrates it.
func prepareDatabase(ctx context.Context, db *sql.DB, cfg config.DatabaseConfig, logger *slog.Logger) error {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	logger.Info("database connection established",
		slog.Int("max_open_conns", cfg.MaxOpenConns),
		slog.Int("max_idle_conns", cfg.MaxIdleConns))

	if !cfg.AutoMigrate {
		logger.Info("automatic migrations disabled")
		return nil
	}
	if err := postgres.Migrate(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}
