//go:build integration

// Package testdb provides a migrated PostgreSQL database for integration
// tests. Tests are skipped when no database URL is configured.
package testdb

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/cirf-api/internal/platform/postgres"
	"github.com/phrazzld/cirf-api/internal/redact"
	"github.com/stretchr/testify/require"
)

// Environment variables checked for the test database URL, in order.
const (
	EnvTestDatabaseURL = "CIRF_TEST_DB_URL"
	EnvDatabaseURL     = "DATABASE_URL"
)

// Timeout bounds connection checks and migrations.
const Timeout = 30 * time.Second

var (
	migrateOnce sync.Once
	migrateErr  error
)

// URL returns the configured test database URL, or "" when none is set.
func URL() string {
	for _, key := range []string{EnvTestDatabaseURL, EnvDatabaseURL} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}

// Open connects to the test database and applies all migrations once per
// process. The connection is closed when the test finishes.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := URL()
	if dbURL == "" {
		t.Skipf("%s not set; skipping database test", EnvTestDatabaseURL)
	}

	db, err := sql.Open("pgx", dbURL)
	require.NoError(t, err, "failed to open test database")
	t.Cleanup(func() { _ = db.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		t.Fatalf("test database unreachable: %s", redact.Error(err))
	}

	migrateOnce.Do(func() {
		migrateErr = postgres.Migrate(ctx, db, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})
	require.NoError(t, migrateErr, "failed to migrate test database")
	return db
}

// WithTx runs fn inside a transaction that is always rolled back, so tests
// leave no rows behind and can run in parallel.
func WithTx(t *testing.T, db *sql.DB, fn func(t *testing.T, tx *sql.Tx)) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), Timeout)
	defer cancel()

	tx, err := db.BeginTx(ctx, nil)
	require.NoError(t, err, "failed to begin test transaction")
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.Logf("failed to roll back test transaction: %v", err)
		}
	}()

	fn(t, tx)
}
