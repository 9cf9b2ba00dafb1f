package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/cirf-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrepareDatabase(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		pingErr error
		wantErr string
	}{
		{name: "reachable without migrations"},
		{name: "ping failure", pingErr: errors.New("dial tcp: connection refused"), wantErr: "failed to ping database"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			ping := mock.ExpectPing()
			if tc.pingErr != nil {
				ping.WillReturnError(tc.pingErr)
			}

			cfg := config.DatabaseConfig{MaxOpenConns: 4, MaxIdleConns: 2, ConnMaxLifetime: time.Minute}
			err = prepareDatabase(context.Background(), db, cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))

			if tc.wantErr != "" {
				assert.ErrorContains(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, 4, db.Stats().MaxOpenConnections)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
