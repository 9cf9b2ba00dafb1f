package shared

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/cirf-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		status       int
		data         interface{}
		expectedBody string
	}{
		{name: "object", status: http.StatusOK, data: map[string]int{"score": 72}, expectedBody: `{"score":72}`},
		{name: "empty object", status: http.StatusCreated, data: map[string]interface{}{}, expectedBody: `{}`},
		{name: "nil", status: http.StatusOK, data: nil, expectedBody: `null`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tc.expectedBody+"\n", w.Body.String())
		})
	}
}

func TestRespondWithJSONEncodingError(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	w := httptest.NewRecorder()

	RespondWithJSON(w, req, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, buf.String(), "failed to encode JSON response")
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		ctx     context.Context
		traceID string
	}{
		{name: "with trace id", ctx: context.WithValue(context.Background(), TraceIDKey, "test-trace-id"), traceID: "test-trace-id"},
		{name: "without trace id", ctx: context.Background()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/test", nil).WithContext(tc.ctx)
			w := httptest.NewRecorder()

			RespondWithError(w, req, http.StatusBadRequest, "Invalid request")

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, "Invalid request", response.Error)
			assert.Equal(t, tc.traceID, response.TraceID)
		})
	}
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name          string
		status        int
		message       string
		err           error
		elevate       bool
		expectedLevel string
	}{
		{
			name:          "server error",
			status:        http.StatusInternalServerError,
			message:       "An unexpected error occurred",
			err:           errors.New("database connection failed"),
			expectedLevel: "ERROR",
		},
		{
			name:          "client error",
			status:        http.StatusBadRequest,
			message:       "Invalid answers",
			err:           errors.New("invalid input"),
			expectedLevel: "DEBUG",
		},
		{
			name:          "elevated client error",
			status:        http.StatusForbidden,
			message:       "Assessment type is locked",
			err:           errors.New("locked"),
			elevate:       true,
			expectedLevel: "WARN",
		},
		{
			name:          "rate limited",
			status:        http.StatusTooManyRequests,
			message:       "Too many requests",
			err:           errors.New("rate limit exceeded"),
			expectedLevel: "WARN",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			log, buf := logger.NewTestLogger(t)
			ctx := context.WithValue(context.Background(), TraceIDKey, "test-trace-id")
			req := httptest.NewRequest(http.MethodPost, "/test", nil).WithContext(logger.WithLogger(ctx, log))
			w := httptest.NewRecorder()

			var opts []ResponseOption
			if tc.elevate {
				opts = append(opts, WithElevatedLogLevel())
			}
			RespondWithErrorAndLog(w, req, tc.status, tc.message, tc.err, opts...)

			assert.Equal(t, tc.status, w.Code)
			var response ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.Equal(t, tc.message, response.Error)
			assert.Equal(t, "test-trace-id", response.TraceID)
			assert.NotContains(t, w.Body.String(), tc.err.Error())

			entries, err := buf.GetLogEntries()
			require.NoError(t, err)
			require.NotEmpty(t, entries)
			entry := entries[0]
			assert.Equal(t, tc.expectedLevel, entry["level"])
			assert.Equal(t, "test-trace-id", entry["trace_id"])
			assert.Equal(t, "*errors.errorString", entry["error_type"])
		})
	}
}

func TestRespondWithErrorAndLogRedactsSecrets(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.WithLogger(req.Context(), log))
	w := httptest.NewRecorder()

	err := errors.New("connect failed: postgres://cirf:hunter2@db:5432/cirf")
	RespondWithErrorAndLog(w, req, http.StatusInternalServerError, "An unexpected error occurred", err)

	assert.NotContains(t, buf.String(), "hunter2")
	assert.NotContains(t, w.Body.String(), "postgres://")
}
