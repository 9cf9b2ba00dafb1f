package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/service"
	"github.com/phrazzld/cirf-api/internal/service/auth"
	"github.com/phrazzld/cirf-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{name: "nil error", err: nil, expectedStatus: http.StatusInternalServerError},
		{name: "invalid token", err: auth.ErrInvalidToken, expectedStatus: http.StatusUnauthorized},
		{
			name:           "wrapped expired token",
			err:            fmt.Errorf("authenticate: %w", auth.ErrExpiredToken),
			expectedStatus: http.StatusUnauthorized,
		},
		{name: "unauthorized", err: domain.ErrUnauthorized, expectedStatus: http.StatusUnauthorized},
		{name: "not owned", err: service.ErrNotOwned, expectedStatus: http.StatusForbidden},
		{
			name:           "locked",
			err:            fmt.Errorf("%w: complete cirf first", service.ErrAssessmentLocked),
			expectedStatus: http.StatusForbidden,
		},
		{name: "service not found", err: service.ErrAssessmentNotFound, expectedStatus: http.StatusNotFound},
		{name: "store not found", err: store.ErrAssessmentNotFound, expectedStatus: http.StatusNotFound},
		{name: "unknown type", err: scoring.ErrUnknownAssessmentType, expectedStatus: http.StatusBadRequest},
		{name: "draft exists", err: store.ErrDraftExists, expectedStatus: http.StatusConflict},
		{name: "already completed", err: domain.ErrAssessmentCompleted, expectedStatus: http.StatusConflict},
		{
			name:           "incomplete",
			err:            fmt.Errorf("%w: 1 of 4 questions answered", service.ErrIncompleteSubmission),
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{name: "validation", err: domain.ErrValidation, expectedStatus: http.StatusBadRequest},
		{name: "invalid id", err: domain.ErrInvalidID, expectedStatus: http.StatusBadRequest},
		{name: "invalid entity", err: store.ErrInvalidEntity, expectedStatus: http.StatusBadRequest},
		{
			name: "service error wrapping store failure",
			err: &service.AssessmentServiceError{
				Operation: "submit", Message: "failed", Err: errors.New("connection reset"),
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil", err: nil, expected: "An unexpected error occurred"},
		{name: "expired token", err: auth.ErrExpiredToken, expected: "Token expired"},
		{name: "invalid subject", err: auth.ErrInvalidSubject, expected: "Invalid token"},
		{name: "not owned", err: service.ErrNotOwned, expected: "You do not own this assessment"},
		{
			name:     "locked names prerequisite",
			err:      fmt.Errorf("%w: complete cirf first", service.ErrAssessmentLocked),
			expected: "Assessment type is locked: complete cirf first",
		},
		{
			name:     "incomplete carries counts",
			err:      fmt.Errorf("%w: 1 of 4 questions answered", service.ErrIncompleteSubmission),
			expected: "Submission is incomplete: 1 of 4 questions answered",
		},
		{name: "not found", err: store.ErrAssessmentNotFound, expected: "Assessment not found"},
		{name: "unknown type", err: scoring.ErrUnknownAssessmentType, expected: "Unknown assessment type"},
		{
			name:     "internal details hidden",
			err:      errors.New("pq: relation assessments does not exist at postgres://u:p@db/cirf"),
			expected: "An unexpected error occurred",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, GetSafeErrorMessage(tc.err))
		})
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name           string
		err            error
		message        string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "mapped message",
			err:            service.ErrAssessmentNotFound,
			expectedStatus: http.StatusNotFound,
			expectedBody:   "Assessment not found",
		},
		{
			name:           "override message",
			err:            errors.New("db down"),
			message:        "Failed to load",
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   "Failed to load",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tc.err, tc.message)

			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.expectedBody)
			assert.NotContains(t, rec.Body.String(), "db down")
		})
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "required",
			err:      errors.New("Key: 'AnswersRequest.Answers' Error:Field validation for 'Answers' failed on the 'required' tag"),
			expected: "Invalid Answers: required field",
		},
		{
			name:     "max",
			err:      errors.New("Key: 'AnswersRequest.Answers' Error:Field validation for 'Answers' failed on the 'max' tag"),
			expected: "Invalid Answers: too long",
		},
		{
			name:     "oneof",
			err:      errors.New("Key: 'ListAssessmentsQuery.Status' Error:Field validation for 'Status' failed on the 'oneof' tag"),
			expected: "Invalid Status: invalid value",
		},
		{name: "other", err: errors.New("boom"), expected: "Validation error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, SanitizeValidationError(tc.err))
		})
	}
}
