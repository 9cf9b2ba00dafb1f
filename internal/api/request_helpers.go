package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/api/shared"
	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/platform/logger"
	"github.com/phrazzld/cirf-api/internal/redact"
	"github.com/phrazzld/cirf-api/internal/store"
)

// getUserIDFromContext extracts the authenticated user's UUID from the request context.
// The user ID is expected to be placed in the context by the authentication middleware.
func getUserIDFromContext(r *http.Request) (uuid.UUID, bool) {
	return shared.UserIDFromContext(r.Context())
}

// getPathUUID extracts and parses a UUID path parameter.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, fmt.Errorf("%w: %s is required", domain.ErrValidation, paramName)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s has invalid format", domain.ErrInvalidID, paramName)
	}
	return id, nil
}

// handleUserIDAndPathUUID extracts both the user ID from context and a UUID
// from the path parameters. It writes an error response and returns false if
// either extraction fails.
func handleUserIDAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (uuid.UUID, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Warn("invalid "+paramName,
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return uuid.Nil, uuid.Nil, false
	}

	return userID, pathID, true
}

// requireUserID writes 401 and returns false when the request is anonymous.
func requireUserID(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		log.Warn("user ID not found or invalid in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return uuid.Nil, false
	}
	return userID, true
}

// decodeAnswersRequest parses and validates an AnswersRequest body. It writes
// a 400 response and returns false on failure.
func decodeAnswersRequest(w http.ResponseWriter, r *http.Request, log *slog.Logger) (AnswersRequest, bool) {
	var req AnswersRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return req, false
	}

	if err := shared.Validate.Struct(req); err != nil {
		log.Warn("validation error", slog.String("error", redact.Error(err)))
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return req, false
	}
	return req, true
}

// parseListQuery reads the filter of GET /api/assessments from the query string.
func parseListQuery(r *http.Request) (store.AssessmentFilter, error) {
	q := r.URL.Query()
	query := ListAssessmentsQuery{
		Type:   q.Get("type"),
		Status: q.Get("status"),
	}

	for name, dst := range map[string]*int{"limit": &query.Limit, "offset": &query.Offset} {
		raw := q.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return store.AssessmentFilter{}, fmt.Errorf("%w: %s must be an integer", domain.ErrValidation, name)
		}
		*dst = v
	}

	if err := shared.Validate.Struct(query); err != nil {
		return store.AssessmentFilter{}, fmt.Errorf("%w: %s", domain.ErrValidation, SanitizeValidationError(err))
	}

	return store.AssessmentFilter{
		Type:   query.Type,
		Status: domain.AssessmentStatus(query.Status),
		Limit:  query.Limit,
		Offset: query.Offset,
	}, nil
}
