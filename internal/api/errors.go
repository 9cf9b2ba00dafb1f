package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/cirf-api/internal/api/shared"
	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/service"
	"github.com/phrazzld/cirf-api/internal/service/auth"
	"github.com/phrazzld/cirf-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidSubject),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned),
		errors.Is(err, service.ErrAssessmentLocked):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, store.ErrAssessmentNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate),
		errors.Is(err, domain.ErrAssessmentCompleted):
		return http.StatusConflict

	// Semantically invalid submissions
	case errors.Is(err, service.ErrIncompleteSubmission):
		return http.StatusUnprocessableEntity

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, scoring.ErrInvalidAnswerValue),
		errors.Is(err, scoring.ErrUnknownAssessmentType):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidSubject):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	// Authorization errors
	case errors.Is(err, service.ErrNotOwned):
		return "You do not own this assessment"

	case errors.Is(err, service.ErrAssessmentLocked):
		// The wrapped message names the prerequisite type, which is public catalogue data.
		return capitalize(err.Error())

	// Not found errors
	case errors.Is(err, service.ErrAssessmentNotFound),
		errors.Is(err, store.ErrAssessmentNotFound):
		return "Assessment not found"

	case errors.Is(err, scoring.ErrUnknownAssessmentType):
		return "Unknown assessment type"

	// Conflict errors
	case errors.Is(err, domain.ErrAssessmentCompleted):
		return "Assessment already submitted"

	case errors.Is(err, store.ErrDuplicate):
		return "Assessment draft already exists"

	case errors.Is(err, service.ErrIncompleteSubmission):
		return capitalize(err.Error())

	// Bad request errors
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity):
		return "Invalid assessment data"

	case errors.Is(err, scoring.ErrInvalidAnswerValue):
		return "Invalid answer"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// message replaces the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'AnswersRequest.Answers' Error:Field validation for 'Answers' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "gte", "lte":
		return "out of range"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
