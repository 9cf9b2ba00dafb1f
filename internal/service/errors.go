package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/cirf-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrAssessmentNotFound indicates that the assessment does not exist.
	// API layer should map this to HTTP 404 Not Found.
	ErrAssessmentNotFound = errors.New("assessment not found")

	// ErrAssessmentLocked indicates that the prerequisite assessment has not been completed.
	// API layer should map this to HTTP 403 Forbidden.
	ErrAssessmentLocked = errors.New("assessment type is locked")

	// ErrIncompleteSubmission indicates that too few questions were answered to submit.
	// API layer should map this to HTTP 422 Unprocessable Entity.
	ErrIncompleteSubmission = errors.New("submission is incomplete")
)

// AssessmentServiceError wraps unexpected errors from the assessment service with context.
type AssessmentServiceError struct {
	// Operation is the operation that failed (e.g., "submit", "save_draft")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for AssessmentServiceError.
func (e *AssessmentServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("assessment service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("assessment service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *AssessmentServiceError) Unwrap() error {
	return e.Err
}

// NewAssessmentServiceError creates a new AssessmentServiceError.
// Known sentinel errors are returned without wrapping.
func NewAssessmentServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	for _, sentinel := range []error{
		ErrNotOwned, ErrAssessmentNotFound, ErrAssessmentLocked, ErrIncompleteSubmission,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	if errors.Is(err, store.ErrAssessmentNotFound) {
		return ErrAssessmentNotFound
	}

	return &AssessmentServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
