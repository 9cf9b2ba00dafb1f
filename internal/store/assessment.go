package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/domain"
)

// Listing bounds applied when the caller passes none or too many.
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// AssessmentFilter narrows ListByUser results. An empty Type matches every
// assessment type; an empty Status matches drafts and completed assessments.
type AssessmentFilter struct {
	Type   string
	Status domain.AssessmentStatus
	Limit  int
	Offset int
}

// EffectiveLimit returns Limit clamped to (0, MaxListLimit], with
// DefaultListLimit standing in for an unset limit.
func (f AssessmentFilter) EffectiveLimit() int {
	switch {
	case f.Limit <= 0:
		return DefaultListLimit
	case f.Limit > MaxListLimit:
		return MaxListLimit
	default:
		return f.Limit
	}
}

// AssessmentStore defines the interface for assessment persistence.
type AssessmentStore interface {
	// Create saves a new assessment.
	// Returns ErrDraftExists if the user already holds a draft of the same type.
	Create(ctx context.Context, assessment *domain.Assessment) error

	// Update saves answers, status and result of an existing assessment.
	// Returns ErrAssessmentNotFound if the assessment does not exist.
	Update(ctx context.Context, assessment *domain.Assessment) error

	// GetByID retrieves an assessment by its unique ID.
	// Returns ErrAssessmentNotFound if the assessment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)

	// ListByUser returns the user's assessments, most recently updated first.
	// Returns an empty slice if nothing matches.
	ListByUser(ctx context.Context, userID uuid.UUID, filter AssessmentFilter) ([]*domain.Assessment, error)

	// FindDraft returns the user's open draft of the given type.
	// Returns ErrAssessmentNotFound if there is none.
	FindDraft(ctx context.Context, userID uuid.UUID, assessmentType string) (*domain.Assessment, error)

	// HasCompleted reports whether the user has completed the given type at least once.
	HasCompleted(ctx context.Context, userID uuid.UUID, assessmentType string) (bool, error)

	// WithTx returns a new AssessmentStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller (typically a service).
	WithTx(tx *sql.Tx) AssessmentStore
}
