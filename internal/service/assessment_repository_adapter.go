package service

import (
	"database/sql"

	"github.com/phrazzld/cirf-api/internal/store"
)

// AssessmentRepositoryAdapter adapts a store.AssessmentStore to the AssessmentRepository
// interface used by the service layer.
type AssessmentRepositoryAdapter struct {
	store.AssessmentStore
	db *sql.DB
}

// NewAssessmentRepositoryAdapter creates a new adapter for the assessment store.
func NewAssessmentRepositoryAdapter(s store.AssessmentStore, db *sql.DB) AssessmentRepository {
	return &AssessmentRepositoryAdapter{
		AssessmentStore: s,
		db:              db,
	}
}

// WithTx implements AssessmentRepository.
func (a *AssessmentRepositoryAdapter) WithTx(tx *sql.Tx) AssessmentRepository {
	return &AssessmentRepositoryAdapter{
		AssessmentStore: a.AssessmentStore.WithTx(tx),
		db:              a.db,
	}
}

// DB implements AssessmentRepository.
func (a *AssessmentRepositoryAdapter) DB() *sql.DB {
	return a.db
}
