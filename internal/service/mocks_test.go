package service

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/store"
)

// mockAssessmentRepository is a function-field mock of AssessmentRepository.
// Unset functions behave like an empty store.
type mockAssessmentRepository struct {
	CreateFn       func(ctx context.Context, a *domain.Assessment) error
	UpdateFn       func(ctx context.Context, a *domain.Assessment) error
	GetByIDFn      func(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)
	ListByUserFn   func(ctx context.Context, userID uuid.UUID, filter store.AssessmentFilter) ([]*domain.Assessment, error)
	FindDraftFn    func(ctx context.Context, userID uuid.UUID, assessmentType string) (*domain.Assessment, error)
	HasCompletedFn func(ctx context.Context, userID uuid.UUID, assessmentType string) (bool, error)

	db *sql.DB

	mu      sync.Mutex
	created []*domain.Assessment
	updated []*domain.Assessment
	txs     int
}

func (m *mockAssessmentRepository) Create(ctx context.Context, a *domain.Assessment) error {
	m.mu.Lock()
	m.created = append(m.created, a)
	m.mu.Unlock()
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *mockAssessmentRepository) Update(ctx context.Context, a *domain.Assessment) error {
	m.mu.Lock()
	m.updated = append(m.updated, a)
	m.mu.Unlock()
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, a)
	}
	return nil
}

func (m *mockAssessmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, store.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.AssessmentFilter,
) ([]*domain.Assessment, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, filter)
	}
	return nil, nil
}

func (m *mockAssessmentRepository) FindDraft(
	ctx context.Context,
	userID uuid.UUID,
	assessmentType string,
) (*domain.Assessment, error) {
	if m.FindDraftFn != nil {
		return m.FindDraftFn(ctx, userID, assessmentType)
	}
	return nil, store.ErrAssessmentNotFound
}

func (m *mockAssessmentRepository) HasCompleted(
	ctx context.Context,
	userID uuid.UUID,
	assessmentType string,
) (bool, error) {
	if m.HasCompletedFn != nil {
		return m.HasCompletedFn(ctx, userID, assessmentType)
	}
	return false, nil
}

func (m *mockAssessmentRepository) WithTx(*sql.Tx) AssessmentRepository {
	m.mu.Lock()
	m.txs++
	m.mu.Unlock()
	return m
}

func (m *mockAssessmentRepository) DB() *sql.DB {
	return m.db
}

type rejection struct {
	assessmentType string
	reason         string
}

type scoringObservation struct {
	assessmentType string
	mode           string
}

// mockObserver records what the service reports.
type mockObserver struct {
	mu         sync.Mutex
	scored     []scoringObservation
	rejections []rejection
}

func (m *mockObserver) ObserveScoring(assessmentType, mode string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scored = append(m.scored, scoringObservation{assessmentType: assessmentType, mode: mode})
}

func (m *mockObserver) RecordRejection(assessmentType, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejections = append(m.rejections, rejection{assessmentType: assessmentType, reason: reason})
}
