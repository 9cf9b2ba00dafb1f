package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/platform/logger"
	"github.com/phrazzld/cirf-api/internal/store"
)

const assessmentColumns = `id, user_id, assessment_type, status, answers, result,
		overall_score, level, created_at, updated_at, completed_at`

// PostgresAssessmentStore implements store.AssessmentStore on PostgreSQL.
// Answers and results are stored as JSONB documents.
type PostgresAssessmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAssessmentStore creates a store over a connection or transaction
// managed by the caller. If logger is nil, a default logger will be used.
func NewPostgresAssessmentStore(db store.DBTX, logger *slog.Logger) *PostgresAssessmentStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAssessmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "assessment_store")),
	}
}

var _ store.AssessmentStore = (*PostgresAssessmentStore)(nil)

// WithTx implements store.AssessmentStore.
func (s *PostgresAssessmentStore) WithTx(tx *sql.Tx) store.AssessmentStore {
	return &PostgresAssessmentStore{db: tx, logger: s.logger}
}

// Create implements store.AssessmentStore.
func (s *PostgresAssessmentStore) Create(ctx context.Context, a *domain.Assessment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := a.Validate(); err != nil {
		log.Warn("assessment validation failed during create",
			slog.Any("error", err),
			slog.String("assessment_id", a.ID.String()))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	answers, result, err := encodeDocuments(a)
	if err != nil {
		return store.NewStoreError("assessment", "create", "failed to encode documents", err)
	}

	query := `
		INSERT INTO assessments (` + assessmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = s.db.ExecContext(ctx, query,
		a.ID, a.UserID, a.Type, string(a.Status), answers, result,
		a.OverallScore, a.Level, a.CreatedAt, a.UpdatedAt, a.CompletedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("draft already exists",
				slog.String("user_id", a.UserID.String()),
				slog.String("assessment_type", a.Type))
			return store.ErrDraftExists
		}
		log.Error("failed to create assessment",
			slog.Any("error", err),
			slog.String("assessment_id", a.ID.String()))
		return store.NewStoreError("assessment", "create", "insert failed", MapError(err))
	}

	log.Debug("assessment created",
		slog.String("assessment_id", a.ID.String()),
		slog.String("status", string(a.Status)))
	return nil
}

// Update implements store.AssessmentStore.
func (s *PostgresAssessmentStore) Update(ctx context.Context, a *domain.Assessment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := a.Validate(); err != nil {
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	answers, result, err := encodeDocuments(a)
	if err != nil {
		return store.NewStoreError("assessment", "update", "failed to encode documents", err)
	}

	query := `
		UPDATE assessments
		SET status = $2, answers = $3, result = $4, overall_score = $5,
		    level = $6, updated_at = $7, completed_at = $8
		WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		a.ID, string(a.Status), answers, result,
		a.OverallScore, a.Level, a.UpdatedAt, a.CompletedAt,
	)
	if err != nil {
		log.Error("failed to update assessment",
			slog.Any("error", err),
			slog.String("assessment_id", a.ID.String()))
		return store.NewStoreError("assessment", "update", "update failed", MapError(err))
	}

	if err := CheckRowsAffected(res, store.ErrAssessmentNotFound); err != nil {
		return err
	}

	log.Debug("assessment updated",
		slog.String("assessment_id", a.ID.String()),
		slog.String("status", string(a.Status)))
	return nil
}

// GetByID implements store.AssessmentStore.
func (s *PostgresAssessmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Assessment, error) {
	query := `SELECT ` + assessmentColumns + ` FROM assessments WHERE id = $1`
	return s.getOne(ctx, "get", query, id)
}

// FindDraft implements store.AssessmentStore.
func (s *PostgresAssessmentStore) FindDraft(
	ctx context.Context,
	userID uuid.UUID,
	assessmentType string,
) (*domain.Assessment, error) {
	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE user_id = $1 AND assessment_type = $2 AND status = 'draft'
	`
	return s.getOne(ctx, "find_draft", query, userID, assessmentType)
}

// ListByUser implements store.AssessmentStore.
func (s *PostgresAssessmentStore) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	filter store.AssessmentFilter,
) ([]*domain.Assessment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit := filter.EffectiveLimit()
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + assessmentColumns + `
		FROM assessments
		WHERE user_id = $1
		  AND ($2 = '' OR assessment_type = $2)
		  AND ($3 = '' OR status = $3)
		ORDER BY updated_at DESC, id
		LIMIT $4 OFFSET $5
	`
	rows, err := s.db.QueryContext(ctx, query, userID, filter.Type, string(filter.Status), limit, offset)
	if err != nil {
		log.Error("failed to list assessments",
			slog.Any("error", err),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("assessment", "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	out := make([]*domain.Assessment, 0)
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, store.NewStoreError("assessment", "list", "scan failed", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("assessment", "list", "row iteration failed", err)
	}
	return out, nil
}

// HasCompleted implements store.AssessmentStore.
func (s *PostgresAssessmentStore) HasCompleted(
	ctx context.Context,
	userID uuid.UUID,
	assessmentType string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM assessments
			WHERE user_id = $1 AND assessment_type = $2 AND status = 'completed'
		)
	`
	var exists bool
	if err := s.db.QueryRowContext(ctx, query, userID, assessmentType).Scan(&exists); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to check completion",
			slog.Any("error", err),
			slog.String("user_id", userID.String()),
			slog.String("assessment_type", assessmentType))
		return false, store.NewStoreError("assessment", "has_completed", "query failed", MapError(err))
	}
	return exists, nil
}

func (s *PostgresAssessmentStore) getOne(
	ctx context.Context,
	operation, query string,
	args ...any,
) (*domain.Assessment, error) {
	a, err := scanAssessment(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAssessmentNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load assessment",
			slog.Any("error", err),
			slog.String("operation", operation))
		return nil, store.NewStoreError("assessment", operation, "query failed", MapError(err))
	}
	return a, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (*domain.Assessment, error) {
	var (
		a           domain.Assessment
		status      string
		answers     []byte
		result      []byte
		completedAt sql.NullTime
	)

	err := row.Scan(
		&a.ID, &a.UserID, &a.Type, &status, &answers, &result,
		&a.OverallScore, &a.Level, &a.CreatedAt, &a.UpdatedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Status = domain.AssessmentStatus(status)
	a.Answers = scoring.AnswerSet{}
	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers: %w", err)
		}
	}
	if len(result) > 0 {
		a.Result = &scoring.Result{}
		if err := json.Unmarshal(result, a.Result); err != nil {
			return nil, fmt.Errorf("failed to decode result: %w", err)
		}
	}
	if completedAt.Valid {
		ts := completedAt.Time.UTC()
		a.CompletedAt = &ts
	}
	return &a, nil
}

// encodeDocuments returns the JSONB parameters of a; result is nil for drafts.
func encodeDocuments(a *domain.Assessment) (answers []byte, result any, err error) {
	set := a.Answers
	if set == nil {
		set = scoring.AnswerSet{}
	}
	answers, err = json.Marshal(set)
	if err != nil {
		return nil, nil, fmt.Errorf("answers: %w", err)
	}
	if a.Result == nil {
		return answers, nil, nil
	}
	doc, err := json.Marshal(a.Result)
	if err != nil {
		return nil, nil, fmt.Errorf("result: %w", err)
	}
	return answers, doc, nil
}
