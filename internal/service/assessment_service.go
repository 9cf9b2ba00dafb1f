package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/events"
	"github.com/phrazzld/cirf-api/internal/metrics"
	"github.com/phrazzld/cirf-api/internal/platform/logger"
	"github.com/phrazzld/cirf-api/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/cirf-api/internal/service"

// DefaultMinCompletion is the submission completeness gate used when the
// configuration leaves it unset.
const DefaultMinCompletion = 0.5

// Rejection reasons recorded by the ScoringObserver.
const (
	RejectIncomplete = "incomplete"
	RejectLocked     = "locked"
)

// AssessmentRepository defines the repository interface for the service layer.
// It is aligned with store.AssessmentStore plus access to the connection used
// for transactions.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *domain.Assessment) error
	Update(ctx context.Context, assessment *domain.Assessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Assessment, error)
	ListByUser(ctx context.Context, userID uuid.UUID, filter store.AssessmentFilter) ([]*domain.Assessment, error)
	FindDraft(ctx context.Context, userID uuid.UUID, assessmentType string) (*domain.Assessment, error)
	HasCompleted(ctx context.Context, userID uuid.UUID, assessmentType string) (bool, error)

	// WithTx returns a new repository instance that uses the provided transaction
	WithTx(tx *sql.Tx) AssessmentRepository

	// DB returns the underlying database connection
	DB() *sql.DB
}

// ScoringObserver receives scoring and rejection measurements.
type ScoringObserver interface {
	ObserveScoring(assessmentType, mode string, duration time.Duration)
	RecordRejection(assessmentType, reason string)
}

// TypeAvailability describes whether a user may take an assessment type.
type TypeAvailability struct {
	Type              string `json:"type"`
	Name              string `json:"name"`
	Unlocked          bool   `json:"unlocked"`
	Completed         bool   `json:"completed"`
	UnlockRequirement string `json:"unlock_requirement,omitempty"`
}

// AssessmentService provides assessment-related operations.
type AssessmentService interface {
	// Catalogue returns every assessment configuration in catalogue order.
	Catalogue() []*scoring.QuestionConfig

	// Questionnaire returns the configuration of one assessment type.
	Questionnaire(assessmentType string) (*scoring.QuestionConfig, error)

	// Preview scores answers without storing anything.
	Preview(ctx context.Context, assessmentType string, answers scoring.AnswerSet) (*scoring.Result, error)

	// Availability reports, per assessment type, whether userID has unlocked
	// and completed it.
	Availability(ctx context.Context, userID uuid.UUID) ([]TypeAvailability, error)

	// SaveDraft stores answers in the user's open draft of the type, creating it if needed.
	SaveDraft(
		ctx context.Context,
		userID uuid.UUID,
		assessmentType string,
		answers scoring.AnswerSet,
	) (*domain.Assessment, error)

	// Submit scores answers and stores the completed assessment. An open draft
	// of the same type is completed in place.
	Submit(
		ctx context.Context,
		userID uuid.UUID,
		assessmentType string,
		answers scoring.AnswerSet,
	) (*domain.Assessment, error)

	// Get returns one of the user's assessments.
	Get(ctx context.Context, userID, assessmentID uuid.UUID) (*domain.Assessment, error)

	// List returns the user's assessments, most recent first.
	List(ctx context.Context, userID uuid.UUID, filter store.AssessmentFilter) ([]*domain.Assessment, error)
}

// AssessmentServiceOptions holds the policy settings of the service.
type AssessmentServiceOptions struct {
	// MinCompletion is the share of questions that must be answered to submit.
	MinCompletion float64
}

// assessmentServiceImpl implements the AssessmentService interface
type assessmentServiceImpl struct {
	repo          AssessmentRepository
	scorer        scoring.Service
	eventEmitter  events.EventEmitter
	observer      ScoringObserver
	tracer        trace.Tracer
	logger        *slog.Logger
	minCompletion float64
	now           func() time.Time
}

// NewAssessmentService creates a new AssessmentService.
// It returns an error if any of the required dependencies are nil. A nil
// observer disables scoring metrics.
func NewAssessmentService(
	repo AssessmentRepository,
	scorer scoring.Service,
	eventEmitter events.EventEmitter,
	observer ScoringObserver,
	logger *slog.Logger,
	opts AssessmentServiceOptions,
) (AssessmentService, error) {
	if repo == nil {
		return nil, &AssessmentServiceError{Operation: "create_service", Message: "repo cannot be nil"}
	}
	if scorer == nil {
		return nil, &AssessmentServiceError{Operation: "create_service", Message: "scorer cannot be nil"}
	}
	if eventEmitter == nil {
		return nil, &AssessmentServiceError{Operation: "create_service", Message: "eventEmitter cannot be nil"}
	}
	if observer == nil {
		observer = (*metrics.Recorder)(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}

	minCompletion := opts.MinCompletion
	if minCompletion <= 0 || minCompletion > 1 {
		minCompletion = DefaultMinCompletion
	}

	return &assessmentServiceImpl{
		repo:          repo,
		scorer:        scorer,
		eventEmitter:  eventEmitter,
		observer:      observer,
		tracer:        otel.Tracer(tracerName),
		logger:        logger.With("component", "assessment_service"),
		minCompletion: minCompletion,
		now:           time.Now,
	}, nil
}

// Catalogue implements AssessmentService.
func (s *assessmentServiceImpl) Catalogue() []*scoring.QuestionConfig {
	return s.scorer.Configs()
}

// Questionnaire implements AssessmentService.
func (s *assessmentServiceImpl) Questionnaire(assessmentType string) (*scoring.QuestionConfig, error) {
	return s.scorer.Config(assessmentType)
}

// Preview implements AssessmentService.
func (s *assessmentServiceImpl) Preview(
	ctx context.Context,
	assessmentType string,
	answers scoring.AnswerSet,
) (*scoring.Result, error) {
	ctx, span := s.tracer.Start(ctx, "AssessmentService.Preview",
		trace.WithAttributes(attribute.String("assessment.type", assessmentType)))
	defer span.End()

	result, err := s.score(ctx, assessmentType, metrics.ModePreview, answers)
	if err != nil {
		recordSpanError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("assessment.overall_score", result.OverallScore))
	return result, nil
}

// Availability implements AssessmentService.
func (s *assessmentServiceImpl) Availability(ctx context.Context, userID uuid.UUID) ([]TypeAvailability, error) {
	configs := s.scorer.Configs()
	completed := make(map[string]bool, len(configs))

	for _, cfg := range configs {
		done, err := s.repo.HasCompleted(ctx, userID, cfg.Type)
		if err != nil {
			return nil, NewAssessmentServiceError("availability", "failed to check completion", err)
		}
		completed[cfg.Type] = done
	}

	out := make([]TypeAvailability, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, TypeAvailability{
			Type:              cfg.Type,
			Name:              cfg.Name,
			Unlocked:          cfg.UnlockRequirement == "" || completed[cfg.UnlockRequirement],
			Completed:         completed[cfg.Type],
			UnlockRequirement: cfg.UnlockRequirement,
		})
	}
	return out, nil
}

// SaveDraft implements AssessmentService.
func (s *assessmentServiceImpl) SaveDraft(
	ctx context.Context,
	userID uuid.UUID,
	assessmentType string,
	answers scoring.AnswerSet,
) (*domain.Assessment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cfg, err := s.scorer.Config(assessmentType)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnlocked(ctx, userID, cfg); err != nil {
		return nil, err
	}
	answers = knownAnswers(cfg, answers)

	var draft *domain.Assessment
	err = store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)

		existing, err := txRepo.FindDraft(ctx, userID, assessmentType)
		switch {
		case err == nil:
			if err := existing.SetAnswers(answers, s.now()); err != nil {
				return NewAssessmentServiceError("save_draft", "failed to update draft answers", err)
			}
			if err := txRepo.Update(ctx, existing); err != nil {
				return NewAssessmentServiceError("save_draft", "failed to save draft", err)
			}
			draft = existing
		case errors.Is(err, store.ErrAssessmentNotFound):
			created, err := domain.NewAssessmentDraft(userID, assessmentType, answers)
			if err != nil {
				return NewAssessmentServiceError("save_draft", "failed to create draft", err)
			}
			if err := txRepo.Create(ctx, created); err != nil {
				return NewAssessmentServiceError("save_draft", "failed to save draft", err)
			}
			draft = created
		default:
			return NewAssessmentServiceError("save_draft", "failed to look up draft", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to save draft",
			"error", err,
			"user_id", userID,
			"assessment_type", assessmentType)
		return nil, err
	}

	s.emit(ctx, events.TypeDraftSaved, events.DraftSavedPayload{
		AssessmentID:   draft.ID,
		UserID:         userID,
		AssessmentType: assessmentType,
		AnsweredCount:  len(draft.Answers),
	})

	log.Debug("draft saved",
		"assessment_id", draft.ID,
		"user_id", userID,
		"assessment_type", assessmentType)
	return draft, nil
}

// Submit implements AssessmentService.
func (s *assessmentServiceImpl) Submit(
	ctx context.Context,
	userID uuid.UUID,
	assessmentType string,
	answers scoring.AnswerSet,
) (assessment *domain.Assessment, err error) {
	ctx, span := s.tracer.Start(ctx, "AssessmentService.Submit",
		trace.WithAttributes(
			attribute.String("assessment.type", assessmentType),
			attribute.String("user.id", userID.String()),
		))
	defer func() {
		if err != nil {
			recordSpanError(span, err)
		}
		span.End()
	}()

	log := logger.FromContextOrDefault(ctx, s.logger)

	cfg, err := s.scorer.Config(assessmentType)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnlocked(ctx, userID, cfg); err != nil {
		return nil, err
	}
	answers = knownAnswers(cfg, answers)

	result, err := s.score(ctx, assessmentType, metrics.ModeSubmit, answers)
	if err != nil {
		return nil, err
	}

	if completion := result.Completion(); completion < s.minCompletion {
		s.observer.RecordRejection(assessmentType, RejectIncomplete)
		log.Info("submission rejected as incomplete",
			"user_id", userID,
			"assessment_type", assessmentType,
			"answered", result.AnsweredCount,
			"total", result.TotalCount)
		return nil, fmt.Errorf("%w: %d of %d questions answered, at least %.0f%% required",
			ErrIncompleteSubmission, result.AnsweredCount, result.TotalCount, s.minCompletion*100)
	}

	err = store.RunInTransaction(ctx, s.repo.DB(), func(ctx context.Context, tx *sql.Tx) error {
		txRepo := s.repo.WithTx(tx)
		now := s.now()

		draft, err := txRepo.FindDraft(ctx, userID, assessmentType)
		switch {
		case err == nil:
			if err := draft.SetAnswers(answers, now); err != nil {
				return NewAssessmentServiceError("submit", "failed to update draft answers", err)
			}
			if err := draft.Complete(result, now); err != nil {
				return NewAssessmentServiceError("submit", "failed to complete draft", err)
			}
			if err := txRepo.Update(ctx, draft); err != nil {
				return NewAssessmentServiceError("submit", "failed to save assessment", err)
			}
			assessment = draft
		case errors.Is(err, store.ErrAssessmentNotFound):
			created, err := domain.NewAssessmentDraft(userID, assessmentType, answers)
			if err != nil {
				return NewAssessmentServiceError("submit", "failed to create assessment", err)
			}
			if err := created.Complete(result, now); err != nil {
				return NewAssessmentServiceError("submit", "failed to complete assessment", err)
			}
			if err := txRepo.Create(ctx, created); err != nil {
				return NewAssessmentServiceError("submit", "failed to save assessment", err)
			}
			assessment = created
		default:
			return NewAssessmentServiceError("submit", "failed to look up draft", err)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to store submission",
			"error", err,
			"user_id", userID,
			"assessment_type", assessmentType)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("assessment.id", assessment.ID.String()),
		attribute.Int("assessment.overall_score", result.OverallScore),
	)

	s.emit(ctx, events.TypeAssessmentCompleted, events.CompletedPayload{
		AssessmentID:        assessment.ID,
		UserID:              userID,
		AssessmentType:      assessmentType,
		OverallScore:        result.OverallScore,
		Level:               result.Interpretation.Level,
		SynergyBonusPercent: result.SynergyBonusPercent,
	})

	log.Info("assessment submitted",
		"assessment_id", assessment.ID,
		"user_id", userID,
		"assessment_type", assessmentType,
		"overall_score", result.OverallScore,
		"level", result.Interpretation.Level)
	return assessment, nil
}

// Get implements AssessmentService.
func (s *assessmentServiceImpl) Get(ctx context.Context, userID, assessmentID uuid.UUID) (*domain.Assessment, error) {
	a, err := s.repo.GetByID(ctx, assessmentID)
	if err != nil {
		if errors.Is(err, store.ErrAssessmentNotFound) {
			return nil, ErrAssessmentNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to retrieve assessment",
			"error", err,
			"assessment_id", assessmentID)
		return nil, NewAssessmentServiceError("get", "failed to retrieve assessment", err)
	}

	if a.UserID != userID {
		logger.FromContextOrDefault(ctx, s.logger).Warn("assessment requested by another user",
			"assessment_id", assessmentID,
			"owner_id", a.UserID,
			"user_id", userID)
		return nil, ErrNotOwned
	}
	return a, nil
}

// List implements AssessmentService.
func (s *assessmentServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.AssessmentFilter,
) ([]*domain.Assessment, error) {
	if filter.Type != "" {
		if _, err := s.scorer.Config(filter.Type); err != nil {
			return nil, err
		}
	}
	list, err := s.repo.ListByUser(ctx, userID, filter)
	if err != nil {
		return nil, NewAssessmentServiceError("list", "failed to list assessments", err)
	}
	return list, nil
}

// score runs the engine and records its duration.
func (s *assessmentServiceImpl) score(
	ctx context.Context,
	assessmentType, mode string,
	answers scoring.AnswerSet,
) (*scoring.Result, error) {
	start := time.Now()
	result, err := s.scorer.Score(assessmentType, answers)
	if err != nil {
		return nil, err
	}
	s.observer.ObserveScoring(assessmentType, mode, time.Since(start))

	if len(result.Skipped) > 0 {
		logger.FromContextOrDefault(ctx, s.logger).Warn("answers skipped during scoring",
			"assessment_type", assessmentType,
			"skipped", len(result.Skipped))
	}
	return result, nil
}

// checkUnlocked returns ErrAssessmentLocked when the prerequisite of cfg has
// not been completed by userID.
func (s *assessmentServiceImpl) checkUnlocked(ctx context.Context, userID uuid.UUID, cfg *scoring.QuestionConfig) error {
	if cfg.UnlockRequirement == "" {
		return nil
	}
	done, err := s.repo.HasCompleted(ctx, userID, cfg.UnlockRequirement)
	if err != nil {
		return NewAssessmentServiceError("unlock_check", "failed to check prerequisite", err)
	}
	if !done {
		s.observer.RecordRejection(cfg.Type, RejectLocked)
		return fmt.Errorf("%w: complete %s first", ErrAssessmentLocked, cfg.UnlockRequirement)
	}
	return nil
}

// emit publishes an event. Handler failures are logged; the operation that
// produced the event has already been committed.
func (s *assessmentServiceImpl) emit(ctx context.Context, eventType string, payload interface{}) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	event, err := events.NewAssessmentEvent(eventType, payload)
	if err != nil {
		log.Error("failed to create event", "error", err, "event_type", eventType)
		return
	}
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		log.Error("failed to emit event",
			"error", err,
			"event_id", event.ID,
			"event_type", eventType)
	}
}

// knownAnswers drops answers to question ids the configuration does not define.
func knownAnswers(cfg *scoring.QuestionConfig, answers scoring.AnswerSet) scoring.AnswerSet {
	out := make(scoring.AnswerSet, len(answers))
	for _, q := range cfg.Questions {
		if a, ok := answers[q.ID]; ok {
			out[q.ID] = a
		}
	}
	return out
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
