package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
)

// AssessmentStatus represents the lifecycle state of an assessment.
type AssessmentStatus string

// Possible assessment status values
const (
	AssessmentStatusDraft     AssessmentStatus = "draft"
	AssessmentStatusCompleted AssessmentStatus = "completed"
)

// Common validation errors for Assessment
var (
	ErrEmptyAssessmentID      = errors.New("assessment ID cannot be empty")
	ErrEmptyAssessmentUserID  = errors.New("assessment user ID cannot be empty")
	ErrEmptyAssessmentType    = errors.New("assessment type cannot be empty")
	ErrInvalidAssessmentState = errors.New("invalid assessment status")
	ErrMissingResult          = errors.New("completed assessment requires a result")
	ErrAssessmentCompleted    = errors.New("assessment is already completed")
)

// Assessment is one user's answers to an assessment type and, once
// submitted, the scoring result computed from them.
type Assessment struct {
	ID          uuid.UUID         `json:"id"`
	UserID      uuid.UUID         `json:"user_id"`
	Type        string            `json:"type"`
	Status      AssessmentStatus  `json:"status"`
	Answers     scoring.AnswerSet `json:"answers"`
	Result      *scoring.Result   `json:"result,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`

	// OverallScore and Level are copied from Result so listings can be served
	// without decoding the full report.
	OverallScore int    `json:"overall_score"`
	Level        string `json:"level,omitempty"`
}

// NewAssessmentDraft creates a draft for userID with a fresh ID.
// Returns an error if validation fails.
func NewAssessmentDraft(userID uuid.UUID, assessmentType string, answers scoring.AnswerSet) (*Assessment, error) {
	now := time.Now().UTC()
	if answers == nil {
		answers = scoring.AnswerSet{}
	}

	a := &Assessment{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      assessmentType,
		Status:    AssessmentStatusDraft,
		Answers:   answers,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// SetAnswers replaces the answers of a draft.
func (a *Assessment) SetAnswers(answers scoring.AnswerSet, now time.Time) error {
	if a.Status == AssessmentStatusCompleted {
		return ErrAssessmentCompleted
	}
	if answers == nil {
		answers = scoring.AnswerSet{}
	}
	a.Answers = answers
	a.UpdatedAt = now.UTC()
	return nil
}

// Complete attaches a scoring result and freezes the assessment.
func (a *Assessment) Complete(result *scoring.Result, now time.Time) error {
	if a.Status == AssessmentStatusCompleted {
		return ErrAssessmentCompleted
	}
	if result == nil {
		return ErrMissingResult
	}
	if result.AssessmentType != a.Type {
		return fmt.Errorf("%w: result for %q attached to %q assessment",
			ErrValidation, result.AssessmentType, a.Type)
	}

	ts := now.UTC()
	a.Status = AssessmentStatusCompleted
	a.Result = result
	a.OverallScore = result.OverallScore
	a.Level = result.Interpretation.Level
	a.UpdatedAt = ts
	a.CompletedAt = &ts
	return nil
}

// IsCompleted reports whether the assessment has been submitted.
func (a *Assessment) IsCompleted() bool {
	return a.Status == AssessmentStatusCompleted
}

// Validate checks if the Assessment has valid data.
func (a *Assessment) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAssessmentID
	}
	if a.UserID == uuid.Nil {
		return ErrEmptyAssessmentUserID
	}
	if a.Type == "" {
		return ErrEmptyAssessmentType
	}

	switch a.Status {
	case AssessmentStatusDraft:
	case AssessmentStatusCompleted:
		if a.Result == nil || a.CompletedAt == nil {
			return ErrMissingResult
		}
	default:
		return ErrInvalidAssessmentState
	}
	return nil
}
