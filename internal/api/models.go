package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cirf-api/internal/domain"
	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/phrazzld/cirf-api/internal/service"
)

// AnswersRequest is the body of the preview, draft and submission endpoints.
// Values are Likert integers 1..7, strings, string lists or null.
type AnswersRequest struct {
	Answers scoring.AnswerSet `json:"answers" validate:"required,max=500"`
}

// ListAssessmentsQuery holds the query parameters of GET /api/assessments.
type ListAssessmentsQuery struct {
	Type   string `validate:"omitempty,max=64"`
	Status string `validate:"omitempty,oneof=draft completed"`
	Limit  int    `validate:"gte=0,lte=100"`
	Offset int    `validate:"gte=0"`
}

// AssessmentTypeResponse describes one assessment type of the catalogue.
type AssessmentTypeResponse struct {
	Type              string            `json:"type"`
	Name              string            `json:"name"`
	FullName          string            `json:"full_name,omitempty"`
	Description       string            `json:"description,omitempty"`
	UnlockRequirement string            `json:"unlock_requirement,omitempty"`
	QuestionCount     int               `json:"question_count"`
	Sections          []scoring.Section `json:"sections"`
}

// QuestionnaireResponse is an assessment type with its questions.
type QuestionnaireResponse struct {
	AssessmentTypeResponse
	Questions []scoring.Question `json:"questions"`
}

// CatalogueResponse lists every assessment type.
type CatalogueResponse struct {
	Types []AssessmentTypeResponse `json:"types"`
}

// AvailabilityResponse reports which assessment types the user may take.
type AvailabilityResponse struct {
	Types []service.TypeAvailability `json:"types"`
}

// AssessmentResponse is the full representation of a stored assessment.
type AssessmentResponse struct {
	ID           uuid.UUID         `json:"id"`
	UserID       uuid.UUID         `json:"user_id"`
	Type         string            `json:"type"`
	Status       string            `json:"status"`
	Answers      scoring.AnswerSet `json:"answers"`
	Result       *scoring.Result   `json:"result,omitempty"`
	OverallScore *int              `json:"overall_score,omitempty"`
	Level        string            `json:"level,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	CompletedAt  *time.Time        `json:"completed_at,omitempty"`
}

// AssessmentSummary is the list representation of an assessment.
type AssessmentSummary struct {
	ID           uuid.UUID  `json:"id"`
	Type         string     `json:"type"`
	Status       string     `json:"status"`
	AnswerCount  int        `json:"answer_count"`
	OverallScore *int       `json:"overall_score,omitempty"`
	Level        string     `json:"level,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// AssessmentListResponse is a page of the user's assessments.
type AssessmentListResponse struct {
	Assessments []AssessmentSummary `json:"assessments"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

func typeToResponse(cfg *scoring.QuestionConfig) AssessmentTypeResponse {
	return AssessmentTypeResponse{
		Type:              cfg.Type,
		Name:              cfg.Name,
		FullName:          cfg.FullName,
		Description:       cfg.Description,
		UnlockRequirement: cfg.UnlockRequirement,
		QuestionCount:     len(cfg.Questions),
		Sections:          cfg.Sections,
	}
}

func assessmentToResponse(a *domain.Assessment) AssessmentResponse {
	resp := AssessmentResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		Type:        a.Type,
		Status:      string(a.Status),
		Answers:     a.Answers,
		Result:      a.Result,
		Level:       a.Level,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
		CompletedAt: a.CompletedAt,
	}
	if a.IsCompleted() {
		score := a.OverallScore
		resp.OverallScore = &score
	}
	return resp
}

func assessmentToSummary(a *domain.Assessment) AssessmentSummary {
	s := AssessmentSummary{
		ID:          a.ID,
		Type:        a.Type,
		Status:      string(a.Status),
		AnswerCount: len(a.Answers),
		Level:       a.Level,
		UpdatedAt:   a.UpdatedAt,
		CompletedAt: a.CompletedAt,
	}
	if a.IsCompleted() {
		score := a.OverallScore
		s.OverallScore = &score
	}
	return s
}
