package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/cirf-api/internal/api/shared"
	"github.com/phrazzld/cirf-api/internal/platform/logger"
	"github.com/phrazzld/cirf-api/internal/service"
)

// AssessmentHandler handles assessment-related HTTP requests
type AssessmentHandler struct {
	assessmentService service.AssessmentService
	logger            *slog.Logger
}

// NewAssessmentHandler creates a new AssessmentHandler
func NewAssessmentHandler(assessmentService service.AssessmentService, logger *slog.Logger) *AssessmentHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for AssessmentHandler")
	}

	return &AssessmentHandler{
		assessmentService: assessmentService,
		logger:            logger.With(slog.String("component", "assessment_handler")),
	}
}

// ListTypes handles GET /api/assessments/types requests.
func (h *AssessmentHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	configs := h.assessmentService.Catalogue()
	resp := CatalogueResponse{Types: make([]AssessmentTypeResponse, 0, len(configs))}
	for _, cfg := range configs {
		resp.Types = append(resp.Types, typeToResponse(cfg))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetType handles GET /api/assessments/types/{type} requests.
// It returns the questionnaire of one assessment type.
func (h *AssessmentHandler) GetType(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.assessmentService.Questionnaire(chi.URLParam(r, "type"))
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, QuestionnaireResponse{
		AssessmentTypeResponse: typeToResponse(cfg),
		Questions:              cfg.Questions,
	})
}

// Preview handles POST /api/assessments/types/{type}/preview requests.
// It scores the answers without storing them.
func (h *AssessmentHandler) Preview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	assessmentType := chi.URLParam(r, "type")

	req, ok := decodeAnswersRequest(w, r, log)
	if !ok {
		return
	}

	result, err := h.assessmentService.Preview(r.Context(), assessmentType, req.Answers)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	log.Debug("preview scored",
		slog.String("assessment_type", assessmentType),
		slog.Int("overall_score", result.OverallScore))
	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// Availability handles GET /api/assessments/availability requests.
func (h *AssessmentHandler) Availability(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	types, err := h.assessmentService.Availability(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load assessment availability")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, AvailabilityResponse{Types: types})
}

// SaveDraft handles PUT /api/assessments/types/{type}/draft requests.
func (h *AssessmentHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	assessmentType := chi.URLParam(r, "type")

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	req, ok := decodeAnswersRequest(w, r, log)
	if !ok {
		return
	}

	draft, err := h.assessmentService.SaveDraft(r.Context(), userID, assessmentType, req.Answers)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, assessmentToResponse(draft))
}

// Submit handles POST /api/assessments/types/{type}/submissions requests.
// It scores and stores a completed assessment.
func (h *AssessmentHandler) Submit(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	assessmentType := chi.URLParam(r, "type")

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}
	req, ok := decodeAnswersRequest(w, r, log)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Submit(r.Context(), userID, assessmentType, req.Answers)
	if err != nil {
		status := MapErrorToStatusCode(err)
		message := GetSafeErrorMessage(err)
		if status == http.StatusInternalServerError {
			message = "Failed to submit assessment"
		}
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}

	log.Info("assessment submitted",
		slog.String("assessment_id", assessment.ID.String()),
		slog.String("assessment_type", assessmentType),
		slog.Int("overall_score", assessment.OverallScore))

	w.Header().Set("Location", "/api/assessments/"+assessment.ID.String())
	shared.RespondWithJSON(w, r, http.StatusCreated, assessmentToResponse(assessment))
}

// ListAssessments handles GET /api/assessments requests.
func (h *AssessmentHandler) ListAssessments(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r, log)
	if !ok {
		return
	}

	filter, err := parseListQuery(r)
	if err != nil {
		HandleAPIError(w, r, err, "Invalid query parameters")
		return
	}

	list, err := h.assessmentService.List(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	resp := AssessmentListResponse{
		Assessments: make([]AssessmentSummary, 0, len(list)),
		Limit:       filter.EffectiveLimit(),
		Offset:      filter.Offset,
	}
	for _, a := range list {
		resp.Assessments = append(resp.Assessments, assessmentToSummary(a))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetAssessment handles GET /api/assessments/{id} requests.
func (h *AssessmentHandler) GetAssessment(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, assessmentID, ok := handleUserIDAndPathUUID(w, r, "id", log)
	if !ok {
		return
	}

	assessment, err := h.assessmentService.Get(r.Context(), userID, assessmentID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, assessmentToResponse(assessment))
}
