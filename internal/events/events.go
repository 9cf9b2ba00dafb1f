package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types emitted by the assessment service.
const (
	TypeAssessmentCompleted = "assessment.completed"
	TypeDraftSaved          = "assessment.draft_saved"
)

// AssessmentEvent records something that happened to an assessment.
type AssessmentEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	// Payload contains the event-specific data serialized as JSON
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is the timestamp when the event was created
	CreatedAt time.Time `json:"created_at"`
}

// CompletedPayload is the payload of TypeAssessmentCompleted events.
type CompletedPayload struct {
	AssessmentID        uuid.UUID `json:"assessment_id"`
	UserID              uuid.UUID `json:"user_id"`
	AssessmentType      string    `json:"assessment_type"`
	OverallScore        int       `json:"overall_score"`
	Level               string    `json:"level"`
	SynergyBonusPercent int       `json:"synergy_bonus_percent"`
}

// DraftSavedPayload is the payload of TypeDraftSaved events.
type DraftSavedPayload struct {
	AssessmentID   uuid.UUID `json:"assessment_id"`
	UserID         uuid.UUID `json:"user_id"`
	AssessmentType string    `json:"assessment_type"`
	AnsweredCount  int       `json:"answered_count"`
}

// UnmarshalPayload decodes the event payload into the provided structure.
func (e *AssessmentEvent) UnmarshalPayload(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// NewAssessmentEvent creates an event with the specified type and payload.
func NewAssessmentEvent(eventType string, payload interface{}) (*AssessmentEvent, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &AssessmentEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Payload:   payloadBytes,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *AssessmentEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *AssessmentEvent) error

// HandleEvent implements EventHandler.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *AssessmentEvent) error {
	return f(ctx, event)
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *AssessmentEvent) error
}
