package events

import (
	"context"
	"fmt"
	"log/slog"
)

// CompletionRecorder receives one call per completed assessment.
type CompletionRecorder interface {
	RecordCompletion(assessmentType, level string, overallScore int)
}

// NewCompletionMetricsHandler counts completed assessments per type and
// interpretation level. Other event types are ignored.
func NewCompletionMetricsHandler(rec CompletionRecorder) EventHandler {
	return HandlerFunc(func(ctx context.Context, event *AssessmentEvent) error {
		if event.Type != TypeAssessmentCompleted {
			return nil
		}
		var p CompletedPayload
		if err := event.UnmarshalPayload(&p); err != nil {
			return fmt.Errorf("decode %s payload: %w", event.Type, err)
		}
		rec.RecordCompletion(p.AssessmentType, p.Level, p.OverallScore)
		return nil
	})
}

// NewAuditLogHandler writes every event to the log at info level.
func NewAuditLogHandler(logger *slog.Logger) EventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "assessment_audit")

	return HandlerFunc(func(ctx context.Context, event *AssessmentEvent) error {
		logger.InfoContext(ctx, "assessment event",
			"event_id", event.ID,
			"event_type", event.Type,
			"payload", string(event.Payload))
		return nil
	})
}
