package events

import (
	"context"
	"errors"
	"testing"

	"github.com/phrazzld/cirf-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryEventEmitter(t *testing.T) {
	t.Parallel()

	newEvent := func(t *testing.T) *AssessmentEvent {
		t.Helper()
		event, err := NewAssessmentEvent(TypeDraftSaved, DraftSavedPayload{AssessmentType: "cirf"})
		require.NoError(t, err)
		return event
	}

	t.Run("emit event with no handlers", func(t *testing.T) {
		t.Parallel()

		l, _ := logger.NewTestLogger(t)
		emitter := NewInMemoryEventEmitter(l)

		assert.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t)))
	})

	t.Run("emit event with successful handlers", func(t *testing.T) {
		t.Parallel()

		l, _ := logger.NewTestLogger(t)
		emitter := NewInMemoryEventEmitter(l)
		handler1 := &MockEventHandler{}
		handler2 := &MockEventHandler{}
		emitter.RegisterHandler(handler1)
		emitter.RegisterHandler(handler2)

		event := newEvent(t)
		require.NoError(t, emitter.EmitEvent(context.Background(), event))

		assert.Equal(t, 1, handler1.HandledCount)
		assert.Equal(t, 1, handler2.HandledCount)
		assert.Same(t, event, handler1.LastEvent)
		assert.Same(t, event, handler2.LastEvent)
	})

	t.Run("failing handler does not stop delivery", func(t *testing.T) {
		t.Parallel()

		l, _ := logger.NewTestLogger(t)
		emitter := NewInMemoryEventEmitter(l)
		failingHandler := &MockEventHandler{HandlerError: errors.New("handler error")}
		successHandler := &MockEventHandler{}
		emitter.RegisterHandler(failingHandler)
		emitter.RegisterHandler(successHandler)

		err := emitter.EmitEvent(context.Background(), newEvent(t))

		require.Error(t, err)
		assert.Equal(t, "handler error", err.Error())
		assert.Equal(t, 1, failingHandler.HandledCount)
		assert.Equal(t, 1, successHandler.HandledCount)
	})

	t.Run("audit handler logs events", func(t *testing.T) {
		t.Parallel()

		l, buf := logger.NewTestLogger(t)
		emitter := NewInMemoryEventEmitter(l)
		emitter.RegisterHandler(NewAuditLogHandler(l))

		require.NoError(t, emitter.EmitEvent(context.Background(), newEvent(t)))
		assert.Contains(t, buf.String(), `"event_type":"assessment.draft_saved"`)
		assert.Contains(t, buf.String(), `"component":"assessment_audit"`)
	})
}
