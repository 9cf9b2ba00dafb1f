package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssessmentEvent(t *testing.T) {
	t.Parallel()

	payload := CompletedPayload{
		AssessmentID:   uuid.New(),
		UserID:         uuid.New(),
		AssessmentType: "cirf",
		OverallScore:   81,
		Level:          "High",
	}

	event, err := NewAssessmentEvent(TypeAssessmentCompleted, payload)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, TypeAssessmentCompleted, event.Type)
	assert.WithinDuration(t, time.Now(), event.CreatedAt, 2*time.Second)

	var decoded CompletedPayload
	require.NoError(t, event.UnmarshalPayload(&decoded))
	assert.Equal(t, payload, decoded)
}

func TestNewAssessmentEventRejectsUnencodablePayload(t *testing.T) {
	t.Parallel()

	_, err := NewAssessmentEvent(TypeDraftSaved, make(chan int))
	assert.Error(t, err)
}

// MockEventHandler implements the EventHandler interface for testing
type MockEventHandler struct {
	// The last event received by this handler
	LastEvent *AssessmentEvent
	// Error to return from HandleEvent
	HandlerError error
	// Number of times HandleEvent was called
	HandledCount int
}

// HandleEvent implements the EventHandler interface
func (m *MockEventHandler) HandleEvent(ctx context.Context, event *AssessmentEvent) error {
	m.LastEvent = event
	m.HandledCount++
	return m.HandlerError
}

type fakeRecorder struct {
	calls []string
	score int
}

func (f *fakeRecorder) RecordCompletion(assessmentType, level string, overallScore int) {
	f.calls = append(f.calls, assessmentType+"/"+level)
	f.score = overallScore
}

func TestCompletionMetricsHandler(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		eventType string
		payload   interface{}
		wantCalls []string
		wantErr   bool
	}{
		{
			name:      "completed event is recorded",
			eventType: TypeAssessmentCompleted,
			payload:   CompletedPayload{AssessmentType: "cira", Level: "Established", OverallScore: 75},
			wantCalls: []string{"cira/Established"},
		},
		{
			name:      "draft event is ignored",
			eventType: TypeDraftSaved,
			payload:   DraftSavedPayload{AssessmentType: "cira"},
		},
		{
			name:      "malformed payload",
			eventType: TypeAssessmentCompleted,
			payload:   []int{1, 2},
			wantErr:   true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			rec := &fakeRecorder{}
			event, err := NewAssessmentEvent(tc.eventType, tc.payload)
			require.NoError(t, err)

			err = NewCompletionMetricsHandler(rec).HandleEvent(context.Background(), event)

			if tc.wantErr {
				assert.Error(t, err)
				assert.Empty(t, rec.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantCalls, rec.calls)
		})
	}
}

func TestHandlerFunc(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	h := HandlerFunc(func(ctx context.Context, event *AssessmentEvent) error { return want })

	assert.ErrorIs(t, h.HandleEvent(context.Background(), &AssessmentEvent{}), want)
}
