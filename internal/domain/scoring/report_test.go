package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRadar(t *testing.T) {
	t.Parallel()

	sections := []Section{
		{ID: "context", Label: "Context", RadarLabel: "Ctx", Weight: 0},
		{ID: "a", Label: "Section A", RadarLabel: "A", Weight: 0.5},
		{ID: "b", Label: "Section B", Weight: 0.5},
	}
	scores := []SectionScore{
		{Section: "context"},
		{Section: "a", Score: 66.6},
		{Section: "b", Score: 12.4},
	}

	assert.Equal(t, []RadarPoint{
		{Dimension: "A", Score: 67, FullMark: 100},
		{Dimension: "Section B", Score: 12, FullMark: 100},
	}, Radar(sections, scores))
}

func TestAdvise(t *testing.T) {
	t.Parallel()

	rules := []AdviceRule{
		{Message: "fix costs", When: []AdviceCondition{{Section: "cost", Comparison: Below, Value: 60}}},
		{Message: "go premium", When: []AdviceCondition{
			{Section: "value", Comparison: Above, Value: 80},
			{Section: "price", Comparison: Below, Value: 50},
		}},
		{Message: "never"},
	}

	testCases := []struct {
		name     string
		scores   []SectionScore
		expected []string
	}{
		{
			name:   "boundary does not fire",
			scores: []SectionScore{{Section: "cost", Score: 60}, {Section: "value", Score: 80}},
		},
		{
			name:     "single condition",
			scores:   []SectionScore{{Section: "cost", Score: 59.9}},
			expected: []string{"fix costs"},
		},
		{
			name: "all conditions must hold",
			scores: []SectionScore{
				{Section: "cost", Score: 90},
				{Section: "value", Score: 85},
				{Section: "price", Score: 40},
			},
			expected: []string{"go premium"},
		},
		{
			name: "partial match does not fire",
			scores: []SectionScore{
				{Section: "cost", Score: 90},
				{Section: "value", Score: 85},
				{Section: "price", Score: 55},
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, Advise(rules, tc.scores))
		})
	}
}
