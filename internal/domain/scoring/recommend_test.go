package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend(t *testing.T) {
	t.Parallel()

	labels := map[string]RecommendationLabel{
		"a": {Area: "A", Action: "act a", Impact: "impact a"},
		"b": {Area: "B", Action: "act b", Impact: "impact b"},
		"c": {Area: "C", Action: "act c", Impact: "impact c"},
		"d": {Area: "D", Action: "act d", Impact: "impact d"},
		"e": {Area: "E", Action: "act e", Impact: "impact e"},
		"f": {Area: "F", Action: "act f", Impact: "impact f"},
	}

	t.Run("worst first, top five", func(t *testing.T) {
		t.Parallel()
		scores := map[string]float64{
			"a": 0.6, "b": 0.1, "c": 0.3, "d": 0.2, "e": 0.5, "f": 0.4, "strong": 0.9,
		}
		recs := Recommend(scores, labels, RecommendOptions{})

		var areas []string
		for i, r := range recs {
			areas = append(areas, r.Area)
			assert.Equal(t, i+1, r.Priority)
			assert.Equal(t, DefaultRecommendationTarget, r.TargetScore)
		}
		assert.Equal(t, []string{"B", "D", "C", "F", "E"}, areas)
		assert.Equal(t, 10, recs[0].CurrentScore)
		assert.Equal(t, "act b", recs[0].Action)
		assert.Equal(t, "impact b", recs[0].Impact)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		t.Parallel()
		recs := Recommend(map[string]float64{"a": 0.7, "b": 0.6999}, labels, RecommendOptions{})
		if assert.Len(t, recs, 1) {
			assert.Equal(t, "b", recs[0].Construct)
			assert.Equal(t, 70, recs[0].CurrentScore)
		}
	})

	t.Run("unlabelled constructs are skipped", func(t *testing.T) {
		t.Parallel()
		recs := Recommend(map[string]float64{"unknown": 0.0, "a": 0.5}, labels, RecommendOptions{})
		if assert.Len(t, recs, 1) {
			assert.Equal(t, "a", recs[0].Construct)
			assert.Equal(t, 1, recs[0].Priority)
		}
	})

	t.Run("priorities have no gaps", func(t *testing.T) {
		t.Parallel()
		scores := map[string]float64{"gap-1": 0.1, "b": 0.3, "gap-2": 0.4, "a": 0.5}
		recs := Recommend(scores, labels, RecommendOptions{})
		require.Len(t, recs, 2)
		assert.Equal(t, "b", recs[0].Construct)
		assert.Equal(t, 1, recs[0].Priority)
		assert.Equal(t, "a", recs[1].Construct)
		assert.Equal(t, 2, recs[1].Priority)
	})

	t.Run("ties ordered by construct", func(t *testing.T) {
		t.Parallel()
		recs := Recommend(map[string]float64{"c": 0.5, "a": 0.5, "b": 0.5}, labels, RecommendOptions{})
		var got []string
		for _, r := range recs {
			got = append(got, r.Construct)
		}
		assert.Equal(t, []string{"a", "b", "c"}, got)
	})

	t.Run("nothing weak", func(t *testing.T) {
		t.Parallel()
		recs := Recommend(map[string]float64{"a": 1}, labels, RecommendOptions{})
		assert.NotNil(t, recs)
		assert.Empty(t, recs)
	})

	t.Run("custom options", func(t *testing.T) {
		t.Parallel()
		recs := Recommend(map[string]float64{"a": 0.75, "b": 0.2}, labels, RecommendOptions{
			Threshold: 0.8,
			Target:    80,
			Limit:     1,
		})
		if assert.Len(t, recs, 1) {
			assert.Equal(t, "b", recs[0].Construct)
			assert.Equal(t, 80, recs[0].TargetScore)
		}
	})
}
