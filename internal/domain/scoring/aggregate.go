package scoring

// WeightFunc returns the aggregation weight of a question.
type WeightFunc func(Question) float64

// constructTally is the outcome of aggregating one construct.
type constructTally struct {
	score    float64
	answered int
	skipped  []SkippedAnswer
}

// AggregateConstruct returns the weighted mean of the normalized answers to
// questions, in [0,1]. Questions without a valid answer are left out of both
// numerator and denominator; a construct with no valid answers scores 0.
// A nil weightFor weighs every question equally.
func AggregateConstruct(answers AnswerSet, questions []Question, weightFor WeightFunc) float64 {
	return tallyConstruct(answers, questions, weightFor).score
}

func tallyConstruct(answers AnswerSet, questions []Question, weightFor WeightFunc) constructTally {
	var (
		tally       constructTally
		weightedSum float64
		totalWeight float64
	)

	for _, q := range questions {
		a, ok := answers[q.ID]
		if !ok || a.Kind() == AnswerNull {
			continue
		}

		v, err := normalizeAnswer(a, q.Reverse)
		if err != nil {
			tally.skipped = append(tally.skipped, SkippedAnswer{QuestionID: q.ID, Reason: err.Error()})
			continue
		}

		w := 1.0
		if weightFor != nil {
			w = weightFor(q)
		}
		if w <= 0 {
			continue
		}

		weightedSum += v * w
		totalWeight += w
		tally.answered++
	}

	if totalWeight > 0 {
		tally.score = clamp(weightedSum/totalWeight, 0, 1)
	}
	return tally
}

// AggregateSection returns 100 times the unweighted mean of the construct
// scores. Every construct counts once, whatever the number of questions
// behind it. An empty section scores 0.
func AggregateSection(constructScores []float64) float64 {
	if len(constructScores) == 0 {
		return 0
	}

	var sum float64
	for _, s := range constructScores {
		sum += s
	}
	return clamp(100*sum/float64(len(constructScores)), 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
