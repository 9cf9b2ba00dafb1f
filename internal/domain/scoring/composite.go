package scoring

import "math"

// MaxScore caps the composite index.
const MaxScore = 100

// ComputeOverall combines section scores into the composite index:
//
//	base    = Σ(score_i * weight_i) / Σ(weight_i)   over sections with weight_i > 0
//	overall = min(100, base * (1 + bonus))
//
// The result is not rounded. Sections missing from weights have zero weight.
// A zero total weight is a configuration defect.
func ComputeOverall(sections []SectionScore, weights map[string]float64, bonus float64) (float64, error) {
	var weightedSum, totalWeight float64
	for _, s := range sections {
		w := weights[s.Section]
		if w <= 0 {
			continue
		}
		weightedSum += s.Score * w
		totalWeight += w
	}

	if totalWeight == 0 {
		return 0, &ConfigurationError{Reason: "total section weight is zero"}
	}

	if bonus < 0 {
		bonus = 0
	}
	overall := (weightedSum / totalWeight) * (1 + bonus)
	return clamp(overall, 0, MaxScore), nil
}

// roundScore rounds half away from zero, matching display rounding.
func roundScore(v float64) int {
	return int(math.Round(v))
}
