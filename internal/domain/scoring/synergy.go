package scoring

// DefaultSynergyThreshold is the construct score both members of a pair must
// reach for the pair to activate.
const DefaultSynergyThreshold = 0.70

// EvaluateSynergies returns the summed bonus of every active pair and the
// active pairs in catalogue order. A pair is active when both construct
// scores are at or above its threshold: the pair's own Threshold when set,
// otherwise threshold, otherwise DefaultSynergyThreshold. Missing constructs
// score 0 and never activate a pair.
func EvaluateSynergies(
	constructScores map[string]float64,
	pairs []SynergyPair,
	threshold float64,
) (float64, []SynergyPair) {
	if threshold <= 0 {
		threshold = DefaultSynergyThreshold
	}

	var (
		bonus  float64
		active []SynergyPair
	)
	for _, p := range pairs {
		t := threshold
		if p.Threshold > 0 {
			t = p.Threshold
		}

		if constructScores[p.ConstructA] >= t && constructScores[p.ConstructB] >= t {
			bonus += p.Bonus
			active = append(active, p)
		}
	}

	return bonus, active
}
