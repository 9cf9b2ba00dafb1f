package scoring

// RadarPoint is one axis of a radar chart over scored sections.
type RadarPoint struct {
	Dimension string `json:"dimension"`
	Score     int    `json:"score"`
	FullMark  int    `json:"fullMark"`
}

// Radar returns one point per scored section, in section order. Sections
// with zero weight are left out.
func Radar(sections []Section, scores []SectionScore) []RadarPoint {
	byID := make(map[string]SectionScore, len(scores))
	for _, s := range scores {
		byID[s.Section] = s
	}

	points := make([]RadarPoint, 0, len(sections))
	for _, sec := range sections {
		if !sec.Scored() {
			continue
		}
		s, ok := byID[sec.ID]
		if !ok {
			continue
		}

		label := sec.RadarLabel
		if label == "" {
			label = sec.Label
		}
		points = append(points, RadarPoint{
			Dimension: label,
			Score:     roundScore(s.Score),
			FullMark:  MaxScore,
		})
	}
	return points
}

// Advise returns the message of every rule whose conditions all hold, in
// rule order. Conditions are evaluated against unrounded section scores.
// A rule without conditions never fires.
func Advise(rules []AdviceRule, scores []SectionScore) []string {
	byID := make(map[string]float64, len(scores))
	for _, s := range scores {
		byID[s.Section] = s.Score
	}

	var out []string
	for _, r := range rules {
		if len(r.When) == 0 {
			continue
		}
		if allHold(r.When, byID) {
			out = append(out, r.Message)
		}
	}
	return out
}

func allHold(conds []AdviceCondition, scores map[string]float64) bool {
	for _, c := range conds {
		v := scores[c.Section]
		switch c.Comparison {
		case Below:
			if !(v < c.Value) {
				return false
			}
		case Above:
			if !(v > c.Value) {
				return false
			}
		default:
			return false
		}
	}
	return true
}
