package scoring

import "sort"

// Recommendation defaults.
const (
	DefaultRecommendationThreshold = 0.70
	DefaultRecommendationTarget    = 70
	DefaultRecommendationLimit     = 5
)

// Recommendation is an improvement suggestion for a weak construct.
type Recommendation struct {
	Priority     int    `json:"priority"`
	Construct    string `json:"construct"`
	Area         string `json:"area"`
	CurrentScore int    `json:"currentScore"`
	TargetScore  int    `json:"targetScore"`
	Impact       string `json:"impact"`
	Action       string `json:"action"`
}

// RecommendOptions tunes Recommend. Zero fields take the defaults.
type RecommendOptions struct {
	Threshold float64
	Target    int
	Limit     int
}

func (o RecommendOptions) withDefaults() RecommendOptions {
	if o.Threshold <= 0 {
		o.Threshold = DefaultRecommendationThreshold
	}
	if o.Target <= 0 {
		o.Target = DefaultRecommendationTarget
	}
	if o.Limit <= 0 {
		o.Limit = DefaultRecommendationLimit
	}
	return o
}

// Recommend selects the constructs scoring below the threshold, worst first,
// keeps the first Limit of them and attaches their catalogue labels.
// Constructs without a label are dropped after selection, so fewer than
// Limit entries may be returned. Equal scores are ordered by construct name.
// Priorities are numbered 1..n over the returned entries, without gaps.
func Recommend(
	constructScores map[string]float64,
	labels map[string]RecommendationLabel,
	opts RecommendOptions,
) []Recommendation {
	opts = opts.withDefaults()
	candidates := selectWeak(constructScores, opts)

	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		label, ok := labels[c.construct]
		if !ok {
			continue
		}
		recs = append(recs, Recommendation{
			Priority:     len(recs) + 1,
			Construct:    c.construct,
			Area:         label.Area,
			CurrentScore: roundScore(c.score * 100),
			TargetScore:  opts.Target,
			Impact:       label.Impact,
			Action:       label.Action,
		})
	}

	return recs
}

type weakConstruct struct {
	construct string
	score     float64
}

// selectWeak returns the constructs below opts.Threshold, worst first with
// ties ordered by name, truncated to opts.Limit.
func selectWeak(constructScores map[string]float64, opts RecommendOptions) []weakConstruct {
	candidates := make([]weakConstruct, 0, len(constructScores))
	for c, s := range constructScores {
		if s < opts.Threshold {
			candidates = append(candidates, weakConstruct{construct: c, score: s})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score < candidates[j].score
		}
		return candidates[i].construct < candidates[j].construct
	})

	if len(candidates) > opts.Limit {
		candidates = candidates[:opts.Limit]
	}
	return candidates
}
