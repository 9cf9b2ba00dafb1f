package scoring

// SectionScore is the breakdown of one section.
type SectionScore struct {
	Section string  `json:"section"`
	Label   string  `json:"label"`
	Weight  float64 `json:"weight"`
	Scored  bool    `json:"scored"`

	// Score is the unrounded section score in [0,100]; 0 for unscored sections.
	Score float64 `json:"score"`

	AnsweredCount   int                `json:"answeredCount"`
	TotalCount      int                `json:"totalCount"`
	ConstructScores map[string]float64 `json:"constructScores"`
}

// Result is the full report for one scored answer set.
type Result struct {
	AssessmentType string `json:"assessmentType"`

	// OverallScore is the composite rounded once, at the end of the pipeline.
	OverallScore int     `json:"overallScore"`
	ExactScore   float64 `json:"exactScore"`

	SectionScores       []SectionScore     `json:"sectionScores"`
	ConstructScores     map[string]float64 `json:"constructScores"`
	SynergyBonusPercent int                `json:"synergyBonusPercent"`
	ActiveSynergies     []SynergyPair      `json:"activeSynergies"`
	Interpretation      Interpretation     `json:"interpretation"`
	Recommendations     []Recommendation   `json:"recommendations"`
	Radar               []RadarPoint       `json:"radar"`
	SectionAdvice       []string           `json:"sectionAdvice,omitempty"`

	// Profile and Personalized are set only for types with personalization.
	Profile      *Demographics                `json:"profile,omitempty"`
	Personalized []PersonalizedRecommendation `json:"personalized,omitempty"`

	AnsweredCount int             `json:"answeredCount"`
	TotalCount    int             `json:"totalCount"`
	Skipped       []SkippedAnswer `json:"skipped,omitempty"`
}

// Completion returns the share of configured questions that carry a usable
// answer, in [0,1].
func (r *Result) Completion() float64 {
	if r == nil || r.TotalCount == 0 {
		return 0
	}
	return float64(r.AnsweredCount) / float64(r.TotalCount)
}

// Section returns the breakdown of one section.
func (r *Result) Section(id string) (SectionScore, bool) {
	for _, s := range r.SectionScores {
		if s.Section == id {
			return s, true
		}
	}
	return SectionScore{}, false
}
