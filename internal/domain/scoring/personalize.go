package scoring

import (
	"fmt"
	"slices"
)

// Context match weights. A variant scores the sum of the weights of the
// context fields it both restricts and matches.
const (
	orgTypeMatchWeight  = 30
	industryMatchWeight = 25
	stageMatchWeight    = 25
	teamSizeMatchWeight = 10
	regionMatchWeight   = 10

	// GenericMatchScore is the score of a variant without context. A best
	// match scoring below it yields to a generic variant when one exists.
	GenericMatchScore = 10
)

// Fallback copy for weak constructs that have no variants.
const (
	fallbackDescription = "Focus on strengthening this area to improve your overall resilience."
	fallbackImpact      = "Will contribute to overall resilience improvement"
)

// Action step timeframes used by the CIRF catalogue.
const (
	TimeframeThisWeek    = "this-week"
	TimeframeThisMonth   = "this-month"
	TimeframeThisQuarter = "this-quarter"
	TimeframeOngoing     = "ongoing"
)

// Demographics is the respondent profile read from the unscored context
// questions.
type Demographics struct {
	OrgType       string `json:"orgType"`
	Industry      string `json:"industry"`
	BusinessStage string `json:"businessStage"`
	TeamSize      string `json:"teamSize"`
	Region        string `json:"region"`
	Revenue       string `json:"revenue,omitempty"`
}

// ProfileQuestions names the question that supplies each profile field.
// Empty ids are not read.
type ProfileQuestions struct {
	OrgType       string
	Industry      string
	BusinessStage string
	TeamSize      string
	Region        string
	Revenue       string
}

func (p ProfileQuestions) ids() []string {
	return []string{p.OrgType, p.Industry, p.BusinessStage, p.TeamSize, p.Region, p.Revenue}
}

// VariantContext restricts a variant to some profiles. An empty field does
// not restrict.
type VariantContext struct {
	OrgTypes       []string `json:"orgTypes,omitempty"`
	Industries     []string `json:"industries,omitempty"`
	BusinessStages []string `json:"businessStages,omitempty"`
	TeamSizes      []string `json:"teamSizes,omitempty"`
	Regions        []string `json:"regions,omitempty"`
}

// Generic reports whether the variant applies to any organization,
// industry and stage.
func (c VariantContext) Generic() bool {
	return len(c.OrgTypes) == 0 && len(c.Industries) == 0 && len(c.BusinessStages) == 0
}

// MatchScore rates how well the context fits d. A context with no
// restrictions scores GenericMatchScore.
func (c VariantContext) MatchScore(d Demographics) int {
	var score, fields int
	check := func(values []string, v string, weight int) {
		if len(values) == 0 {
			return
		}
		fields++
		if slices.Contains(values, v) {
			score += weight
		}
	}

	check(c.OrgTypes, d.OrgType, orgTypeMatchWeight)
	check(c.Industries, d.Industry, industryMatchWeight)
	check(c.BusinessStages, d.BusinessStage, stageMatchWeight)
	check(c.TeamSizes, d.TeamSize, teamSizeMatchWeight)
	check(c.Regions, d.Region, regionMatchWeight)

	if fields == 0 {
		return GenericMatchScore
	}
	return score
}

// ActionStep is one concrete step of a variant.
type ActionStep struct {
	Action    string `json:"action"`
	Timeframe string `json:"timeframe"`
}

// RecommendationVariant is one wording of the advice for a construct,
// targeted at the profiles its Context allows.
type RecommendationVariant struct {
	ID          string         `json:"id"`
	Context     VariantContext `json:"context"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ActionSteps []ActionStep   `json:"actionSteps"`
	Impact      string         `json:"impact"`
	CaseStudies []string       `json:"caseStudies,omitempty"`
}

// ContextLabels maps profile values to the phrase used in context labels.
type ContextLabels struct {
	Fallback string
	Values   map[string]string
}

// Label returns the phrase for v, or Fallback when v is unknown.
func (l ContextLabels) Label(v string) string {
	if s, ok := l.Values[v]; ok {
		return s
	}
	return l.Fallback
}

// Personalization holds the tables used to tailor recommendations to the
// respondent profile.
type Personalization struct {
	Profile  ProfileQuestions
	Defaults Demographics

	OrgTypeLabels  ContextLabels
	IndustryLabels ContextLabels
	StageLabels    ContextLabels

	// Areas overrides the display name of a construct. Constructs missing
	// here use their recommendation label area, then their own name.
	Areas map[string]string

	// Variants lists the candidate variants of each construct.
	Variants map[string][]RecommendationVariant
}

// PersonalizedRecommendation is a Recommendation worded for the respondent
// profile.
type PersonalizedRecommendation struct {
	Priority     int          `json:"priority"`
	Construct    string       `json:"construct"`
	Area         string       `json:"area"`
	CurrentScore int          `json:"currentScore"`
	TargetScore  int          `json:"targetScore"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	ActionSteps  []ActionStep `json:"actionSteps"`
	Impact       string       `json:"impact"`
	ContextLabel string       `json:"contextLabel"`
	VariantID    string       `json:"variantId,omitempty"`
	CaseStudies  []string     `json:"caseStudies"`
}

// ActionItem is a single step lifted out of a recommendation.
type ActionItem struct {
	Area   string `json:"area"`
	Action string `json:"action"`
	Impact string `json:"impact,omitempty"`
}

// Demographics reads the profile from answers. Missing or non-text answers
// take the configured defaults; a list answer contributes its first item.
func (p *Personalization) Demographics(answers AnswerSet) Demographics {
	read := func(id, def string) string {
		if id == "" {
			return def
		}
		a := answers[id]
		if s, ok := a.Text(); ok && s != "" {
			return s
		}
		if items, ok := a.List(); ok && len(items) > 0 && items[0] != "" {
			return items[0]
		}
		return def
	}

	return Demographics{
		OrgType:       read(p.Profile.OrgType, p.Defaults.OrgType),
		Industry:      read(p.Profile.Industry, p.Defaults.Industry),
		BusinessStage: read(p.Profile.BusinessStage, p.Defaults.BusinessStage),
		TeamSize:      read(p.Profile.TeamSize, p.Defaults.TeamSize),
		Region:        read(p.Profile.Region, p.Defaults.Region),
		Revenue:       read(p.Profile.Revenue, p.Defaults.Revenue),
	}
}

// ContextLabel describes the profile d, e.g.
// "For cooperatives in crafts at the growth stage".
func (p *Personalization) ContextLabel(d Demographics) string {
	return fmt.Sprintf("For %s in %s at %s",
		p.OrgTypeLabels.Label(d.OrgType),
		p.IndustryLabels.Label(d.Industry),
		p.StageLabels.Label(d.BusinessStage),
	)
}

func (p *Personalization) area(construct string, labels map[string]RecommendationLabel) string {
	if a, ok := p.Areas[construct]; ok && a != "" {
		return a
	}
	if l, ok := labels[construct]; ok && l.Area != "" {
		return l.Area
	}
	return construct
}

// BestVariant returns the variant that fits d best; the earliest wins ties.
// When the best score is below GenericMatchScore the first generic variant
// is preferred if there is one. It reports false for an empty list.
func BestVariant(variants []RecommendationVariant, d Demographics) (RecommendationVariant, bool) {
	if len(variants) == 0 {
		return RecommendationVariant{}, false
	}

	best, bestScore := 0, variants[0].Context.MatchScore(d)
	for i := 1; i < len(variants); i++ {
		if s := variants[i].Context.MatchScore(d); s > bestScore {
			best, bestScore = i, s
		}
	}

	if bestScore < GenericMatchScore {
		for _, v := range variants {
			if v.Context.Generic() {
				return v, true
			}
		}
	}
	return variants[best], true
}

// Personalize selects weak constructs exactly as Recommend does and words
// each one with its best variant for d. Constructs without variants get a
// generic "Improve <area>" entry, so every selected construct is returned.
func Personalize(
	constructScores map[string]float64,
	labels map[string]RecommendationLabel,
	p *Personalization,
	d Demographics,
	opts RecommendOptions,
) []PersonalizedRecommendation {
	opts = opts.withDefaults()
	candidates := selectWeak(constructScores, opts)
	contextLabel := p.ContextLabel(d)

	recs := make([]PersonalizedRecommendation, 0, len(candidates))
	for i, c := range candidates {
		area := p.area(c.construct, labels)
		rec := PersonalizedRecommendation{
			Priority:     i + 1,
			Construct:    c.construct,
			Area:         area,
			CurrentScore: roundScore(c.score * 100),
			TargetScore:  opts.Target,
			ContextLabel: contextLabel,
			CaseStudies:  []string{},
		}

		if v, ok := BestVariant(p.Variants[c.construct], d); ok {
			rec.Title = v.Title
			rec.Description = v.Description
			rec.ActionSteps = append([]ActionStep(nil), v.ActionSteps...)
			rec.Impact = v.Impact
			rec.VariantID = v.ID
			rec.CaseStudies = append(rec.CaseStudies, v.CaseStudies...)
		} else {
			rec.Title = "Improve " + area
			rec.Description = fallbackDescription
			rec.ActionSteps = []ActionStep{
				{Action: "Assess your current situation in this area", Timeframe: TimeframeThisWeek},
				{Action: "Identify specific improvement opportunities", Timeframe: TimeframeThisMonth},
				{Action: "Implement changes and track progress", Timeframe: TimeframeOngoing},
			}
			rec.Impact = fallbackImpact
		}

		recs = append(recs, rec)
	}

	return recs
}

// ThisWeekActions collects the this-week steps of recs in order, at most limit.
func ThisWeekActions(recs []PersonalizedRecommendation, limit int) []ActionItem {
	out := []ActionItem{}
	for _, r := range recs {
		for _, s := range r.ActionSteps {
			if len(out) == limit {
				return out
			}
			if s.Timeframe == TimeframeThisWeek {
				out = append(out, ActionItem{Area: r.Area, Action: s.Action})
			}
		}
	}
	return out
}

// QuickWins returns the first this-week step of each of the top n
// recommendations, with the recommendation's impact.
func QuickWins(recs []PersonalizedRecommendation, n int) []ActionItem {
	if len(recs) > n {
		recs = recs[:n]
	}
	out := []ActionItem{}
	for _, r := range recs {
		for _, s := range r.ActionSteps {
			if s.Timeframe == TimeframeThisWeek {
				out = append(out, ActionItem{Area: r.Area, Action: s.Action, Impact: r.Impact})
				break
			}
		}
	}
	return out
}
