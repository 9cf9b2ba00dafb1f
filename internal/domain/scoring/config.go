package scoring

import (
	"maps"
	"slices"
)

// QuestionKind distinguishes scored Likert items from unscored context items.
type QuestionKind string

const (
	// KindLikert is a 1-7 rating that contributes to its construct.
	KindLikert QuestionKind = "likert"
	// KindCategorical is a free or multiple choice item that is never scored.
	KindCategorical QuestionKind = "categorical"
)

// Question is one item of an assessment.
type Question struct {
	ID        string       `json:"id"`
	Section   string       `json:"section"`
	Construct string       `json:"construct,omitempty"`
	Kind      QuestionKind `json:"kind"`
	Text      string       `json:"text"`
	Help      string       `json:"help,omitempty"`

	// Weight overrides the construct weight for this question when > 0.
	Weight  float64 `json:"weight,omitempty"`
	Reverse bool    `json:"reverse,omitempty"`
}

// Scored reports whether the question contributes to a construct score.
func (q Question) Scored() bool {
	return q.Kind != KindCategorical
}

// Section is a named group of constructs with its composite weight.
// A section with zero weight is reported but never scored.
type Section struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	ShortLabel string  `json:"shortLabel,omitempty"`
	RadarLabel string  `json:"radarLabel,omitempty"`
	Weight     float64 `json:"weight"`
}

// Scored reports whether the section takes part in the composite.
func (s Section) Scored() bool {
	return s.Weight > 0
}

// SynergyPair grants an additive bonus when both constructs reach the threshold.
type SynergyPair struct {
	ConstructA  string  `json:"constructA"`
	ConstructB  string  `json:"constructB"`
	Bonus       float64 `json:"bonus"`
	Description string  `json:"description"`

	// Threshold overrides DefaultSynergyThreshold when > 0.
	Threshold float64 `json:"threshold,omitempty"`
}

// RecommendationLabel is the human readable advice for a weak construct.
type RecommendationLabel struct {
	Area   string `json:"area"`
	Action string `json:"action"`
	Impact string `json:"impact"`
}

// Comparison is the operator of an AdviceCondition.
type Comparison string

const (
	// Below holds when the section score is strictly less than the value.
	Below Comparison = "below"
	// Above holds when the section score is strictly greater than the value.
	Above Comparison = "above"
)

// AdviceCondition compares one section score against a fixed value.
type AdviceCondition struct {
	Section    string     `json:"section"`
	Comparison Comparison `json:"comparison"`
	Value      float64    `json:"value"`
}

// AdviceRule emits Message when every condition holds.
type AdviceRule struct {
	Message string            `json:"message"`
	When    []AdviceCondition `json:"when"`
}

// QuestionConfig holds every static table for one assessment type.
// NewRegistry keeps its own copy, so callers may modify a config after
// registering it.
type QuestionConfig struct {
	Type        string
	Name        string
	FullName    string
	Description string

	// UnlockRequirement names an assessment type that must be completed first.
	UnlockRequirement string

	Bands            *BandTable
	Sections         []Section
	ConstructWeights map[string]float64
	Synergies        []SynergyPair
	Labels           map[string]RecommendationLabel
	SectionAdvice    []AdviceRule
	Questions        []Question

	// Personalization enables Result.Personalized when set.
	Personalization *Personalization
}

// ConstructWeight returns the weight of a construct, 1.0 when unset.
func (c *QuestionConfig) ConstructWeight(construct string) float64 {
	if w, ok := c.ConstructWeights[construct]; ok && w > 0 {
		return w
	}
	return 1.0
}

// QuestionWeight returns the effective weight of a question: its own override
// if set, otherwise the weight of its construct.
func (c *QuestionConfig) QuestionWeight(q Question) float64 {
	if q.Weight > 0 {
		return q.Weight
	}
	return c.ConstructWeight(q.Construct)
}

// SectionWeights returns the section weight table keyed by section id.
func (c *QuestionConfig) SectionWeights() map[string]float64 {
	weights := make(map[string]float64, len(c.Sections))
	for _, s := range c.Sections {
		weights[s.ID] = s.Weight
	}
	return weights
}

// Validate checks the internal consistency of the configuration. Any defect
// is returned as a *ConfigurationError.
func (c *QuestionConfig) Validate() error {
	_, err := compile(c)
	return err
}

// Clone returns a deep copy of c.
func (c *QuestionConfig) Clone() *QuestionConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.Bands != nil {
		bands := *c.Bands
		bands.Bands = slices.Clone(c.Bands.Bands)
		out.Bands = &bands
	}
	out.Sections = slices.Clone(c.Sections)
	out.ConstructWeights = maps.Clone(c.ConstructWeights)
	out.Synergies = slices.Clone(c.Synergies)
	out.Labels = maps.Clone(c.Labels)
	out.Questions = slices.Clone(c.Questions)
	if c.SectionAdvice != nil {
		out.SectionAdvice = make([]AdviceRule, len(c.SectionAdvice))
		for i, rule := range c.SectionAdvice {
			rule.When = slices.Clone(rule.When)
			out.SectionAdvice[i] = rule
		}
	}
	out.Personalization = c.Personalization.clone()
	return &out
}

func (p *Personalization) clone() *Personalization {
	if p == nil {
		return nil
	}
	out := *p
	out.OrgTypeLabels.Values = maps.Clone(p.OrgTypeLabels.Values)
	out.IndustryLabels.Values = maps.Clone(p.IndustryLabels.Values)
	out.StageLabels.Values = maps.Clone(p.StageLabels.Values)
	out.Areas = maps.Clone(p.Areas)
	if p.Variants != nil {
		out.Variants = make(map[string][]RecommendationVariant, len(p.Variants))
		for construct, variants := range p.Variants {
			cp := make([]RecommendationVariant, len(variants))
			for i, v := range variants {
				v.Context = VariantContext{
					OrgTypes:       slices.Clone(v.Context.OrgTypes),
					Industries:     slices.Clone(v.Context.Industries),
					BusinessStages: slices.Clone(v.Context.BusinessStages),
					TeamSizes:      slices.Clone(v.Context.TeamSizes),
					Regions:        slices.Clone(v.Context.Regions),
				}
				v.ActionSteps = slices.Clone(v.ActionSteps)
				v.CaseStudies = slices.Clone(v.CaseStudies)
				cp[i] = v
			}
			out.Variants[construct] = cp
		}
	}
	return &out
}
