package scoring

import (
	"fmt"
	"sort"
)

// Band is one interpretation level. A score belongs to the band with the
// highest Min that does not exceed it.
type Band struct {
	Min         float64
	Level       string
	SuccessRate float64
	Description string
	ColorTag    string
}

// Interpretation is the banded reading of an overall score.
type Interpretation struct {
	Level       string  `json:"level"`
	SuccessRate float64 `json:"successRate,omitempty"`
	Description string  `json:"description"`
	ColorTag    string  `json:"color"`
}

// BandTable maps scores onto ordered bands.
type BandTable struct {
	Name  string
	Bands []Band
}

// Validate checks that the bands start at 0 and ascend strictly, so every
// score in [0,100] falls into exactly one band.
func (t *BandTable) Validate() error {
	if t == nil || len(t.Bands) == 0 {
		return fmt.Errorf("band table has no bands")
	}
	if t.Bands[0].Min > 0 {
		return fmt.Errorf("band table %q starts at %g, want 0", t.Name, t.Bands[0].Min)
	}
	for i := 1; i < len(t.Bands); i++ {
		if t.Bands[i].Min <= t.Bands[i-1].Min {
			return fmt.Errorf("band table %q is not strictly ascending at %q", t.Name, t.Bands[i].Level)
		}
	}
	for _, b := range t.Bands {
		if b.Level == "" {
			return fmt.Errorf("band table %q has a band without a level", t.Name)
		}
	}
	return nil
}

// Interpret returns the band for score. Scores below the first bound fall
// into the first band.
func (t *BandTable) Interpret(score float64) Interpretation {
	i := sort.Search(len(t.Bands), func(i int) bool {
		return t.Bands[i].Min > score
	}) - 1
	if i < 0 {
		i = 0
	}

	b := t.Bands[i]
	return Interpretation{
		Level:       b.Level,
		SuccessRate: b.SuccessRate,
		Description: b.Description,
		ColorTag:    b.ColorTag,
	}
}

// Band table names used by assessment catalogues.
const (
	PrimaryBandTable   = "primary"
	SecondaryBandTable = "secondary"
)

// PrimaryBands returns the six-level table of the flagship assessment, with
// the observed success rate of each level.
func PrimaryBands() *BandTable {
	return &BandTable{
		Name: PrimaryBandTable,
		Bands: []Band{
			{
				Min:         0,
				Level:       "Critical",
				SuccessRate: 15.7,
				Description: "High risk of failure. Focus on building foundation components before scaling. Critical gaps exist in multiple dimensions that require immediate attention.",
				ColorTag:    "text-red-600",
			},
			{
				Min:         25,
				Level:       "Low",
				SuccessRate: 28.2,
				Description: "Significant gaps exist across key dimensions. Prioritize strengthening cultural capital and organizational capacities before pursuing expansion.",
				ColorTag:    "text-orange-600",
			},
			{
				Min:         40,
				Level:       "Medium",
				SuccessRate: 51.2,
				Description: "Approaching critical threshold. Focused improvements in weak areas can yield dramatic gains in resilience outcomes.",
				ColorTag:    "text-yellow-600",
			},
			{
				Min:         55,
				Level:       "Medium-High",
				SuccessRate: 78.4,
				Description: "Above average resilience profile. Continue building on strengths while addressing remaining gaps in organizational capacity.",
				ColorTag:    "text-lime-600",
			},
			{
				Min:         70,
				Level:       "High",
				SuccessRate: 92.3,
				Description: "Strong cultural innovation resilience. Focus on transformative and generative capacities to maximize long-term impact.",
				ColorTag:    "text-green-600",
			},
			{
				Min:         85,
				Level:       "Excellent",
				SuccessRate: 98.6,
				Description: "Outstanding cultural innovation resilience. Your initiative serves as a model for others. Focus on knowledge sharing and scaling impact.",
				ColorTag:    "text-emerald-600",
			},
		},
	}
}

// SecondaryBands returns the four-level table shared by the follow-up
// assessments. It carries no success rates.
func SecondaryBands() *BandTable {
	return &BandTable{
		Name: SecondaryBandTable,
		Bands: []Band{
			{Min: 0, Level: "Emerging", Description: "Early stage with foundational work needed.", ColorTag: "terracotta"},
			{Min: 40, Level: "Developing", Description: "Good progress with significant growth opportunities.", ColorTag: "gold"},
			{Min: 60, Level: "Established", Description: "Solid performance with some areas for improvement.", ColorTag: "ocean"},
			{Min: 80, Level: "Thriving", Description: "Excellent performance with strong foundations across all dimensions.", ColorTag: "sage"},
		},
	}
}

// BandTableByName returns a shipped band table.
func BandTableByName(name string) (*BandTable, bool) {
	switch name {
	case PrimaryBandTable:
		return PrimaryBands(), true
	case SecondaryBandTable:
		return SecondaryBands(), true
	default:
		return nil, false
	}
}
