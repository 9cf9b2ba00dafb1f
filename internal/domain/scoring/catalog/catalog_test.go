package catalog

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadBuiltin(t *testing.T) *scoring.Registry {
	t.Helper()
	registry, err := Load()
	require.NoError(t, err)
	return registry
}

func TestLoadBuiltinCatalogue(t *testing.T) {
	t.Parallel()

	registry := loadBuiltin(t)
	assert.Equal(t, DefaultTypes, registry.Types())

	testCases := []struct {
		assessmentType string
		likert         int
		categorical    int
		sections       int
		bands          string
		unlock         string
	}{
		{TypeCIRF, 34, 6, 5, scoring.PrimaryBandTable, ""},
		{TypeCIMM, 20, 0, 4, scoring.SecondaryBandTable, TypeCIRF},
		{TypeCIRA, 20, 0, 4, scoring.SecondaryBandTable, TypeCIRF},
		{TypeTBL, 20, 0, 3, scoring.SecondaryBandTable, TypeCIRF},
		{TypeCISS, 18, 0, 4, scoring.SecondaryBandTable, TypeCIRF},
		{TypePricing, 15, 0, 4, scoring.SecondaryBandTable, TypeCIRF},
	}

	for _, tc := range testCases {
		t.Run(tc.assessmentType, func(t *testing.T) {
			t.Parallel()
			cfg, err := registry.Config(tc.assessmentType)
			require.NoError(t, err)

			var likert, categorical int
			for _, q := range cfg.Questions {
				if q.Scored() {
					likert++
				} else {
					categorical++
				}
				assert.NotEmpty(t, q.Text, q.ID)
			}
			assert.Equal(t, tc.likert, likert)
			assert.Equal(t, tc.categorical, categorical)
			assert.Len(t, cfg.Sections, tc.sections)
			assert.Equal(t, tc.bands, cfg.Bands.Name)
			assert.Equal(t, tc.unlock, cfg.UnlockRequirement)

			var total float64
			for _, s := range cfg.Sections {
				total += s.Weight
			}
			assert.InDelta(t, 1.0, total, 1e-9)
		})
	}
}

func TestCIRFTables(t *testing.T) {
	t.Parallel()

	cfg, err := loadBuiltin(t).Config(TypeCIRF)
	require.NoError(t, err)

	assert.Equal(t, 1.5, cfg.ConstructWeight("adaptiveResponse"))
	assert.Equal(t, 0.9, cfg.ConstructWeight("culturalMembership"))
	assert.Equal(t, 1.0, cfg.ConstructWeight("culturalMeaning"))
	assert.Len(t, cfg.Synergies, 5)
	assert.Len(t, cfg.Labels, 10)

	weights := cfg.SectionWeights()
	assert.Equal(t, 0.0, weights["demographics"])
	assert.Equal(t, 0.30, weights["organizationalCapacities"])
}

func TestCIRFScenarios(t *testing.T) {
	t.Parallel()

	registry := loadBuiltin(t)
	svc := scoring.NewService(registry)
	cfg, err := registry.Config(TypeCIRF)
	require.NoError(t, err)

	uniform := func(v int) scoring.AnswerSet {
		answers := scoring.AnswerSet{}
		for _, q := range cfg.Questions {
			if q.Scored() {
				answers[q.ID] = scoring.IntAnswer(v)
			}
		}
		return answers
	}

	t.Run("all midpoint", func(t *testing.T) {
		t.Parallel()
		result, err := svc.Score(TypeCIRF, uniform(4))
		require.NoError(t, err)
		assert.Equal(t, 50, result.OverallScore)
		assert.Empty(t, result.ActiveSynergies)
		assert.Equal(t, "Medium", result.Interpretation.Level)
		// five weakest by name, two of which have no label
		require.Len(t, result.Recommendations, 3)
		assert.Equal(t, "Adaptive Capacity", result.Recommendations[0].Area)
		assert.Equal(t, 50, result.Recommendations[0].CurrentScore)
		assert.Len(t, result.Radar, 4)
		// the personalized list keeps the unlabelled constructs
		require.Len(t, result.Personalized, 5)
		assert.Equal(t, "Improve Alliance Networks", result.Personalized[1].Title)
	})

	t.Run("all maximum", func(t *testing.T) {
		t.Parallel()
		result, err := svc.Score(TypeCIRF, uniform(7))
		require.NoError(t, err)
		assert.Equal(t, 100, result.OverallScore)
		assert.Len(t, result.ActiveSynergies, 5)
		assert.Equal(t, 36, result.SynergyBonusPercent)
		assert.Equal(t, "Excellent", result.Interpretation.Level)
		assert.Equal(t, 98.6, result.Interpretation.SuccessRate)
		assert.Empty(t, result.Recommendations)
	})

	t.Run("missing section", func(t *testing.T) {
		t.Parallel()
		answers := uniform(4)
		for _, q := range cfg.Questions {
			if q.Section == "organizationalCapacities" {
				delete(answers, q.ID)
			}
		}
		result, err := svc.Score(TypeCIRF, answers)
		require.NoError(t, err)
		// 50 * (1 - 0.30)
		assert.Equal(t, 35, result.OverallScore)
		assert.Equal(t, "Low", result.Interpretation.Level)
	})
}

func TestCIRFPersonalization(t *testing.T) {
	t.Parallel()

	registry := loadBuiltin(t)
	cfg, err := registry.Config(TypeCIRF)
	require.NoError(t, err)
	pz := cfg.Personalization
	require.NotNil(t, pz)

	assert.Equal(t, "demo-org-type", pz.Profile.OrgType)
	assert.Equal(t, "demo-sector", pz.Profile.Industry)
	assert.Equal(t, "startup", pz.Defaults.BusinessStage)
	assert.Len(t, pz.Areas, 34)
	assert.Len(t, pz.Variants, 17)

	aliases := map[string]string{
		"practitionerRelationships": "practitionerAccess",
		"learningFromSetbacks":      "adaptiveResponse",
		"recoverySpeed":             "adaptiveResponse",
		"postShockStrength":         "adaptiveResponse",
		"communityOwnership":        "communityDecisionMaking",
		"revenueRetention":          "financialReserves",
	}
	for construct, group := range aliases {
		assert.Equal(t, pz.Variants[group], pz.Variants[construct], construct)
	}

	var total int
	for _, variants := range pz.Variants {
		for _, v := range variants {
			assert.NotEmpty(t, v.ActionSteps, v.ID)
		}
	}
	for _, group := range []string{
		"traditionalKnowledge", "practitionerAccess", "culturalAuthenticity", "communityInvolvement",
		"productDevelopment", "digitalDistribution", "adaptiveResponse", "ipProtection",
		"financialReserves", "communityDecisionMaking", "intergenerationalPlanning",
	} {
		total += len(pz.Variants[group])
	}
	assert.Equal(t, 44, total)

	testCases := []struct {
		name     string
		profile  scoring.AnswerSet
		label    string
		variants []string
	}{
		{
			name:     "default profile",
			profile:  scoring.AnswerSet{},
			label:    "For cultural initiatives in multi-sector initiatives at the startup stage",
			variants: []string{"adapt-startup", "", "", "cdm-default", "comm-default"},
		},
		{
			name: "growing cooperative",
			profile: scoring.AnswerSet{
				"demo-org-type": scoring.TextAnswer("cooperative"),
				"demo-stage":    scoring.TextAnswer("growth"),
			},
			label:    "For cooperatives in multi-sector initiatives at the growth stage",
			variants: []string{"adapt-coop", "", "", "cdm-coop", "comm-coop-deepen"},
		},
	}

	svc := scoring.NewService(registry)
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			answers := scoring.AnswerSet{}
			for _, q := range cfg.Questions {
				if q.Scored() {
					answers[q.ID] = scoring.IntAnswer(4)
				}
			}
			for id, a := range tc.profile {
				answers[id] = a
			}

			result, err := svc.Score(TypeCIRF, answers)
			require.NoError(t, err)
			require.Len(t, result.Personalized, len(tc.variants))

			var got []string
			for _, r := range result.Personalized {
				got = append(got, r.VariantID)
				assert.Equal(t, tc.label, r.ContextLabel)
			}
			assert.Equal(t, tc.variants, got)
			assert.Equal(t, "Adaptive Capacity", result.Personalized[0].Area)
		})
	}
}

func TestDecodeRejectsUnknownVariantGroup(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`
type: x
sections:
  - id: s
    label: S
    weight: 1
questions:
  - id: q
    section: s
    construct: c
    text: Q
personalization:
  variants:
    known:
      - id: v
        title: V
  constructs:
    c: missing
`))
	var ce *scoring.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Contains(t, ce.Reason, "missing")
}

func TestCIRAReverseScoredBarriers(t *testing.T) {
	t.Parallel()

	registry := loadBuiltin(t)
	cfg, err := registry.Config(TypeCIRA)
	require.NoError(t, err)

	answers := scoring.AnswerSet{}
	for _, q := range cfg.Questions {
		answers[q.ID] = scoring.IntAnswer(7)
	}

	result, err := scoring.NewService(registry).Score(TypeCIRA, answers)
	require.NoError(t, err)

	barriers, ok := result.Section("barriersAssessment")
	require.True(t, ok)
	assert.Equal(t, 0.0, barriers.Score)
	assert.Equal(t, 75, result.OverallScore)
	assert.Equal(t, "Established", result.Interpretation.Level)
}

func TestPricingSectionAdvice(t *testing.T) {
	t.Parallel()

	registry := loadBuiltin(t)
	cfg, err := registry.Config(TypePricing)
	require.NoError(t, err)

	answers := scoring.AnswerSet{}
	for _, q := range cfg.Questions {
		switch q.Section {
		case "valueProposition":
			answers[q.ID] = scoring.IntAnswer(7)
		case "priceOptimization":
			answers[q.ID] = scoring.IntAnswer(2)
		default:
			answers[q.ID] = scoring.IntAnswer(6)
		}
	}

	result, err := scoring.NewService(registry).Score(TypePricing, answers)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Develop a more deliberate pricing strategy with regular reviews",
		"Your value proposition is strong - consider premium pricing strategies",
	}, result.SectionAdvice)
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`
type: x
band_table: secondary
colour: blue
sections:
  - id: s
    label: S
    weight: 1
questions:
  - id: q
    section: s
    construct: c
    text: Q
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, scoring.ErrConfiguration))
}

func TestDecodeRejectsBadAdvice(t *testing.T) {
	t.Parallel()

	_, err := Decode([]byte(`
type: x
sections:
  - id: s
    label: S
    weight: 1
section_advice:
  - message: m
    when:
      - section: s
        below: 10
        above: 5
questions:
  - id: q
    section: s
    construct: c
    text: Q
`))
	var ce *scoring.ConfigurationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, "x", ce.AssessmentType)
}

func TestLoadFS(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"mini.yaml": {Data: []byte(`
type: mini
name: Mini
band_table: primary
sections:
  - id: s
    label: S
    weight: 1
questions:
  - id: q
    section: s
    construct: c
    text: Q
`)},
		"wrong.yaml": {Data: []byte(`
type: other
sections:
  - id: s
    label: S
    weight: 1
questions: []
`)},
	}

	registry, err := LoadFS(fsys, "mini")
	require.NoError(t, err)
	result, err := scoring.NewService(registry).Score("mini", scoring.AnswerSet{"q": scoring.IntAnswer(4)})
	require.NoError(t, err)
	assert.Equal(t, 50, result.OverallScore)

	_, err = LoadFS(fsys, "absent")
	assert.ErrorIs(t, err, ErrMissingDocument)

	_, err = LoadFS(fsys, "wrong")
	assert.ErrorIs(t, err, scoring.ErrConfiguration)
}
