// Package catalog provides the built-in assessment configurations. Each
// assessment type is a YAML document embedded in the binary and decoded into
// a scoring.QuestionConfig.
package catalog

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/phrazzld/cirf-api/internal/domain/scoring"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var builtin embed.FS

// Built-in assessment types, in catalogue order.
const (
	TypeCIRF    = "cirf"
	TypeCIMM    = "cimm"
	TypeCIRA    = "cira"
	TypeTBL     = "tbl"
	TypeCISS    = "ciss"
	TypePricing = "pricing"
)

// DefaultTypes lists the built-in assessment types in catalogue order.
var DefaultTypes = []string{TypeCIRF, TypeCIMM, TypeCIRA, TypeTBL, TypeCISS, TypePricing}

// ErrMissingDocument is returned when a requested type has no document.
var ErrMissingDocument = errors.New("catalogue document not found")

// document is the YAML form of one assessment type.
type document struct {
	Type              string              `yaml:"type"`
	Name              string              `yaml:"name"`
	FullName          string              `yaml:"full_name"`
	Description       string              `yaml:"description"`
	BandTable         string              `yaml:"band_table"`
	UnlockRequirement string              `yaml:"unlock_requirement"`
	Sections          []sectionDoc        `yaml:"sections"`
	ConstructWeights  map[string]float64  `yaml:"construct_weights"`
	Synergies         []synergyDoc        `yaml:"synergies"`
	Labels            map[string]labelDoc `yaml:"labels"`
	SectionAdvice     []adviceDoc         `yaml:"section_advice"`
	Questions         []questionDoc       `yaml:"questions"`
	Personalization   *personalizationDoc `yaml:"personalization"`
}

type sectionDoc struct {
	ID         string  `yaml:"id"`
	Label      string  `yaml:"label"`
	ShortLabel string  `yaml:"short_label"`
	RadarLabel string  `yaml:"radar_label"`
	Weight     float64 `yaml:"weight"`
}

type synergyDoc struct {
	ConstructA  string  `yaml:"construct_a"`
	ConstructB  string  `yaml:"construct_b"`
	Bonus       float64 `yaml:"bonus"`
	Description string  `yaml:"description"`
	Threshold   float64 `yaml:"threshold"`
}

type labelDoc struct {
	Area   string `yaml:"area"`
	Action string `yaml:"action"`
	Impact string `yaml:"impact"`
}

type adviceDoc struct {
	Message string         `yaml:"message"`
	When    []conditionDoc `yaml:"when"`
}

// conditionDoc sets exactly one of Below or Above.
type conditionDoc struct {
	Section string   `yaml:"section"`
	Below   *float64 `yaml:"below"`
	Above   *float64 `yaml:"above"`
}

type questionDoc struct {
	ID        string  `yaml:"id"`
	Section   string  `yaml:"section"`
	Construct string  `yaml:"construct"`
	Kind      string  `yaml:"kind"`
	Text      string  `yaml:"text"`
	Help      string  `yaml:"help"`
	Weight    float64 `yaml:"weight"`
	Reverse   bool    `yaml:"reverse"`
}

// personalizationDoc declares variants once per group; constructs maps each
// construct to the group it draws from, so several constructs can share one.
type personalizationDoc struct {
	Profile       profileDoc              `yaml:"profile"`
	Defaults      demographicsDoc         `yaml:"defaults"`
	ContextLabels contextLabelsDoc        `yaml:"context_labels"`
	Areas         map[string]string       `yaml:"areas"`
	Variants      map[string][]variantDoc `yaml:"variants"`
	Constructs    map[string]string       `yaml:"constructs"`
}

type profileDoc struct {
	OrgType       string `yaml:"org_type"`
	Industry      string `yaml:"industry"`
	BusinessStage string `yaml:"business_stage"`
	TeamSize      string `yaml:"team_size"`
	Region        string `yaml:"region"`
	Revenue       string `yaml:"revenue"`
}

type demographicsDoc profileDoc

type contextLabelsDoc struct {
	OrgTypes       labelSetDoc `yaml:"org_types"`
	Industries     labelSetDoc `yaml:"industries"`
	BusinessStages labelSetDoc `yaml:"business_stages"`
}

type labelSetDoc struct {
	Fallback string            `yaml:"fallback"`
	Values   map[string]string `yaml:"values"`
}

type variantDoc struct {
	ID          string          `yaml:"id"`
	Context     variantCtxDoc   `yaml:"context"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	ActionSteps []actionStepDoc `yaml:"action_steps"`
	Impact      string          `yaml:"impact"`
	CaseStudies []string        `yaml:"case_studies"`
}

type variantCtxDoc struct {
	OrgTypes       []string `yaml:"org_types"`
	Industries     []string `yaml:"industries"`
	BusinessStages []string `yaml:"business_stages"`
	TeamSizes      []string `yaml:"team_sizes"`
	Regions        []string `yaml:"regions"`
}

type actionStepDoc struct {
	Action    string `yaml:"action"`
	Timeframe string `yaml:"timeframe"`
}

// Load decodes and validates the built-in catalogue.
func Load() (*scoring.Registry, error) {
	sub, err := fs.Sub(builtin, "data")
	if err != nil {
		return nil, fmt.Errorf("open built-in catalogue: %w", err)
	}
	return LoadFS(sub, DefaultTypes...)
}

// LoadFS decodes <type>.yaml from fsys for every type and builds a registry.
func LoadFS(fsys fs.FS, types ...string) (*scoring.Registry, error) {
	configs := make([]*scoring.QuestionConfig, 0, len(types))
	for _, t := range types {
		data, err := fs.ReadFile(fsys, t+".yaml")
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: %s", ErrMissingDocument, t)
			}
			return nil, fmt.Errorf("read catalogue document %s: %w", t, err)
		}

		cfg, err := Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decode catalogue document %s: %w", t, err)
		}
		if cfg.Type != t {
			return nil, &scoring.ConfigurationError{
				AssessmentType: t,
				Reason:         fmt.Sprintf("document declares type %q", cfg.Type),
			}
		}
		configs = append(configs, cfg)
	}

	return scoring.NewRegistry(configs...)
}

// Decode converts one YAML document into a validated QuestionConfig.
// Unknown keys are rejected.
func Decode(data []byte) (*scoring.QuestionConfig, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", scoring.ErrConfiguration, err)
	}

	cfg, err := doc.toConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (d *document) toConfig() (*scoring.QuestionConfig, error) {
	bandName := d.BandTable
	if bandName == "" {
		bandName = scoring.SecondaryBandTable
	}
	bands, ok := scoring.BandTableByName(bandName)
	if !ok {
		return nil, &scoring.ConfigurationError{
			AssessmentType: d.Type,
			Reason:         fmt.Sprintf("unknown band table %q", d.BandTable),
		}
	}

	cfg := &scoring.QuestionConfig{
		Type:              d.Type,
		Name:              d.Name,
		FullName:          d.FullName,
		Description:       d.Description,
		UnlockRequirement: d.UnlockRequirement,
		Bands:             bands,
		Sections:          make([]scoring.Section, 0, len(d.Sections)),
		ConstructWeights:  make(map[string]float64, len(d.ConstructWeights)),
		Synergies:         make([]scoring.SynergyPair, 0, len(d.Synergies)),
		Labels:            make(map[string]scoring.RecommendationLabel, len(d.Labels)),
		SectionAdvice:     make([]scoring.AdviceRule, 0, len(d.SectionAdvice)),
		Questions:         make([]scoring.Question, 0, len(d.Questions)),
	}

	for _, s := range d.Sections {
		cfg.Sections = append(cfg.Sections, scoring.Section(s))
	}
	for c, w := range d.ConstructWeights {
		cfg.ConstructWeights[c] = w
	}
	for _, s := range d.Synergies {
		cfg.Synergies = append(cfg.Synergies, scoring.SynergyPair(s))
	}
	for c, l := range d.Labels {
		cfg.Labels[c] = scoring.RecommendationLabel(l)
	}

	for _, a := range d.SectionAdvice {
		rule := scoring.AdviceRule{Message: a.Message}
		for _, c := range a.When {
			cond, err := c.toCondition(d.Type)
			if err != nil {
				return nil, err
			}
			rule.When = append(rule.When, cond)
		}
		cfg.SectionAdvice = append(cfg.SectionAdvice, rule)
	}

	for _, q := range d.Questions {
		kind := scoring.QuestionKind(q.Kind)
		if kind == "" {
			kind = scoring.KindLikert
		}
		cfg.Questions = append(cfg.Questions, scoring.Question{
			ID:        q.ID,
			Section:   q.Section,
			Construct: q.Construct,
			Kind:      kind,
			Text:      q.Text,
			Help:      q.Help,
			Weight:    q.Weight,
			Reverse:   q.Reverse,
		})
	}

	if d.Personalization != nil {
		pz, err := d.Personalization.toPersonalization(d.Type)
		if err != nil {
			return nil, err
		}
		cfg.Personalization = pz
	}

	return cfg, nil
}

func (p *personalizationDoc) toPersonalization(assessmentType string) (*scoring.Personalization, error) {
	groups := make(map[string][]scoring.RecommendationVariant, len(p.Variants))
	for name, docs := range p.Variants {
		variants := make([]scoring.RecommendationVariant, 0, len(docs))
		for _, v := range docs {
			steps := make([]scoring.ActionStep, 0, len(v.ActionSteps))
			for _, s := range v.ActionSteps {
				steps = append(steps, scoring.ActionStep(s))
			}
			variants = append(variants, scoring.RecommendationVariant{
				ID:          v.ID,
				Context:     scoring.VariantContext(v.Context),
				Title:       v.Title,
				Description: v.Description,
				ActionSteps: steps,
				Impact:      v.Impact,
				CaseStudies: v.CaseStudies,
			})
		}
		groups[name] = variants
	}

	pz := &scoring.Personalization{
		Profile:        scoring.ProfileQuestions(p.Profile),
		Defaults:       scoring.Demographics(p.Defaults),
		OrgTypeLabels:  scoring.ContextLabels(p.ContextLabels.OrgTypes),
		IndustryLabels: scoring.ContextLabels(p.ContextLabels.Industries),
		StageLabels:    scoring.ContextLabels(p.ContextLabels.BusinessStages),
		Areas:          p.Areas,
		Variants:       make(map[string][]scoring.RecommendationVariant, len(p.Constructs)),
	}
	for construct, group := range p.Constructs {
		variants, ok := groups[group]
		if !ok {
			return nil, &scoring.ConfigurationError{
				AssessmentType: assessmentType,
				Reason:         fmt.Sprintf("construct %q uses unknown variant group %q", construct, group),
			}
		}
		pz.Variants[construct] = variants
	}
	return pz, nil
}

func (c conditionDoc) toCondition(assessmentType string) (scoring.AdviceCondition, error) {
	switch {
	case c.Below != nil && c.Above == nil:
		return scoring.AdviceCondition{Section: c.Section, Comparison: scoring.Below, Value: *c.Below}, nil
	case c.Above != nil && c.Below == nil:
		return scoring.AdviceCondition{Section: c.Section, Comparison: scoring.Above, Value: *c.Above}, nil
	default:
		return scoring.AdviceCondition{}, &scoring.ConfigurationError{
			AssessmentType: assessmentType,
			Reason:         fmt.Sprintf("advice condition on %q needs exactly one of below or above", c.Section),
		}
	}
}
