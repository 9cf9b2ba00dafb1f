package scoring

import (
	"errors"
	"math"
)

// sectionPlan groups the questions of one section by construct, in the
// order constructs first appear.
type sectionPlan struct {
	section     Section
	questions   []Question
	constructs  []string
	byConstruct map[string][]Question
}

// plan is a validated, pre-indexed QuestionConfig.
type plan struct {
	cfg      *QuestionConfig
	sections []sectionPlan
	weights  map[string]float64
}

// Evaluate validates cfg and scores answers against it. Configuration
// defects are returned as *ConfigurationError; answer defects are reported
// in Result.Skipped.
func Evaluate(cfg *QuestionConfig, answers AnswerSet) (*Result, error) {
	p, err := compile(cfg)
	if err != nil {
		return nil, err
	}
	return p.score(answers)
}

func compile(cfg *QuestionConfig) (*plan, error) {
	if cfg == nil {
		return nil, configErrorf("", "configuration is nil")
	}
	t := cfg.Type
	if t == "" {
		return nil, configErrorf("", "assessment type is empty")
	}
	if err := cfg.Bands.Validate(); err != nil {
		return nil, configErrorf(t, "%v", err)
	}
	if cfg.UnlockRequirement == t {
		return nil, configErrorf(t, "assessment cannot require itself")
	}
	if len(cfg.Sections) == 0 {
		return nil, configErrorf(t, "no sections")
	}

	p := &plan{
		cfg:      cfg,
		sections: make([]sectionPlan, 0, len(cfg.Sections)),
		weights:  make(map[string]float64, len(cfg.Sections)),
	}
	sectionIndex := make(map[string]int, len(cfg.Sections))

	var totalWeight float64
	for _, s := range cfg.Sections {
		if s.ID == "" {
			return nil, configErrorf(t, "section without id")
		}
		if _, dup := sectionIndex[s.ID]; dup {
			return nil, configErrorf(t, "duplicate section %q", s.ID)
		}
		if s.Weight < 0 || math.IsNaN(s.Weight) || math.IsInf(s.Weight, 0) {
			return nil, configErrorf(t, "section %q has invalid weight %g", s.ID, s.Weight)
		}
		sectionIndex[s.ID] = len(p.sections)
		p.sections = append(p.sections, sectionPlan{section: s, byConstruct: map[string][]Question{}})
		p.weights[s.ID] = s.Weight
		totalWeight += s.Weight
	}
	if totalWeight == 0 {
		return nil, configErrorf(t, "total section weight is zero")
	}

	for c, w := range cfg.ConstructWeights {
		if w <= 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, configErrorf(t, "construct %q has invalid weight %g", c, w)
		}
	}

	seen := make(map[string]struct{}, len(cfg.Questions))
	constructSection := make(map[string]string)
	for _, q := range cfg.Questions {
		if q.ID == "" {
			return nil, configErrorf(t, "question without id")
		}
		if _, dup := seen[q.ID]; dup {
			return nil, configErrorf(t, "duplicate question %q", q.ID)
		}
		seen[q.ID] = struct{}{}

		idx, ok := sectionIndex[q.Section]
		if !ok {
			return nil, configErrorf(t, "question %q references unknown section %q", q.ID, q.Section)
		}
		if q.Weight < 0 || math.IsNaN(q.Weight) || math.IsInf(q.Weight, 0) {
			return nil, configErrorf(t, "question %q has invalid weight %g", q.ID, q.Weight)
		}

		sp := &p.sections[idx]
		sp.questions = append(sp.questions, q)

		switch q.Kind {
		case KindCategorical:
			continue
		case KindLikert, "":
		default:
			return nil, configErrorf(t, "question %q has unknown kind %q", q.ID, q.Kind)
		}

		if q.Construct == "" {
			return nil, configErrorf(t, "question %q has no construct", q.ID)
		}
		if owner, ok := constructSection[q.Construct]; ok && owner != q.Section {
			return nil, configErrorf(t, "construct %q spans sections %q and %q", q.Construct, owner, q.Section)
		}
		constructSection[q.Construct] = q.Section

		if _, ok := sp.byConstruct[q.Construct]; !ok {
			sp.constructs = append(sp.constructs, q.Construct)
		}
		sp.byConstruct[q.Construct] = append(sp.byConstruct[q.Construct], q)
	}

	for _, pair := range cfg.Synergies {
		for _, c := range []string{pair.ConstructA, pair.ConstructB} {
			if _, ok := constructSection[c]; !ok {
				return nil, configErrorf(t, "synergy %q references unknown construct %q", pair.Description, c)
			}
		}
		if pair.ConstructA == pair.ConstructB {
			return nil, configErrorf(t, "synergy %q pairs construct %q with itself", pair.Description, pair.ConstructA)
		}
		if pair.Bonus < 0 {
			return nil, configErrorf(t, "synergy %q has negative bonus", pair.Description)
		}
		if pair.Threshold < 0 || pair.Threshold > 1 {
			return nil, configErrorf(t, "synergy %q has threshold %g outside [0,1]", pair.Description, pair.Threshold)
		}
	}

	for _, rule := range cfg.SectionAdvice {
		if rule.Message == "" {
			return nil, configErrorf(t, "section advice without message")
		}
		for _, c := range rule.When {
			if _, ok := sectionIndex[c.Section]; !ok {
				return nil, configErrorf(t, "section advice references unknown section %q", c.Section)
			}
			if c.Comparison != Below && c.Comparison != Above {
				return nil, configErrorf(t, "section advice has unknown comparison %q", c.Comparison)
			}
		}
	}

	if err := validatePersonalization(t, cfg.Personalization, cfg.Questions, constructSection); err != nil {
		return nil, err
	}

	return p, nil
}

func validatePersonalization(t string, pz *Personalization, questions []Question, constructs map[string]string) error {
	if pz == nil {
		return nil
	}

	kinds := make(map[string]QuestionKind, len(questions))
	for _, q := range questions {
		kinds[q.ID] = q.Kind
	}
	for _, id := range pz.Profile.ids() {
		if id == "" {
			continue
		}
		kind, ok := kinds[id]
		if !ok {
			return configErrorf(t, "personalization profile references unknown question %q", id)
		}
		if kind != KindCategorical {
			return configErrorf(t, "personalization profile question %q is not categorical", id)
		}
	}

	for construct, variants := range pz.Variants {
		if _, ok := constructs[construct]; !ok {
			return configErrorf(t, "personalization references unknown construct %q", construct)
		}
		for _, v := range variants {
			if v.ID == "" || v.Title == "" {
				return configErrorf(t, "construct %q has a variant without id or title", construct)
			}
		}
	}
	return nil
}

func (p *plan) score(answers AnswerSet) (*Result, error) {
	cfg := p.cfg
	res := &Result{
		AssessmentType:  cfg.Type,
		SectionScores:   make([]SectionScore, 0, len(p.sections)),
		ConstructScores: make(map[string]float64),
	}

	for _, sp := range p.sections {
		ss := SectionScore{
			Section:         sp.section.ID,
			Label:           sp.section.Label,
			Weight:          sp.section.Weight,
			Scored:          sp.section.Scored(),
			TotalCount:      len(sp.questions),
			ConstructScores: make(map[string]float64, len(sp.constructs)),
		}

		for _, q := range sp.questions {
			if !q.Scored() && answers[q.ID].Present() {
				ss.AnsweredCount++
			}
		}

		constructScores := make([]float64, 0, len(sp.constructs))
		for _, c := range sp.constructs {
			tally := tallyConstruct(answers, sp.byConstruct[c], cfg.QuestionWeight)
			ss.ConstructScores[c] = tally.score
			res.ConstructScores[c] = tally.score
			ss.AnsweredCount += tally.answered
			res.Skipped = append(res.Skipped, tally.skipped...)
			constructScores = append(constructScores, tally.score)
		}

		if ss.Scored {
			ss.Score = AggregateSection(constructScores)
		}

		res.AnsweredCount += ss.AnsweredCount
		res.TotalCount += ss.TotalCount
		res.SectionScores = append(res.SectionScores, ss)
	}

	bonus, active := EvaluateSynergies(res.ConstructScores, cfg.Synergies, DefaultSynergyThreshold)
	overall, err := ComputeOverall(res.SectionScores, p.weights, bonus)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			ce.AssessmentType = cfg.Type
		}
		return nil, err
	}

	res.ExactScore = overall
	res.OverallScore = roundScore(overall)
	res.SynergyBonusPercent = roundScore(bonus * 100)
	if active == nil {
		active = []SynergyPair{}
	}
	res.ActiveSynergies = active
	res.Interpretation = cfg.Bands.Interpret(float64(res.OverallScore))
	res.Recommendations = Recommend(res.ConstructScores, cfg.Labels, RecommendOptions{})
	res.Radar = Radar(cfg.Sections, res.SectionScores)
	res.SectionAdvice = Advise(cfg.SectionAdvice, res.SectionScores)

	if pz := cfg.Personalization; pz != nil {
		profile := pz.Demographics(answers)
		res.Profile = &profile
		res.Personalized = Personalize(res.ConstructScores, cfg.Labels, pz, profile, RecommendOptions{})
	}

	return res, nil
}
