package scoring

import "fmt"

// Registry holds the validated configurations of every assessment type.
// It is immutable after construction: it registers copies of the configs it
// is given and hands out copies of its own.
type Registry struct {
	order []string
	plans map[string]*plan
}

// NewRegistry validates every configuration and indexes it by type. Unlock
// requirements must name a registered type.
func NewRegistry(configs ...*QuestionConfig) (*Registry, error) {
	r := &Registry{
		order: make([]string, 0, len(configs)),
		plans: make(map[string]*plan, len(configs)),
	}

	for _, cfg := range configs {
		p, err := compile(cfg.Clone())
		if err != nil {
			return nil, err
		}
		if _, dup := r.plans[cfg.Type]; dup {
			return nil, configErrorf(cfg.Type, "registered twice")
		}
		r.plans[cfg.Type] = p
		r.order = append(r.order, cfg.Type)
	}

	for _, t := range r.order {
		req := r.plans[t].cfg.UnlockRequirement
		if req == "" {
			continue
		}
		if _, ok := r.plans[req]; !ok {
			return nil, configErrorf(t, "unlock requirement %q is not registered", req)
		}
	}

	return r, nil
}

// Types returns the registered assessment types in registration order.
func (r *Registry) Types() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Config returns a copy of the configuration of an assessment type.
func (r *Registry) Config(assessmentType string) (*QuestionConfig, error) {
	p, err := r.plan(assessmentType)
	if err != nil {
		return nil, err
	}
	return p.cfg.Clone(), nil
}

// Configs returns a copy of every configuration in registration order.
func (r *Registry) Configs() []*QuestionConfig {
	out := make([]*QuestionConfig, 0, len(r.order))
	for _, t := range r.order {
		out = append(out, r.plans[t].cfg.Clone())
	}
	return out
}

func (r *Registry) plan(assessmentType string) (*plan, error) {
	p, ok := r.plans[assessmentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAssessmentType, assessmentType)
	}
	return p, nil
}
