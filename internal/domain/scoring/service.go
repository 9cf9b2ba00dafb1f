package scoring

// Service defines the scoring operations exposed to the rest of the system.
type Service interface {
	// Score computes the report for answers against the named assessment type.
	// Returns ErrUnknownAssessmentType when the type is not registered.
	Score(assessmentType string, answers AnswerSet) (*Result, error)

	// Config returns a copy of the configuration of an assessment type.
	Config(assessmentType string) (*QuestionConfig, error)

	// Configs returns copies of all configurations in catalogue order.
	Configs() []*QuestionConfig
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	registry *Registry
}

// NewService creates a scoring service over a validated registry.
func NewService(registry *Registry) Service {
	return &defaultService{registry: registry}
}

// Score implements the Service interface.
func (s *defaultService) Score(assessmentType string, answers AnswerSet) (*Result, error) {
	p, err := s.registry.plan(assessmentType)
	if err != nil {
		return nil, err
	}
	return p.score(answers)
}

// Config implements the Service interface.
func (s *defaultService) Config(assessmentType string) (*QuestionConfig, error) {
	return s.registry.Config(assessmentType)
}

// Configs implements the Service interface.
func (s *defaultService) Configs() []*QuestionConfig {
	return s.registry.Configs()
}
