package scoring

// testConfig returns a small assessment: one unscored context section and
// two scored sections weighted 0.6 and 0.4.
func testConfig() *QuestionConfig {
	return &QuestionConfig{
		Type:  "test",
		Name:  "Test",
		Bands: PrimaryBands(),
		Sections: []Section{
			{ID: "context", Label: "Context", Weight: 0},
			{ID: "alpha", Label: "Alpha", RadarLabel: "A", Weight: 0.6},
			{ID: "beta", Label: "Beta", Weight: 0.4},
		},
		ConstructWeights: map[string]float64{
			"x": 1.5,
			"y": 1.0,
			"z": 1.2,
		},
		Synergies: []SynergyPair{
			{ConstructA: "x", ConstructB: "z", Bonus: 0.1, Description: "X + Z"},
		},
		Labels: map[string]RecommendationLabel{
			"x": {Area: "Area X", Action: "Do X", Impact: "Impact X"},
			"y": {Area: "Area Y", Action: "Do Y", Impact: "Impact Y"},
			"z": {Area: "Area Z", Action: "Do Z", Impact: "Impact Z"},
		},
		Questions: []Question{
			{ID: "ctx-1", Section: "context", Kind: KindCategorical, Text: "Sector?"},
			{ID: "a-1", Section: "alpha", Construct: "x", Kind: KindLikert},
			{ID: "a-2", Section: "alpha", Construct: "x", Kind: KindLikert},
			{ID: "a-3", Section: "alpha", Construct: "y", Kind: KindLikert, Reverse: true},
			{ID: "b-1", Section: "beta", Construct: "z", Kind: KindLikert},
			{ID: "b-2", Section: "beta", Construct: "w", Kind: KindLikert, Weight: 2},
		},
	}
}

// uniformAnswers answers every Likert question of cfg with v.
func uniformAnswers(cfg *QuestionConfig, v int) AnswerSet {
	answers := AnswerSet{}
	for _, q := range cfg.Questions {
		if q.Scored() {
			answers[q.ID] = IntAnswer(v)
		}
	}
	return answers
}
