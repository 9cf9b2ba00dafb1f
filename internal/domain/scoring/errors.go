package scoring

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the scoring engine.
var (
	// ErrInvalidAnswerValue is returned when an answer cannot be scored, for
	// example a Likert value outside [1,7]. Callers skip such answers.
	ErrInvalidAnswerValue = errors.New("invalid answer value")

	// ErrConfiguration is returned when a QuestionConfig is malformed.
	// Use errors.As with *ConfigurationError to get the details.
	ErrConfiguration = errors.New("invalid scoring configuration")

	// ErrUnknownAssessmentType is returned when no configuration is registered
	// for the requested assessment type.
	ErrUnknownAssessmentType = errors.New("unknown assessment type")
)

// ConfigurationError describes a defect in the static tables of one
// assessment type. It always matches ErrConfiguration with errors.Is.
type ConfigurationError struct {
	AssessmentType string
	Reason         string
}

// Error implements the error interface.
func (e *ConfigurationError) Error() string {
	if e.AssessmentType == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s %q: %s", ErrConfiguration, e.AssessmentType, e.Reason)
}

// Unwrap returns ErrConfiguration.
func (e *ConfigurationError) Unwrap() error {
	return ErrConfiguration
}

func configErrorf(assessmentType, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{
		AssessmentType: assessmentType,
		Reason:         fmt.Sprintf(format, args...),
	}
}

// SkippedAnswer records an answer that was excluded from aggregation.
type SkippedAnswer struct {
	QuestionID string `json:"questionId"`
	Reason     string `json:"reason"`
}
