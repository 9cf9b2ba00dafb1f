package scoring

import (
	"fmt"
	"math"
)

// Likert scale bounds.
const (
	MinLikert = 1
	MaxLikert = 7
)

// Normalize maps a Likert rating onto [0,1]. Reverse-scored items are
// inverted first (v' = 8 - v). Ratings outside [MinLikert, MaxLikert]
// return ErrInvalidAnswerValue.
func Normalize(raw int, reverse bool) (float64, error) {
	if raw < MinLikert || raw > MaxLikert {
		return 0, fmt.Errorf("%w: %d is outside [%d,%d]", ErrInvalidAnswerValue, raw, MinLikert, MaxLikert)
	}

	v := raw
	if reverse {
		v = MinLikert + MaxLikert - raw
	}

	return float64(v-MinLikert) / float64(MaxLikert-MinLikert), nil
}

// normalizeAnswer validates the shape of a raw answer before normalizing it.
func normalizeAnswer(a Answer, reverse bool) (float64, error) {
	n, ok := a.Number()
	if !ok {
		return 0, fmt.Errorf("%w: expected a rating, got %s", ErrInvalidAnswerValue, a)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
		return 0, fmt.Errorf("%w: %s is not a whole rating", ErrInvalidAnswerValue, a)
	}
	if n < MinLikert || n > MaxLikert {
		return 0, fmt.Errorf("%w: %s is outside [%d,%d]", ErrInvalidAnswerValue, a, MinLikert, MaxLikert)
	}
	return Normalize(int(n), reverse)
}
