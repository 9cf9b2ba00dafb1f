package scoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// AnswerKind identifies the shape of a raw answer.
type AnswerKind int

const (
	// AnswerNull is an explicit or implicit absence of a value.
	AnswerNull AnswerKind = iota
	// AnswerNumber is a numeric answer, normally a Likert rating.
	AnswerNumber
	// AnswerText is a single choice or free text answer.
	AnswerText
	// AnswerList is a multiple choice answer.
	AnswerList
)

// Answer is a raw answer value: a number, a string, a list of strings or null.
// The zero value is null.
type Answer struct {
	kind AnswerKind
	num  float64
	text string
	list []string
}

// NumberAnswer returns a numeric answer.
func NumberAnswer(v float64) Answer {
	return Answer{kind: AnswerNumber, num: v}
}

// IntAnswer returns a numeric answer from an integer rating.
func IntAnswer(v int) Answer {
	return NumberAnswer(float64(v))
}

// TextAnswer returns a string answer.
func TextAnswer(s string) Answer {
	return Answer{kind: AnswerText, text: s}
}

// ListAnswer returns a multiple choice answer.
func ListAnswer(items ...string) Answer {
	cp := make([]string, len(items))
	copy(cp, items)
	return Answer{kind: AnswerList, list: cp}
}

// Kind returns the shape of the answer.
func (a Answer) Kind() AnswerKind {
	return a.kind
}

// Number returns the numeric value and whether the answer is numeric.
func (a Answer) Number() (float64, bool) {
	return a.num, a.kind == AnswerNumber
}

// Text returns the string value and whether the answer is a string.
func (a Answer) Text() (string, bool) {
	return a.text, a.kind == AnswerText
}

// List returns the list value and whether the answer is a list.
func (a Answer) List() ([]string, bool) {
	if a.kind != AnswerList {
		return nil, false
	}
	cp := make([]string, len(a.list))
	copy(cp, a.list)
	return cp, true
}

// Present reports whether the answer carries a value. Null, blank strings and
// empty lists are not present.
func (a Answer) Present() bool {
	switch a.kind {
	case AnswerNumber:
		return true
	case AnswerText:
		return strings.TrimSpace(a.text) != ""
	case AnswerList:
		return len(a.list) > 0
	default:
		return false
	}
}

// String renders the answer for logs and diagnostics.
func (a Answer) String() string {
	switch a.kind {
	case AnswerNumber:
		return fmt.Sprintf("%g", a.num)
	case AnswerText:
		return fmt.Sprintf("%q", a.text)
	case AnswerList:
		return fmt.Sprintf("%q", a.list)
	default:
		return "null"
	}
}

// MarshalJSON implements json.Marshaler.
func (a Answer) MarshalJSON() ([]byte, error) {
	switch a.kind {
	case AnswerNumber:
		return json.Marshal(a.num)
	case AnswerText:
		return json.Marshal(a.text)
	case AnswerList:
		if a.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(a.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON implements json.Unmarshaler. It accepts null, numbers,
// strings and arrays of strings.
func (a *Answer) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return fmt.Errorf("%w: empty value", ErrInvalidAnswerValue)
	}

	switch trimmed[0] {
	case 'n':
		if string(trimmed) != "null" {
			return fmt.Errorf("%w: %s", ErrInvalidAnswerValue, trimmed)
		}
		*a = Answer{}
		return nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidAnswerValue, err)
		}
		*a = TextAnswer(s)
		return nil
	case '[':
		var items []string
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return fmt.Errorf("%w: list answers must contain strings", ErrInvalidAnswerValue)
		}
		*a = Answer{kind: AnswerList, list: items}
		return nil
	default:
		var f float64
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidAnswerValue, trimmed)
		}
		*a = NumberAnswer(f)
		return nil
	}
}

// AnswerSet maps question ids to raw answers. The engine never mutates it.
type AnswerSet map[string]Answer
