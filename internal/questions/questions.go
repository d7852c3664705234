// Package questions defines the weighted question templates an assessment
// run is scored against, and the coercion rules that map free-form provider
// answers onto each question's declared type.
package questions

import "fmt"

// QuestionType enumerates the supported answer shapes.
type QuestionType string

const (
	TypeBoolean        QuestionType = "boolean"
	TypeMultipleChoice QuestionType = "multiple-choice"
	TypeTested         QuestionType = "tested"
)

// Canonical answer values.
const (
	AnswerYes       = "yes"
	AnswerNo        = "no"
	AnswerTested    = "tested"
	AnswerNotTested = "not-tested"
	AnswerUnknown   = "unknown"
)

// Question is an immutable assessment question. Options, when present, are
// ordered from most to least favorable; Weight is a positive integer used in
// the scoring aggregate.
type Question struct {
	ID      string       `json:"id"`
	Text    string       `json:"text"`
	Type    QuestionType `json:"type"`
	Options []string     `json:"options,omitempty"`
	Weight  int          `json:"weight"`
}

// Validate checks structural requirements on a question set.
func Validate(qs []Question) error {
	seen := make(map[string]struct{}, len(qs))
	for _, q := range qs {
		if q.ID == "" {
			return fmt.Errorf("question with empty id")
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = struct{}{}
		if q.Weight <= 0 {
			return fmt.Errorf("question %s: weight must be positive, got %d", q.ID, q.Weight)
		}
		switch q.Type {
		case TypeBoolean, TypeTested:
			if len(q.Options) != 0 {
				return fmt.Errorf("question %s: options are only valid for multiple-choice", q.ID)
			}
		case TypeMultipleChoice:
			if len(q.Options) < 2 {
				return fmt.Errorf("question %s: multiple-choice needs at least two options", q.ID)
			}
		default:
			return fmt.Errorf("question %s: unknown type %q", q.ID, q.Type)
		}
	}
	return nil
}
