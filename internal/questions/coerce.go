package questions

import "strings"

var affirmativeWords = map[string]struct{}{
	"yes": {}, "true": {}, "y": {}, "correct": {}, "affirmative": {}, "confirmed": {},
}

var negativeWords = map[string]struct{}{
	"no": {}, "false": {}, "n": {}, "none": {}, "negative": {}, "denied": {},
}

// Coerce maps a free-form provider answer onto the question's declared type.
// The second return is false when the answer could not be interpreted, in
// which case the canonical value is AnswerUnknown.
func Coerce(q Question, raw string) (string, bool) {
	answer := strings.ToLower(strings.TrimSpace(raw))
	if answer == "" || answer == AnswerUnknown || answer == "unclear" || answer == "not specified" {
		return AnswerUnknown, false
	}

	switch q.Type {
	case TypeBoolean:
		return coerceBoolean(answer)
	case TypeTested:
		return coerceTested(answer)
	case TypeMultipleChoice:
		return coerceChoice(q.Options, raw)
	default:
		return AnswerUnknown, false
	}
}

func coerceBoolean(answer string) (string, bool) {
	first := answer
	if idx := strings.IndexAny(answer, " ,.;:"); idx > 0 {
		first = answer[:idx]
	}
	if _, ok := affirmativeWords[first]; ok {
		return AnswerYes, true
	}
	if _, ok := negativeWords[first]; ok {
		return AnswerNo, true
	}
	if strings.Contains(answer, "does not") || strings.Contains(answer, "do not") || strings.Contains(answer, "is not") || strings.Contains(answer, "are not") {
		return AnswerNo, true
	}
	// Affirmative phrasing without a leading yes.
	if strings.Contains(answer, "yes") {
		return AnswerYes, true
	}
	return AnswerUnknown, false
}

func coerceTested(answer string) (string, bool) {
	if strings.Contains(answer, "not tested") || strings.Contains(answer, "untested") || strings.Contains(answer, "not-tested") {
		return AnswerNotTested, true
	}
	if strings.Contains(answer, "tested") {
		return AnswerTested, true
	}
	if v, ok := coerceBoolean(answer); ok {
		if v == AnswerYes {
			return AnswerTested, true
		}
		return AnswerNotTested, true
	}
	return AnswerUnknown, false
}

// coerceChoice matches against the declared options, falling back to the
// option sharing the most words with the answer when no exact match exists.
func coerceChoice(options []string, raw string) (string, bool) {
	answer := strings.ToLower(strings.TrimSpace(raw))
	for _, opt := range options {
		if strings.ToLower(opt) == answer {
			return opt, true
		}
	}

	answerTokens := tokenSet(answer)
	best := ""
	bestScore := 0
	for _, opt := range options {
		score := 0
		for token := range tokenSet(strings.ToLower(opt)) {
			if _, ok := answerTokens[token]; ok {
				score++
			}
		}
		if score > bestScore {
			best = opt
			bestScore = score
		}
	}
	if bestScore > 0 {
		return best, true
	}

	// Last resort: substring containment either way.
	for _, opt := range options {
		lower := strings.ToLower(opt)
		if strings.Contains(answer, lower) || strings.Contains(lower, answer) {
			return opt, true
		}
	}
	return AnswerUnknown, false
}

func tokenSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, token := range strings.FieldsFunc(s, func(r rune) bool {
		return !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9')
	}) {
		out[strings.ToLower(token)] = struct{}{}
	}
	return out
}
