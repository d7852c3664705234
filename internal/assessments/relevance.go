package assessments

import "strings"

// RelevanceChecker guards against hallucinated citations: a quote counts as
// evidence for a question only when the two share salient keywords. The
// matching rule is a heuristic and deliberately configurable; the defaults
// favor recall (a single shared topic word is enough).
type RelevanceChecker struct {
	// MinOverlap is the number of shared salient keywords required.
	MinOverlap int
	// MinTokenLen filters out short function words before comparison.
	MinTokenLen int
	// Stopwords are excluded even when long enough.
	Stopwords map[string]struct{}
}

var defaultStopwords = map[string]struct{}{
	"about": {}, "after": {}, "against": {}, "all": {}, "also": {}, "analysis": {},
	"been": {}, "being": {}, "company": {}, "conduct": {}, "control": {}, "current": {},
	"customer": {}, "data": {}, "define": {}, "defined": {}, "document": {}, "documents": {},
	"does": {}, "enforced": {}, "every": {}, "following": {}, "frequently": {}, "from": {},
	"have": {}, "higher": {}, "hold": {}, "host": {}, "how": {}, "into": {}, "least": {},
	"maintain": {}, "month": {}, "months": {}, "often": {}, "perform": {}, "performed": {},
	"please": {}, "policy": {}, "procedure": {}, "procedures": {}, "process": {},
	"provide": {}, "regular": {}, "regularly": {}, "that": {}, "their": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "under": {}, "using": {}, "vendor": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "will": {}, "with": {},
	"within": {}, "your": {},
}

// DefaultRelevanceChecker returns the checker used by the orchestrator unless
// overridden.
func DefaultRelevanceChecker() RelevanceChecker {
	return RelevanceChecker{
		MinOverlap:  1,
		MinTokenLen: 4,
		Stopwords:   defaultStopwords,
	}
}

// Relevant reports whether the quote plausibly addresses the question topic.
func (c RelevanceChecker) Relevant(questionText, quote string) bool {
	if strings.TrimSpace(quote) == "" {
		return false
	}
	questionKeywords := c.keywords(questionText)
	if len(questionKeywords) == 0 {
		// Nothing salient to compare against; do not reject the quote.
		return true
	}
	quoteKeywords := c.keywords(quote)

	overlap := 0
	for stem := range questionKeywords {
		if _, ok := quoteKeywords[stem]; ok {
			overlap++
			if overlap >= c.minOverlap() {
				return true
			}
		}
	}
	return false
}

func (c RelevanceChecker) minOverlap() int {
	if c.MinOverlap <= 0 {
		return 1
	}
	return c.MinOverlap
}

func (c RelevanceChecker) keywords(text string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, token := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	}) {
		if len(token) < c.minTokenLen() {
			continue
		}
		if _, stop := c.stopwords()[token]; stop {
			continue
		}
		out[stem(token)] = struct{}{}
	}
	return out
}

func (c RelevanceChecker) minTokenLen() int {
	if c.MinTokenLen <= 0 {
		return 4
	}
	return c.MinTokenLen
}

func (c RelevanceChecker) stopwords() map[string]struct{} {
	if c.Stopwords == nil {
		return defaultStopwords
	}
	return c.Stopwords
}

// stem folds the most common English inflections so "testing" and "tests"
// land on the same key. It is intentionally crude; this is a keyword filter,
// not a search engine.
func stem(token string) string {
	for _, suffix := range []string{"ing", "ed", "es", "s"} {
		if trimmed := strings.TrimSuffix(token, suffix); trimmed != token && len(trimmed) >= 3 {
			return trimmed
		}
	}
	return token
}
