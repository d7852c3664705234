package assessments

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"riskassess-backend/internal/questions"
)

// parseProviderResponse turns the provider's raw JSON into a validated
// AnalysisResult skeleton (answers, confidences, reasoning, excerpts and the
// free-text fields; scoring is applied by the caller).
//
// Validation is deliberately forgiving at the per-question level: a question
// the provider skipped, or answered off-vocabulary, degrades to "unknown"
// with confidence 0 instead of failing the whole run. Only JSON that does not
// decode into the schema at all is a hard error.
func parseProviderResponse(raw json.RawMessage, qs []questions.Question, checker RelevanceChecker) (*AnalysisResult, error) {
	var resp providerResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}

	result := &AnalysisResult{
		Answers:          make(map[string]string, len(qs)),
		ConfidenceScores: make(map[string]float64, len(qs)),
		Reasoning:        make(map[string]string, len(qs)),
		DocumentExcerpts: make(map[string][]Excerpt, len(qs)),
		OverallAnalysis:  strings.TrimSpace(resp.OverallAnalysis),
		RiskFactors:      dropEmpty(resp.RiskFactors),
		Recommendations:  dropEmpty(resp.Recommendations),
	}

	for _, q := range qs {
		pa, ok := resp.Answers[q.ID]
		if !ok {
			result.Answers[q.ID] = questions.AnswerUnknown
			result.ConfidenceScores[q.ID] = 0
			result.DocumentExcerpts[q.ID] = []Excerpt{noEvidenceExcerpt()}
			continue
		}

		answer, recognized := questions.Coerce(q, pa.Answer)
		if !recognized {
			answer = questions.AnswerUnknown
		}
		excerpts, rejected := filterEvidence(q, pa.Evidence, checker)

		confidence := clampConfidence(pa.Confidence)
		if answer == questions.AnswerUnknown {
			confidence = 0
		}
		// An answer whose every citation failed the relevance check is
		// unverified and does not keep the provider's confidence.
		if rejected && confidence > unverifiedConfidence {
			confidence = unverifiedConfidence
		}

		result.Answers[q.ID] = answer
		result.ConfidenceScores[q.ID] = confidence
		if reasoning := strings.TrimSpace(pa.Reasoning); reasoning != "" {
			result.Reasoning[q.ID] = reasoning
		}
		result.DocumentExcerpts[q.ID] = excerpts
	}

	return result, nil
}

// ParseResult validates a raw provider response and applies scoring, using
// the default relevance checker. It serves tooling that bypasses the service
// layer.
func ParseResult(raw json.RawMessage, qs []questions.Question) (*AnalysisResult, error) {
	result, err := parseProviderResponse(raw, qs, DefaultRelevanceChecker())
	if err != nil {
		return nil, err
	}
	result.RiskScore = ComputeRiskScore(qs, result.Answers)
	result.RiskLevel = LevelForScore(result.RiskScore)
	result.AnalysisDate = time.Now().UTC()
	return result, nil
}

// unverifiedConfidence caps the confidence of answers whose citations were
// all rejected by the relevance check.
const unverifiedConfidence = 0.2

// filterEvidence keeps only citations that pass the relevance check. Anything
// rejected, and the empty case, collapses to a single sentinel excerpt so
// renderers always have something to show. The second return reports whether
// citations were offered and every one of them was rejected.
func filterEvidence(q questions.Question, evidence []providerEvidence, checker RelevanceChecker) ([]Excerpt, bool) {
	var kept []Excerpt
	candidates := 0
	for _, ev := range evidence {
		quote := strings.TrimSpace(ev.Quote)
		if quote == "" || quote == NoEvidenceSentinel {
			continue
		}
		candidates++
		if !checker.Relevant(q.Text, quote) {
			continue
		}
		kept = append(kept, Excerpt{
			FileName:   strings.TrimSpace(ev.FileName),
			Quote:      quote,
			PageNumber: ev.PageNumber,
			Relevance:  "Directly addresses the question topic",
		})
	}
	if len(kept) == 0 {
		return []Excerpt{noEvidenceExcerpt()}, candidates > 0
	}
	return kept, false
}

func noEvidenceExcerpt() Excerpt {
	return Excerpt{Quote: NoEvidenceSentinel}
}

func clampConfidence(c float64) float64 {
	switch {
	case c != c: // NaN
		return 0
	case c < 0:
		return 0
	case c > 1:
		return 1
	}
	return c
}

func dropEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
