package assessments

import (
	"math"

	"riskassess-backend/internal/questions"
)

// RiskLevel is the categorical bucket for a risk score.
type RiskLevel string

const (
	RiskLow        RiskLevel = "Low"
	RiskMedium     RiskLevel = "Medium"
	RiskMediumHigh RiskLevel = "Medium-High"
	RiskHigh       RiskLevel = "High"
	RiskCritical   RiskLevel = "Critical"
)

// riskThresholds is the single source of truth for score-to-level mapping.
// Scoring and display both read from it so the two cannot drift.
var riskThresholds = []struct {
	Min   int
	Level RiskLevel
	Color string
}{
	{85, RiskLow, "green"},
	{70, RiskMedium, "yellow"},
	{55, RiskMediumHigh, "amber"},
	{40, RiskHigh, "orange"},
	{0, RiskCritical, "red"},
}

// A question answered "unknown" contributes a neutral score rather than
// failing or acing the control.
const unknownAnswerScore = 50

// LevelForScore maps a [0,100] score onto its risk level.
func LevelForScore(score int) RiskLevel {
	for _, t := range riskThresholds {
		if score >= t.Min {
			return t.Level
		}
	}
	return RiskCritical
}

// Color returns the display color associated with the level, from the same
// threshold table the scorer uses.
func (l RiskLevel) Color() string {
	for _, t := range riskThresholds {
		if t.Level == l {
			return t.Color
		}
	}
	return "red"
}

// ComputeRiskScore aggregates canonical answers into a weighted [0,100]
// score: round(sum(score_i * weight_i) / sum(weight_i)). Deterministic and
// order-independent.
func ComputeRiskScore(qs []questions.Question, answers map[string]string) int {
	var weightedSum, totalWeight float64
	for _, q := range qs {
		if q.Weight <= 0 {
			continue
		}
		weightedSum += float64(answerScore(q, answers[q.ID])) * float64(q.Weight)
		totalWeight += float64(q.Weight)
	}
	if totalWeight == 0 {
		return 0
	}
	score := int(math.Round(weightedSum / totalWeight))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// answerScore maps one canonical answer to a per-question score in [0,100].
// Multiple-choice options are ranked by their declared order, most favorable
// first.
func answerScore(q questions.Question, answer string) int {
	switch q.Type {
	case questions.TypeBoolean:
		switch answer {
		case questions.AnswerYes:
			return 100
		case questions.AnswerNo:
			return 0
		}
	case questions.TypeTested:
		switch answer {
		case questions.AnswerTested:
			return 100
		case questions.AnswerNotTested:
			return 0
		}
	case questions.TypeMultipleChoice:
		n := len(q.Options)
		for i, opt := range q.Options {
			if opt == answer {
				if n == 1 {
					return 100
				}
				return int(math.Round(100 * float64(n-1-i) / float64(n-1)))
			}
		}
	}
	return unknownAnswerScore
}
