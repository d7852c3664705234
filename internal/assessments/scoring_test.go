package assessments

import (
	"testing"

	"riskassess-backend/internal/questions"
)

func boolQ(id string, weight int) questions.Question {
	return questions.Question{ID: id, Text: id, Type: questions.TypeBoolean, Weight: weight}
}

func TestLevelForScoreBoundaries(t *testing.T) {
	cases := []struct {
		score int
		want  RiskLevel
	}{
		{100, RiskLow},
		{85, RiskLow},
		{84, RiskMedium},
		{70, RiskMedium},
		{69, RiskMediumHigh},
		{55, RiskMediumHigh},
		{54, RiskHigh},
		{40, RiskHigh},
		{39, RiskCritical},
		{0, RiskCritical},
	}
	for _, tc := range cases {
		if got := LevelForScore(tc.score); got != tc.want {
			t.Fatalf("LevelForScore(%d) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestRiskLevelColorMatchesThresholdTable(t *testing.T) {
	cases := map[RiskLevel]string{
		RiskLow:        "green",
		RiskMedium:     "yellow",
		RiskMediumHigh: "amber",
		RiskHigh:       "orange",
		RiskCritical:   "red",
	}
	for level, want := range cases {
		if got := level.Color(); got != want {
			t.Fatalf("%s color = %s, want %s", level, got, want)
		}
	}
}

func TestComputeRiskScoreAllYes(t *testing.T) {
	qs := []questions.Question{boolQ("a", 10), boolQ("b", 5)}
	answers := map[string]string{"a": questions.AnswerYes, "b": questions.AnswerYes}
	if got := ComputeRiskScore(qs, answers); got != 100 {
		t.Fatalf("score = %d, want 100", got)
	}
}

func TestComputeRiskScoreAllNo(t *testing.T) {
	qs := []questions.Question{boolQ("a", 10), boolQ("b", 5)}
	answers := map[string]string{"a": questions.AnswerNo, "b": questions.AnswerNo}
	if got := ComputeRiskScore(qs, answers); got != 0 {
		t.Fatalf("score = %d, want 0", got)
	}
}

func TestComputeRiskScoreWeightedAverage(t *testing.T) {
	qs := []questions.Question{boolQ("heavy", 9), boolQ("light", 1)}
	answers := map[string]string{"heavy": questions.AnswerYes, "light": questions.AnswerNo}
	// round((100*9 + 0*1) / 10) = 90
	if got := ComputeRiskScore(qs, answers); got != 90 {
		t.Fatalf("score = %d, want 90", got)
	}
}

func TestComputeRiskScoreUnknownIsNeutral(t *testing.T) {
	qs := []questions.Question{boolQ("a", 10)}
	if got := ComputeRiskScore(qs, map[string]string{"a": questions.AnswerUnknown}); got != 50 {
		t.Fatalf("unknown answer score = %d, want 50", got)
	}
	// Missing entirely scores the same as an explicit unknown.
	if got := ComputeRiskScore(qs, map[string]string{}); got != 50 {
		t.Fatalf("missing answer score = %d, want 50", got)
	}
}

func TestComputeRiskScoreMultipleChoiceRanking(t *testing.T) {
	q := questions.Question{
		ID:      "freq",
		Text:    "frequency",
		Type:    questions.TypeMultipleChoice,
		Options: []string{"Continuously", "Monthly", "Quarterly", "Annually", "Never"},
		Weight:  5,
	}
	cases := map[string]int{
		"Continuously": 100,
		"Monthly":      75,
		"Quarterly":    50,
		"Annually":     25,
		"Never":        0,
	}
	for answer, want := range cases {
		got := ComputeRiskScore([]questions.Question{q}, map[string]string{"freq": answer})
		if got != want {
			t.Fatalf("score(%s) = %d, want %d", answer, got, want)
		}
	}
}

func TestComputeRiskScoreMonotonic(t *testing.T) {
	qs := []questions.Question{boolQ("a", 3), boolQ("b", 7), boolQ("c", 2)}
	answers := map[string]string{
		"a": questions.AnswerNo,
		"b": questions.AnswerNo,
		"c": questions.AnswerNo,
	}
	prev := ComputeRiskScore(qs, answers)
	// Flipping any single answer from no to yes never lowers the score.
	for _, id := range []string{"a", "b", "c"} {
		flipped := map[string]string{}
		for k, v := range answers {
			flipped[k] = v
		}
		flipped[id] = questions.AnswerYes
		got := ComputeRiskScore(qs, flipped)
		if got < prev {
			t.Fatalf("flipping %s to yes lowered score: %d < %d", id, got, prev)
		}
	}
}

func TestComputeRiskScoreDeterministic(t *testing.T) {
	qs, err := questions.Catalog("security")
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	answers := map[string]string{
		"sec-pentest":      questions.AnswerYes,
		"sec-encrypt-rest": questions.AnswerNo,
		"sec-vuln-scan":    "Monthly",
		"sec-ir-plan":      questions.AnswerTested,
	}
	first := ComputeRiskScore(qs, answers)
	for i := 0; i < 10; i++ {
		if got := ComputeRiskScore(qs, answers); got != first {
			t.Fatalf("score changed between runs: %d vs %d", got, first)
		}
	}
	if first < 0 || first > 100 {
		t.Fatalf("score out of range: %d", first)
	}
}

func TestComputeRiskScoreZeroWeight(t *testing.T) {
	if got := ComputeRiskScore(nil, nil); got != 0 {
		t.Fatalf("empty question set score = %d, want 0", got)
	}
}
