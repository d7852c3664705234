package questions

import "testing"

func TestCoerceBoolean(t *testing.T) {
	q := Question{ID: "q1", Type: TypeBoolean, Weight: 1}

	cases := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"Yes", AnswerYes, true},
		{"yes, quarterly penetration tests are performed", AnswerYes, true},
		{"True", AnswerYes, true},
		{"No", AnswerNo, true},
		{"no evidence of this control", AnswerNo, true},
		{"The document states that encryption is not used", AnswerNo, true},
		{"the vendor does not perform testing", AnswerNo, true},
		{"unknown", AnswerUnknown, false},
		{"", AnswerUnknown, false},
		{"perhaps", AnswerUnknown, false},
	}

	for _, tc := range cases {
		got, ok := Coerce(q, tc.raw)
		if got != tc.want || ok != tc.wantOK {
			t.Fatalf("Coerce(%q) = (%q, %v), want (%q, %v)", tc.raw, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestCoerceTested(t *testing.T) {
	q := Question{ID: "q2", Type: TypeTested, Weight: 1}

	cases := []struct {
		raw  string
		want string
	}{
		{"tested", AnswerTested},
		{"Tested annually with tabletop exercises", AnswerTested},
		{"not tested", AnswerNotTested},
		{"untested", AnswerNotTested},
		{"yes", AnswerTested},
		{"no", AnswerNotTested},
	}

	for _, tc := range cases {
		got, ok := Coerce(q, tc.raw)
		if !ok || got != tc.want {
			t.Fatalf("Coerce(%q) = (%q, %v), want (%q, true)", tc.raw, got, ok, tc.want)
		}
	}

	if got, ok := Coerce(q, "unclear"); ok || got != AnswerUnknown {
		t.Fatalf("Coerce(unclear) = (%q, %v), want (unknown, false)", got, ok)
	}
}

func TestCoerceMultipleChoice(t *testing.T) {
	q := Question{
		ID:      "q3",
		Type:    TypeMultipleChoice,
		Options: []string{"Continuously", "Monthly", "Quarterly", "Annually", "Never"},
		Weight:  1,
	}

	cases := []struct {
		raw  string
		want string
	}{
		{"Quarterly", "Quarterly"},
		{"quarterly", "Quarterly"},
		{"scans run monthly", "Monthly"},
		{"we scan on an annually recurring schedule", "Annually"},
		{"never", "Never"},
	}

	for _, tc := range cases {
		got, ok := Coerce(q, tc.raw)
		if !ok || got != tc.want {
			t.Fatalf("Coerce(%q) = (%q, %v), want (%q, true)", tc.raw, got, ok, tc.want)
		}
	}

	if got, ok := Coerce(q, "zzz"); ok || got != AnswerUnknown {
		t.Fatalf("Coerce(zzz) = (%q, %v), want (unknown, false)", got, ok)
	}
}

func TestValidateRejectsBadQuestions(t *testing.T) {
	cases := []struct {
		name string
		qs   []Question
	}{
		{"empty id", []Question{{Type: TypeBoolean, Weight: 1}}},
		{"duplicate id", []Question{{ID: "a", Type: TypeBoolean, Weight: 1}, {ID: "a", Type: TypeBoolean, Weight: 1}}},
		{"zero weight", []Question{{ID: "a", Type: TypeBoolean, Weight: 0}}},
		{"options on boolean", []Question{{ID: "a", Type: TypeBoolean, Weight: 1, Options: []string{"x", "y"}}}},
		{"single option", []Question{{ID: "a", Type: TypeMultipleChoice, Weight: 1, Options: []string{"x"}}}},
		{"unknown type", []Question{{ID: "a", Type: "essay", Weight: 1}}},
	}
	for _, tc := range cases {
		if err := Validate(tc.qs); err == nil {
			t.Fatalf("%s: expected validation error", tc.name)
		}
	}
}
