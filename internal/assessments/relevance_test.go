package assessments

import "testing"

func TestRelevantSharedTopicWord(t *testing.T) {
	checker := DefaultRelevanceChecker()
	question := "Do you conduct penetration testing at least annually?"

	if !checker.Relevant(question, "We perform quarterly penetration tests.") {
		t.Fatal("quote about penetration tests should be relevant")
	}
	if checker.Relevant(question, "We have documented incident response procedures.") {
		t.Fatal("quote about incident response should not back a pentest question")
	}
}

func TestRelevantStemsInflections(t *testing.T) {
	checker := DefaultRelevanceChecker()
	if !checker.Relevant("Is customer data encrypted at rest?", "All records are encrypted using AES-256.") {
		t.Fatal("encrypted/encrypted should match after stemming")
	}
	if !checker.Relevant("How frequently are vulnerability scans performed?", "Vulnerability scanning runs monthly.") {
		t.Fatal("scans/scanning should match after stemming")
	}
}

func TestRelevantRejectsEmptyQuote(t *testing.T) {
	checker := DefaultRelevanceChecker()
	if checker.Relevant("Do you conduct penetration testing?", "") {
		t.Fatal("empty quote must not be relevant")
	}
	if checker.Relevant("Do you conduct penetration testing?", "   ") {
		t.Fatal("blank quote must not be relevant")
	}
}

func TestRelevantAcceptsWhenQuestionHasNoKeywords(t *testing.T) {
	checker := DefaultRelevanceChecker()
	// Every token is short or a stopword; nothing salient to compare.
	if !checker.Relevant("Do you?", "Any quote at all.") {
		t.Fatal("questions without salient keywords must not reject evidence")
	}
}

func TestRelevantHonorsMinOverlap(t *testing.T) {
	checker := RelevanceChecker{MinOverlap: 2}
	question := "Is multi-factor authentication enforced for administrative access?"

	if checker.Relevant(question, "Authentication logs are retained.") {
		t.Fatal("one shared keyword should not satisfy MinOverlap=2")
	}
	if !checker.Relevant(question, "Administrative users sign in with multi-factor authentication.") {
		t.Fatal("two shared keywords should satisfy MinOverlap=2")
	}
}

func TestRelevantCaseInsensitive(t *testing.T) {
	checker := DefaultRelevanceChecker()
	if !checker.Relevant("Do you hold a current SOC 2 Type II report?", "Our latest SOC 2 REPORT covers the trust criteria.") {
		t.Fatal("matching should ignore case")
	}
}
