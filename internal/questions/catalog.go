package questions

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in assessment types.
const (
	TypeSecurity           = "security"
	TypeBusinessContinuity = "business-continuity"
	TypePrivacy            = "privacy"
)

var catalogs = map[string][]Question{
	TypeSecurity: {
		{ID: "sec-pentest", Text: "Do you conduct penetration testing at least annually?", Type: TypeBoolean, Weight: 10},
		{ID: "sec-encrypt-rest", Text: "Is customer data encrypted at rest?", Type: TypeBoolean, Weight: 9},
		{ID: "sec-encrypt-transit", Text: "Is data encrypted in transit using TLS 1.2 or higher?", Type: TypeBoolean, Weight: 9},
		{ID: "sec-mfa", Text: "Is multi-factor authentication enforced for administrative access?", Type: TypeBoolean, Weight: 8},
		{ID: "sec-ir-plan", Text: "Has the incident response plan been tested in the last 12 months?", Type: TypeTested, Weight: 7},
		{ID: "sec-vuln-scan", Text: "How frequently are vulnerability scans performed?", Type: TypeMultipleChoice, Options: []string{"Continuously", "Monthly", "Quarterly", "Annually", "Never"}, Weight: 6},
		{ID: "sec-access-review", Text: "How often are user access rights reviewed?", Type: TypeMultipleChoice, Options: []string{"Quarterly", "Semi-annually", "Annually", "Ad hoc", "Never"}, Weight: 5},
		{ID: "sec-soc2", Text: "Do you hold a current SOC 2 Type II report?", Type: TypeBoolean, Weight: 8},
		{ID: "sec-subproc", Text: "Are fourth-party subprocessors reviewed for security posture?", Type: TypeBoolean, Weight: 4},
	},
	TypeBusinessContinuity: {
		{ID: "bc-bcp", Text: "Do you maintain a documented business continuity plan?", Type: TypeBoolean, Weight: 9},
		{ID: "bc-dr-test", Text: "Has the disaster recovery plan been tested in the last 12 months?", Type: TypeTested, Weight: 9},
		{ID: "bc-rto", Text: "What is your committed recovery time objective?", Type: TypeMultipleChoice, Options: []string{"Under 4 hours", "Under 24 hours", "Under 72 hours", "Over 72 hours", "Not defined"}, Weight: 7},
		{ID: "bc-backup", Text: "Are backups taken daily and stored in a separate region?", Type: TypeBoolean, Weight: 8},
		{ID: "bc-failover", Text: "Has a full failover exercise been performed?", Type: TypeTested, Weight: 6},
		{ID: "bc-dependency", Text: "Are critical third-party dependencies covered by the continuity plan?", Type: TypeBoolean, Weight: 5},
	},
	TypePrivacy: {
		{ID: "priv-dpa", Text: "Do you sign data processing agreements with all customers?", Type: TypeBoolean, Weight: 8},
		{ID: "priv-deletion", Text: "Is customer data deleted within 30 days of contract termination?", Type: TypeBoolean, Weight: 7},
		{ID: "priv-training", Text: "How often do employees complete privacy training?", Type: TypeMultipleChoice, Options: []string{"Quarterly", "Annually", "At hire only", "Never"}, Weight: 5},
		{ID: "priv-dpia", Text: "Have data protection impact assessments been performed for high-risk processing?", Type: TypeTested, Weight: 6},
		{ID: "priv-breach", Text: "Do you commit to breach notification within 72 hours?", Type: TypeBoolean, Weight: 9},
	},
}

// Catalog returns the immutable question template for an assessment type.
// Callers receive a copy; templates are fixed at configuration time.
func Catalog(assessmentType string) ([]Question, error) {
	key := strings.ToLower(strings.TrimSpace(assessmentType))
	if key == "" {
		key = TypeSecurity
	}
	template, ok := catalogs[key]
	if !ok {
		return nil, fmt.Errorf("unknown assessment type %q (known: %s)", assessmentType, strings.Join(AssessmentTypes(), ", "))
	}
	out := make([]Question, len(template))
	copy(out, template)
	return out, nil
}

// AssessmentTypes lists the known catalog names, sorted.
func AssessmentTypes() []string {
	names := make([]string, 0, len(catalogs))
	for name := range catalogs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
