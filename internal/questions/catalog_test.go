package questions

import "testing"

func TestCatalogKnownTypes(t *testing.T) {
	for _, name := range AssessmentTypes() {
		qs, err := Catalog(name)
		if err != nil {
			t.Fatalf("Catalog(%s): %v", name, err)
		}
		if len(qs) == 0 {
			t.Fatalf("Catalog(%s) is empty", name)
		}
		if err := Validate(qs); err != nil {
			t.Fatalf("Catalog(%s) invalid: %v", name, err)
		}
	}
}

func TestCatalogDefaultsToSecurity(t *testing.T) {
	qs, err := Catalog("")
	if err != nil {
		t.Fatalf("Catalog(\"\"): %v", err)
	}
	sec, _ := Catalog(TypeSecurity)
	if len(qs) != len(sec) {
		t.Fatalf("empty type should default to security catalog")
	}
}

func TestCatalogUnknownType(t *testing.T) {
	if _, err := Catalog("astrology"); err == nil {
		t.Fatal("expected error for unknown assessment type")
	}
}

func TestCatalogReturnsCopy(t *testing.T) {
	a, _ := Catalog(TypeSecurity)
	a[0].Text = "mutated"
	b, _ := Catalog(TypeSecurity)
	if b[0].Text == "mutated" {
		t.Fatal("catalog must not expose shared backing array")
	}
}
