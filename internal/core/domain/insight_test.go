package domain

import "testing"

func TestInsightLookupKnownRule(t *testing.T) {
	lib := DefaultInsightLibrary()
	in, ok := lib.Lookup("Hemoglobin", ClassificationLow)
	if !ok {
		t.Fatalf("expected rule for low hemoglobin")
	}
	if in.Insight != "Possible anemia" {
		t.Fatalf("unexpected insight: %q", in.Insight)
	}
	if in.Parameter != "Hemoglobin" {
		t.Fatalf("unexpected parameter: %q", in.Parameter)
	}
}

func TestInsightLookupMissing(t *testing.T) {
	lib := DefaultInsightLibrary()

	// Normal never carries a rule.
	if _, ok := lib.Lookup("Glucose", ClassificationNormal); ok {
		t.Fatalf("expected no insight for normal glucose")
	}
	// Cholesterol only has a high rule.
	if _, ok := lib.Lookup("Cholesterol", ClassificationLow); ok {
		t.Fatalf("expected no insight for low cholesterol")
	}
	// Parameter absent from the knowledge base.
	if _, ok := lib.Lookup("Platelets", ClassificationHigh); ok {
		t.Fatalf("expected no insight for platelets")
	}
}

func TestNewInsightLibraryRejectsNormalRule(t *testing.T) {
	_, err := NewInsightLibrary([]InsightRule{
		{Parameter: "Glucose", Classification: ClassificationNormal, Insight: "fine"},
	})
	if !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
