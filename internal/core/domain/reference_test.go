package domain

import "testing"

func TestClassifyBoundaries(t *testing.T) {
	r := ReferenceRange{Parameter: "Glucose", Min: 70.0, Max: 100.0, Unit: "mg/dL"}

	cases := []struct {
		name  string
		value float64
		want  Classification
	}{
		{"below min", 69.0, ClassificationLow},
		{"exactly min", 70.0, ClassificationNormal},
		{"inside", 85.0, ClassificationNormal},
		{"exactly max", 100.0, ClassificationNormal},
		{"above max", 101.0, ClassificationHigh},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := r.Classify(tc.value); got != tc.want {
				t.Fatalf("Classify(%g) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}

func TestNewReferenceSetRejectsInvertedRange(t *testing.T) {
	_, err := NewReferenceSet([]ReferenceRange{
		{Parameter: "Glucose", Min: 100.0, Max: 70.0, Unit: "mg/dL"},
	})
	if !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNewReferenceSetRejectsDuplicates(t *testing.T) {
	_, err := NewReferenceSet([]ReferenceRange{
		{Parameter: "Glucose", Min: 70.0, Max: 100.0},
		{Parameter: "Glucose", Min: 60.0, Max: 90.0},
	})
	if !IsKind(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestDefaultReferenceSetOrder(t *testing.T) {
	set := DefaultReferenceSet()
	want := []string{"Hemoglobin", "RBC", "WBC", "Platelets", "Glucose", "Cholesterol", "HDL", "LDL", "Triglycerides"}
	ranges := set.Ranges()
	if len(ranges) != len(want) {
		t.Fatalf("expected %d ranges, got %d", len(want), len(ranges))
	}
	for i, name := range want {
		if ranges[i].Parameter != name {
			t.Fatalf("position %d: expected %s, got %s", i, name, ranges[i].Parameter)
		}
	}
}

func TestReferenceSetLookup(t *testing.T) {
	set := DefaultReferenceSet()
	r, ok := set.Lookup("Platelets")
	if !ok {
		t.Fatalf("expected Platelets to be present")
	}
	if r.Min != 150.0 || r.Max != 450.0 || r.Unit != "thousand/μL" {
		t.Fatalf("unexpected range: %+v", r)
	}
	if _, ok := set.Lookup("Ferritin"); ok {
		t.Fatalf("expected Ferritin to be absent")
	}
}
