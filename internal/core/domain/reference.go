package domain

import "fmt"

// ReferenceRange is the normal interval for one parameter. Values equal to a
// bound are classified Normal.
type ReferenceRange struct {
	Parameter string  `json:"parameter"`
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Unit      string  `json:"unit"`
}

func (r ReferenceRange) Classify(value float64) Classification {
	switch {
	case value < r.Min:
		return ClassificationLow
	case value > r.Max:
		return ClassificationHigh
	default:
		return ClassificationNormal
	}
}

// ReferenceSet is an immutable, ordered collection of reference ranges.
// Declaration order drives parameter-name scan priority during extraction, so
// it must stay deterministic.
type ReferenceSet struct {
	ranges []ReferenceRange
	index  map[string]int
}

func NewReferenceSet(ranges []ReferenceRange) (*ReferenceSet, error) {
	if len(ranges) == 0 {
		return nil, fmt.Errorf("reference set: %w: no ranges", ErrInvalidInput)
	}
	set := &ReferenceSet{
		ranges: make([]ReferenceRange, 0, len(ranges)),
		index:  make(map[string]int, len(ranges)),
	}
	for _, r := range ranges {
		if r.Parameter == "" {
			return nil, fmt.Errorf("reference set: %w: empty parameter name", ErrInvalidInput)
		}
		if r.Min > r.Max {
			return nil, fmt.Errorf("reference set: %w: %s has min %g above max %g", ErrInvalidInput, r.Parameter, r.Min, r.Max)
		}
		if _, dup := set.index[r.Parameter]; dup {
			return nil, fmt.Errorf("reference set: %w: duplicate parameter %s", ErrInvalidInput, r.Parameter)
		}
		set.index[r.Parameter] = len(set.ranges)
		set.ranges = append(set.ranges, r)
	}
	return set, nil
}

// Ranges returns the ranges in declaration order. The slice is a copy.
func (s *ReferenceSet) Ranges() []ReferenceRange {
	out := make([]ReferenceRange, len(s.ranges))
	copy(out, s.ranges)
	return out
}

func (s *ReferenceSet) Lookup(parameter string) (ReferenceRange, bool) {
	i, ok := s.index[parameter]
	if !ok {
		return ReferenceRange{}, false
	}
	return s.ranges[i], true
}

func (s *ReferenceSet) Len() int {
	return len(s.ranges)
}

// DefaultReferenceSet returns the built-in ranges for a standard blood panel.
func DefaultReferenceSet() *ReferenceSet {
	set, err := NewReferenceSet([]ReferenceRange{
		{Parameter: "Hemoglobin", Min: 12.0, Max: 16.0, Unit: "g/dL"},
		{Parameter: "RBC", Min: 4.0, Max: 5.5, Unit: "million/μL"},
		{Parameter: "WBC", Min: 4.0, Max: 11.0, Unit: "thousand/μL"},
		{Parameter: "Platelets", Min: 150.0, Max: 450.0, Unit: "thousand/μL"},
		{Parameter: "Glucose", Min: 70.0, Max: 100.0, Unit: "mg/dL"},
		{Parameter: "Cholesterol", Min: 0.0, Max: 200.0, Unit: "mg/dL"},
		{Parameter: "HDL", Min: 40.0, Max: 60.0, Unit: "mg/dL"},
		{Parameter: "LDL", Min: 0.0, Max: 130.0, Unit: "mg/dL"},
		{Parameter: "Triglycerides", Min: 0.0, Max: 150.0, Unit: "mg/dL"},
	})
	if err != nil {
		panic(err)
	}
	return set
}
