package domain

import "fmt"

type Insight struct {
	Parameter      string `json:"parameter"`
	Insight        string `json:"insight"`
	Recommendation string `json:"recommendation"`
}

// InsightRule maps an abnormal verdict for one parameter to guidance text.
// Only Low and High verdicts may carry rules.
type InsightRule struct {
	Parameter      string         `json:"parameter"`
	Classification Classification `json:"classification"`
	Insight        string         `json:"insight"`
	Recommendation string         `json:"recommendation"`
}

type insightKey struct {
	parameter      string
	classification Classification
}

// InsightLibrary is an immutable lookup of insight rules. Parameters or
// verdicts without a rule simply yield nothing.
type InsightLibrary struct {
	rules map[insightKey]InsightRule
}

func NewInsightLibrary(rules []InsightRule) (*InsightLibrary, error) {
	lib := &InsightLibrary{rules: make(map[insightKey]InsightRule, len(rules))}
	for _, r := range rules {
		if r.Parameter == "" || r.Insight == "" {
			return nil, fmt.Errorf("insight library: %w: rule missing parameter or insight text", ErrInvalidInput)
		}
		if r.Classification != ClassificationLow && r.Classification != ClassificationHigh {
			return nil, fmt.Errorf("insight library: %w: %s rule for %q, only Low and High are allowed", ErrInvalidInput, r.Classification, r.Parameter)
		}
		key := insightKey{r.Parameter, r.Classification}
		if _, dup := lib.rules[key]; dup {
			return nil, fmt.Errorf("insight library: %w: duplicate rule for %s/%s", ErrInvalidInput, r.Parameter, r.Classification)
		}
		lib.rules[key] = r
	}
	return lib, nil
}

func (l *InsightLibrary) Lookup(parameter string, c Classification) (Insight, bool) {
	r, ok := l.rules[insightKey{parameter, c}]
	if !ok {
		return Insight{}, false
	}
	return Insight{Parameter: r.Parameter, Insight: r.Insight, Recommendation: r.Recommendation}, true
}

func (l *InsightLibrary) Len() int {
	return len(l.rules)
}

// DefaultInsightLibrary returns the built-in knowledge base.
func DefaultInsightLibrary() *InsightLibrary {
	lib, err := NewInsightLibrary([]InsightRule{
		{
			Parameter:      "Hemoglobin",
			Classification: ClassificationLow,
			Insight:        "Possible anemia",
			Recommendation: "Consult a doctor for possible iron deficiency. Consider iron-rich foods like spinach, red meat, and legumes.",
		},
		{
			Parameter:      "Hemoglobin",
			Classification: ClassificationHigh,
			Insight:        "Possible dehydration or other conditions",
			Recommendation: "Ensure adequate hydration and consult a doctor for further evaluation.",
		},
		{
			Parameter:      "Glucose",
			Classification: ClassificationHigh,
			Insight:        "Risk of diabetes",
			Recommendation: "Monitor blood sugar levels. Reduce sugar intake and consult a doctor.",
		},
		{
			Parameter:      "Glucose",
			Classification: ClassificationLow,
			Insight:        "Possible hypoglycemia",
			Recommendation: "Eat regular meals and consult a doctor if symptoms persist.",
		},
		{
			Parameter:      "Cholesterol",
			Classification: ClassificationHigh,
			Insight:        "Risk of cardiovascular disease",
			Recommendation: "Reduce saturated fat intake, exercise regularly, and consult a doctor.",
		},
		{
			Parameter:      "WBC",
			Classification: ClassificationHigh,
			Insight:        "Possible infection or inflammation",
			Recommendation: "Monitor for signs of infection and consult a doctor if symptoms develop.",
		},
		{
			Parameter:      "WBC",
			Classification: ClassificationLow,
			Insight:        "Possible immune system issues",
			Recommendation: "Avoid exposure to infections and consult a doctor.",
		},
	})
	if err != nil {
		panic(err)
	}
	return lib
}
