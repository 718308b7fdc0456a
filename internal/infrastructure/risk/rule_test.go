package risk

import (
	"testing"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

func classifiedWith(classes ...domain.Classification) []domain.ClassifiedParameter {
	out := make([]domain.ClassifiedParameter, len(classes))
	for i, c := range classes {
		out[i] = domain.ClassifiedParameter{Parameter: "Param", Classification: c}
	}
	return out
}

func TestRuleScorerEmptyReport(t *testing.T) {
	got := NewRuleScorer().Assess(nil, nil)

	if got.Score != 0.0 {
		t.Fatalf("expected score 0.0 for empty report, got %v", got.Score)
	}
	if got.Source != domain.RiskSourceRule {
		t.Fatalf("expected source %q, got %q", domain.RiskSourceRule, got.Source)
	}
}

func TestRuleScorerAbnormalShare(t *testing.T) {
	cases := []struct {
		name       string
		classified []domain.ClassifiedParameter
		want       float64
	}{
		{
			name:       "all normal",
			classified: classifiedWith(domain.ClassificationNormal, domain.ClassificationNormal),
			want:       0.0,
		},
		{
			name: "one of four",
			classified: classifiedWith(
				domain.ClassificationHigh,
				domain.ClassificationNormal,
				domain.ClassificationNormal,
				domain.ClassificationNormal,
			),
			want: 25.0,
		},
		{
			name:       "half abnormal",
			classified: classifiedWith(domain.ClassificationLow, domain.ClassificationNormal),
			want:       50.0,
		},
		{
			name: "all abnormal",
			classified: classifiedWith(
				domain.ClassificationLow,
				domain.ClassificationHigh,
				domain.ClassificationHigh,
			),
			want: 100.0,
		},
	}

	scorer := NewRuleScorer()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := scorer.Assess(nil, tc.classified)
			if got.Score != tc.want {
				t.Fatalf("expected score %v, got %v", tc.want, got.Score)
			}
			if got.Source != domain.RiskSourceRule {
				t.Fatalf("expected source %q, got %q", domain.RiskSourceRule, got.Source)
			}
		})
	}
}
