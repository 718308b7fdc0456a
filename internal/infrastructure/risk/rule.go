package risk

import (
	"github.com/akarpovich/health-analytics/internal/core/domain"
)

// RuleScorer derives the risk score from the share of abnormal parameters:
// 100 * abnormal / total. An empty report scores 0.
type RuleScorer struct{}

func NewRuleScorer() *RuleScorer {
	return &RuleScorer{}
}

func (s *RuleScorer) Assess(_ []domain.ExtractedValue, classified []domain.ClassifiedParameter) domain.RiskAssessment {
	if len(classified) == 0 {
		return domain.RiskAssessment{Score: 0.0, Source: domain.RiskSourceRule}
	}

	abnormal := 0
	for _, p := range classified {
		if p.Abnormal() {
			abnormal++
		}
	}

	score := 100 * float64(abnormal) / float64(len(classified))
	return domain.RiskAssessment{Score: score, Source: domain.RiskSourceRule}
}
