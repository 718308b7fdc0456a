package usecase

import (
	"context"
	"fmt"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
)

// AnalyzeReportUseCase runs the analysis pipeline over a single report file:
// text extraction, parameter extraction, classification, insight derivation,
// risk scoring. It persists nothing and leaves the input file in place.
type AnalyzeReportUseCase struct {
	extractors ports.ExtractorSelector
	refs       *domain.ReferenceSet
	insights   *domain.InsightLibrary
	scorer     ports.RiskScorer
}

func NewAnalyzeReportUseCase(
	extractors ports.ExtractorSelector,
	refs *domain.ReferenceSet,
	insights *domain.InsightLibrary,
	scorer ports.RiskScorer,
) *AnalyzeReportUseCase {
	return &AnalyzeReportUseCase{
		extractors: extractors,
		refs:       refs,
		insights:   insights,
		scorer:     scorer,
	}
}

func (uc *AnalyzeReportUseCase) Analyze(ctx context.Context, path, contentType string) (*domain.Analysis, error) {
	text, err := uc.extractText(ctx, path, contentType)
	if err != nil {
		return nil, err
	}

	// Empty text is not an error: it yields zero parameters and the scorer
	// still produces an assessment.
	extracted := ExtractParameters(text, uc.refs)
	classified := uc.classify(extracted)
	insights := uc.deriveInsights(classified)
	risk := uc.scorer.Assess(extracted, classified)

	return &domain.Analysis{
		Parameters: classified,
		Insights:   insights,
		Risk:       risk,
	}, nil
}

func (uc *AnalyzeReportUseCase) extractText(ctx context.Context, path, contentType string) (string, error) {
	extractor, err := uc.extractors.Select(contentType)
	if err != nil {
		return "", fmt.Errorf("select extractor: %w", err)
	}
	text, err := extractor.Extract(ctx, path)
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}
	return text, nil
}

func (uc *AnalyzeReportUseCase) classify(extracted []domain.ExtractedValue) []domain.ClassifiedParameter {
	classified := make([]domain.ClassifiedParameter, 0, len(extracted))
	for _, ev := range extracted {
		r, ok := uc.refs.Lookup(ev.Parameter)
		if !ok {
			// Extraction only emits known parameters.
			continue
		}
		classified = append(classified, domain.ClassifiedParameter{
			Parameter:      ev.Parameter,
			Value:          ev.Value,
			Unit:           r.Unit,
			RangeMin:       r.Min,
			RangeMax:       r.Max,
			Classification: r.Classify(ev.Value),
		})
	}
	return classified
}

func (uc *AnalyzeReportUseCase) deriveInsights(classified []domain.ClassifiedParameter) []domain.Insight {
	var insights []domain.Insight
	for _, p := range classified {
		if in, ok := uc.insights.Lookup(p.Parameter, p.Classification); ok {
			insights = append(insights, in)
		}
	}
	return insights
}
