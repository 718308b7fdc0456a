package usecase

import (
	"context"
	"fmt"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
)

// BuildTrends groups classified parameters across reports into per-parameter
// series. Report order is preserved as-is: no sorting, deduplication, or gap
// filling. Parameters appear in first-seen order.
func BuildTrends(results []domain.ReportResult) domain.TrendSeries {
	var series domain.TrendSeries
	index := make(map[string]int)

	for _, res := range results {
		for _, p := range res.Parameters {
			i, ok := index[p.Parameter]
			if !ok {
				i = len(series)
				index[p.Parameter] = i
				series = append(series, domain.ParameterTrend{Parameter: p.Parameter})
			}
			series[i].Points = append(series[i].Points, domain.TrendPoint{
				Timestamp:      res.CreatedAt,
				Value:          p.Value,
				Classification: p.Classification,
			})
		}
	}
	return series
}

// TrendReportUseCase aggregates an owner's report history into trend series
// and renders them through the injected renderer.
type TrendReportUseCase struct {
	repo     ports.ReportRepository
	renderer ports.TrendRenderer
}

func NewTrendReportUseCase(repo ports.ReportRepository, renderer ports.TrendRenderer) *TrendReportUseCase {
	return &TrendReportUseCase{repo: repo, renderer: renderer}
}

func (uc *TrendReportUseCase) Trends(ctx context.Context, ownerID string) (domain.TrendSeries, error) {
	results, err := uc.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list reports for owner: %w", err)
	}
	return BuildTrends(results), nil
}

func (uc *TrendReportUseCase) RenderTrends(ctx context.Context, ownerID string) ([]byte, error) {
	series, err := uc.Trends(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	data, err := uc.renderer.RenderTrends(series)
	if err != nil {
		return nil, fmt.Errorf("render trends: %w", err)
	}
	return data, nil
}
