package usecase

import (
	"context"
	"fmt"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
)

const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// ExportReportUseCase renders a persisted result in one of the registered
// formats.
type ExportReportUseCase struct {
	repo      ports.ReportRepository
	renderers map[string]ports.ReportRenderer
}

func NewExportReportUseCase(repo ports.ReportRepository, renderers map[string]ports.ReportRenderer) *ExportReportUseCase {
	return &ExportReportUseCase{repo: repo, renderers: renderers}
}

func (uc *ExportReportUseCase) Export(ctx context.Context, reportID, format string) ([]byte, string, error) {
	renderer, ok := uc.renderers[format]
	if !ok {
		return nil, "", domain.WrapError(domain.ErrInvalidInput, "select renderer", fmt.Errorf("unknown format %q", format))
	}

	result, err := uc.repo.GetByID(ctx, reportID)
	if err != nil {
		return nil, "", fmt.Errorf("fetch report: %w", err)
	}

	data, err := renderer.Render(result)
	if err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}
	return data, renderer.ContentType(), nil
}
