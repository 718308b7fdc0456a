package ports

import (
	"context"
	"io"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

// ReportIngestor is the inbound contract for report upload orchestration:
// stage the file, run the pipeline, persist the result, always unstage.
type ReportIngestor interface {
	Ingest(ctx context.Context, ownerID, filename, contentType string, body io.Reader) (*domain.ReportResult, error)
}

// ReportAnalyzer runs the analysis pipeline over a file already on disk
// without persisting anything. The file is left untouched.
type ReportAnalyzer interface {
	Analyze(ctx context.Context, path, contentType string) (*domain.Analysis, error)
}

// ReportExporter renders a persisted result in a named format.
type ReportExporter interface {
	Export(ctx context.Context, reportID, format string) ([]byte, string, error)
}

// TrendReporter aggregates an owner's history into per-parameter series.
type TrendReporter interface {
	Trends(ctx context.Context, ownerID string) (domain.TrendSeries, error)
	RenderTrends(ctx context.Context, ownerID string) ([]byte, error)
}
