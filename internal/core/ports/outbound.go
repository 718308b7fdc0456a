package ports

import (
	"context"
	"io"

	"github.com/akarpovich/health-analytics/internal/core/domain"
)

// ReportRepository persists and reads analyzed report results.
type ReportRepository interface {
	Create(ctx context.Context, result *domain.ReportResult) error
	GetByID(ctx context.Context, id string) (*domain.ReportResult, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.ReportResult, error)
}

// FileStore stages uploaded report files on local disk. Save returns the
// absolute path of the staged copy so extractors can address it directly.
type FileStore interface {
	Save(ctx context.Context, key string, data io.Reader) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
}

// TextExtractor turns one report file into plain text. Implementations never
// delete or mutate the input file.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorSelector maps a declared content type to an extraction strategy.
// Unknown content types yield domain.ErrUnsupportedFormat; file bytes are
// never sniffed.
type ExtractorSelector interface {
	Select(contentType string) (TextExtractor, error)
}

// RiskScorer produces an overall risk assessment. It never fails: model
// implementations degrade to the fixed fallback score instead of erroring.
type RiskScorer interface {
	Assess(extracted []domain.ExtractedValue, classified []domain.ClassifiedParameter) domain.RiskAssessment
}

// ReportRenderer turns one result into a formatted document.
type ReportRenderer interface {
	Render(result *domain.ReportResult) ([]byte, error)
	ContentType() string
}

// TrendRenderer turns trend series into a formatted document.
type TrendRenderer interface {
	RenderTrends(series domain.TrendSeries) ([]byte, error)
}
