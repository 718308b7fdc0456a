package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
)

// IngestReportUseCase stages an uploaded report file, runs the analysis
// pipeline over it, persists the result, and removes the staged copy on
// every exit path.
type IngestReportUseCase struct {
	analyzer ports.ReportAnalyzer
	repo     ports.ReportRepository
	storage  ports.FileStore
	logger   *slog.Logger
}

func NewIngestReportUseCase(
	analyzer ports.ReportAnalyzer,
	repo ports.ReportRepository,
	storage ports.FileStore,
	logger *slog.Logger,
) *IngestReportUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &IngestReportUseCase{
		analyzer: analyzer,
		repo:     repo,
		storage:  storage,
		logger:   logger,
	}
}

func (uc *IngestReportUseCase) Ingest(
	ctx context.Context,
	ownerID, filename, contentType string,
	body io.Reader,
) (*domain.ReportResult, error) {
	if ownerID == "" {
		return nil, domain.WrapError(domain.ErrInvalidInput, "ingest report", errors.New("empty owner id"))
	}

	id := uuid.NewString()
	stagingKey := fmt.Sprintf("%s_%s", id, sanitizeFilename(filename))

	path, err := uc.storage.Save(ctx, stagingKey, body)
	if err != nil {
		return nil, fmt.Errorf("stage upload: %w", err)
	}
	defer func() {
		if removeErr := uc.storage.Remove(context.WithoutCancel(ctx), stagingKey); removeErr != nil {
			uc.logger.Warn("staged report file not removed",
				slog.String("staging_key", stagingKey),
				slog.String("error", removeErr.Error()))
		}
	}()

	analysis, err := uc.analyzer.Analyze(ctx, path, contentType)
	if err != nil {
		return nil, fmt.Errorf("analyze report: %w", err)
	}

	result := &domain.ReportResult{
		ID:          id,
		OwnerID:     ownerID,
		Filename:    filename,
		ContentType: contentType,
		Parameters:  analysis.Parameters,
		Insights:    analysis.Insights,
		Risk:        analysis.Risk,
		CreatedAt:   time.Now().UTC(),
	}

	if err := uc.repo.Create(ctx, result); err != nil {
		return nil, fmt.Errorf("persist report result: %w", err)
	}

	return result, nil
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r
		case r >= 'A' && r <= 'Z':
			return r
		case r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" {
		return "report.bin"
	}
	return base
}
