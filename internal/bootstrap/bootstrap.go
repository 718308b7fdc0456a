// Package bootstrap wires configuration into the component graph shared by
// the CLI and the ingest daemon.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/akarpovich/health-analytics/internal/config"
	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/core/ports"
	"github.com/akarpovich/health-analytics/internal/core/usecase"
	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor"
	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor/csvtable"
	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor/ocr"
	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor/pdftext"
	"github.com/akarpovich/health-analytics/internal/infrastructure/refdata"
	"github.com/akarpovich/health-analytics/internal/infrastructure/render"
	"github.com/akarpovich/health-analytics/internal/infrastructure/repository/postgres"
	"github.com/akarpovich/health-analytics/internal/infrastructure/resilience"
	"github.com/akarpovich/health-analytics/internal/infrastructure/risk"
	"github.com/akarpovich/health-analytics/internal/infrastructure/storage/localfs"
	"github.com/akarpovich/health-analytics/internal/observability/metrics"
)

// Pipeline is the stateless analysis graph: extraction strategies, reference
// data, and the risk scorer. It needs no database and is safe for concurrent
// use.
type Pipeline struct {
	Refs      *domain.ReferenceSet
	Insights  *domain.InsightLibrary
	AnalyzeUC ports.ReportAnalyzer
}

// NewPipeline builds the analysis graph from configuration. A missing or
// untrained model artifact is logged and degrades scoring to the fixed
// fallback; it never blocks startup.
func NewPipeline(cfg config.Config, service string, logger *slog.Logger, m *metrics.PipelineMetrics) (*Pipeline, error) {
	refs, err := refdata.ResolveReferenceSet(cfg.ReferenceRangesPath)
	if err != nil {
		return nil, fmt.Errorf("load reference ranges: %w", err)
	}
	insights, err := refdata.ResolveInsightLibrary(cfg.InsightRulesPath)
	if err != nil {
		return nil, fmt.Errorf("load insight rules: %w", err)
	}

	executor := resilience.NewExecutor(resilience.DefaultConfig(), logger)
	imageExtractor := ocr.NewExtractor(ocr.Config{
		Command:  cfg.TesseractCmd,
		Language: cfg.TesseractLang,
	}, nil, executor, logger)
	selector := extractor.NewSelector(imageExtractor, pdftext.NewExtractor(logger), csvtable.NewExtractor())

	artifact, err := risk.LoadArtifact(cfg.ModelPath)
	if err != nil {
		if !domain.IsKind(err, domain.ErrModelNotTrained) {
			return nil, fmt.Errorf("load model artifact: %w", err)
		}
		logger.Warn("risk model artifact unavailable, scoring degrades to the fixed fallback",
			slog.String("path", cfg.ModelPath),
			slog.String("reason", err.Error()))
		artifact = nil
	}
	scorer := risk.NewModelScorer(artifact, logger)
	if m != nil {
		scorer.WithFallbackHook(func() { m.RecordModelFallback(service) })
	}

	return &Pipeline{
		Refs:      refs,
		Insights:  insights,
		AnalyzeUC: usecase.NewAnalyzeReportUseCase(selector, refs, insights, scorer),
	}, nil
}

// App is the full component graph including persistence, staging, and the
// read-side use cases.
type App struct {
	Config   config.Config
	Pipeline *Pipeline

	Repo     ports.ReportRepository
	IngestUC ports.ReportIngestor
	ExportUC ports.ReportExporter
	TrendUC  ports.TrendReporter

	closeFn func()
}

func New(ctx context.Context, cfg config.Config, service string, logger *slog.Logger, m *metrics.PipelineMetrics) (*App, error) {
	pipeline, err := NewPipeline(cfg, service, logger, m)
	if err != nil {
		return nil, err
	}

	db, err := postgres.OpenDB(cfg.PostgresDSN)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	repo := postgres.NewReportRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	storage, err := localfs.New(cfg.StoragePath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init staging storage: %w", err)
	}

	ingestUC := usecase.NewIngestReportUseCase(pipeline.AnalyzeUC, repo, storage, logger)
	exportUC := usecase.NewExportReportUseCase(repo, map[string]ports.ReportRenderer{
		usecase.FormatPDF:  render.NewPDFRenderer(),
		usecase.FormatXLSX: render.NewXLSXRenderer(),
	})
	trendUC := usecase.NewTrendReportUseCase(repo, render.NewTrendChartRenderer(pipeline.Refs))

	return &App{
		Config:   cfg,
		Pipeline: pipeline,

		Repo:     repo,
		IngestUC: ingestUC,
		ExportUC: exportUC,
		TrendUC:  trendUC,

		closeFn: func() {
			_ = db.Close()
		},
	}, nil
}

func (a *App) Close() {
	if a.closeFn != nil {
		a.closeFn()
	}
}
