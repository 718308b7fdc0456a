// ingestd watches a directory tree for dropped report files, runs each one
// through the analysis pipeline, and persists the results. Pipeline metrics
// are served over HTTP for Prometheus.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/akarpovich/health-analytics/internal/bootstrap"
	"github.com/akarpovich/health-analytics/internal/config"
	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor"
	"github.com/akarpovich/health-analytics/internal/infrastructure/watch"
	"github.com/akarpovich/health-analytics/internal/observability/logging"
	"github.com/akarpovich/health-analytics/internal/observability/metrics"
)

const serviceName = "ingestd"

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger(serviceName, cfg.LogLevel)
	pipelineMetrics := metrics.NewPipelineMetrics(serviceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(ctx, cfg, serviceName, logger, pipelineMetrics)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	metricsSrv := startMetricsServer(cfg.MetricsPort, pipelineMetrics, logger)
	defer shutdownMetricsServer(metricsSrv, logger)

	watcher, err := watch.New(watch.Config{
		Root:        cfg.WatchDir,
		InitialScan: cfg.WatchInitialScan,
		Debounce:    500 * time.Millisecond,
		RatePerSec:  cfg.WatchRatePerSec,
	}, logger)
	if err != nil {
		log.Fatalf("watcher error: %v", err)
	}

	logger.Info("watching for report files",
		slog.String("dir", cfg.WatchDir),
		slog.String("owner_id", cfg.WatchOwnerID))

	err = watcher.Run(ctx, func(ctx context.Context, path string) {
		ingestFile(ctx, app, cfg.WatchOwnerID, path, logger, pipelineMetrics)
	})
	if err != nil {
		log.Fatalf("watcher error: %v", err)
	}
}

// ingestFile processes one discovered file and deletes it on success so the
// inbox does not accumulate already-ingested reports. Failed files stay in
// place for inspection.
func ingestFile(
	ctx context.Context,
	app *bootstrap.App,
	ownerID, path string,
	logger *slog.Logger,
	m *metrics.PipelineMetrics,
) {
	contentType, ok := extractor.ContentTypeForPath(path)
	if !ok {
		logger.Warn("skipping file with unknown extension", slog.String("path", path))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error("open report file", slog.String("path", path), slog.String("error", err.Error()))
		return
	}
	defer f.Close()

	m.StartReport()
	start := time.Now()
	result, err := app.IngestUC.Ingest(ctx, ownerID, filepath.Base(path), contentType, f)
	m.FinishReport(serviceName, time.Since(start), err)

	if err != nil {
		if domain.IsKind(err, domain.ErrExtractionFailed) || domain.IsKind(err, domain.ErrUnsupportedFormat) {
			m.RecordExtractionFailure(serviceName, contentType)
		}
		logger.Error("report ingestion failed",
			slog.String("path", path),
			slog.String("content_type", contentType),
			slog.String("error", err.Error()))
		return
	}

	logger.Info("report ingested",
		slog.String("path", path),
		slog.String("report_id", result.ID),
		slog.Int("parameters", len(result.Parameters)),
		slog.Int("insights", len(result.Insights)),
		slog.Float64("risk_score", result.Risk.Score),
		slog.String("risk_source", string(result.Risk.Source)))

	_ = f.Close()
	if err := os.Remove(path); err != nil {
		logger.Warn("ingested file not removed", slog.String("path", path), slog.String("error", err.Error()))
	}
}

func startMetricsServer(port string, m *metrics.PipelineMetrics, logger *slog.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	srv := &http.Server{
		Addr:              net.JoinHostPort("", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics listener failed", slog.String("error", err.Error()))
		}
	}()
	return srv
}

func shutdownMetricsServer(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("metrics listener shutdown", slog.String("error", err.Error()))
	}
}
