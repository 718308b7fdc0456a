// Package ocr extracts text from scanned report images by shelling out to a
// tesseract binary.
package ocr

import (
	"context"
	"errors"
	"log/slog"
	"os/exec"
	"time"

	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/infrastructure/resilience"
)

type Config struct {
	Command  string
	Language string
}

type Extractor struct {
	cfg    Config
	runner Runner
	exec   *resilience.Executor
	logger *slog.Logger
}

func NewExtractor(cfg Config, runner Runner, executor *resilience.Executor, logger *slog.Logger) *Extractor {
	if cfg.Command == "" {
		cfg.Command = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if runner == nil {
		runner = execRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if executor == nil {
		executor = resilience.NewExecutor(resilience.DefaultConfig(), logger)
	}
	return &Extractor{cfg: cfg, runner: runner, exec: executor, logger: logger}
}

// Extract runs the engine over the image at path. The input file is never
// modified. Engine failure is fatal for the report and surfaces as
// domain.ErrExtractionFailed.
func (e *Extractor) Extract(ctx context.Context, path string) (string, error) {
	var out []byte
	err := e.exec.Execute(ctx, "ocr", func(ctx context.Context) error {
		start := time.Now()
		// tesseract <file> stdout -l <lang>
		stdout, stderr, runErr := e.runner.Run(ctx, e.cfg.Command, path, "stdout", "-l", e.cfg.Language)
		if runErr != nil {
			e.logger.Error("ocr engine failed",
				slog.String("path", path),
				slog.Int64("duration_ms", time.Since(start).Milliseconds()),
				slog.String("stderr", truncate(string(stderr), 8<<10)),
				slog.String("error", runErr.Error()),
			)
			return runErr
		}
		e.logger.Debug("ocr engine ok",
			slog.String("path", path),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
			slog.Int("stdout_bytes", len(stdout)),
		)
		out = stdout
		return nil
	}, classifyEngineError)
	if err != nil {
		return "", domain.WrapError(domain.ErrExtractionFailed, "run ocr engine", err)
	}
	return string(out), nil
}

func classifyEngineError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Killed by a signal → the engine died mid-run, worth one more try.
		// A clean non-zero exit points at the input, not the engine.
		if exitErr.ExitCode() == -1 {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}

	var pathErr *exec.Error
	if errors.As(err, &pathErr) {
		// Binary missing or not executable: every call will fail the same way.
		return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
}
