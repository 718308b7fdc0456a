// healthctl is the operator CLI for the report analysis pipeline: process
// report files, train the risk model, and export persisted results.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/akarpovich/health-analytics/internal/bootstrap"
	"github.com/akarpovich/health-analytics/internal/config"
	"github.com/akarpovich/health-analytics/internal/core/domain"
	"github.com/akarpovich/health-analytics/internal/infrastructure/extractor"
	"github.com/akarpovich/health-analytics/internal/infrastructure/render"
	"github.com/akarpovich/health-analytics/internal/infrastructure/risk"
	"github.com/akarpovich/health-analytics/internal/observability/logging"
)

const serviceName = "healthctl"

func main() {
	app := &cli.Command{
		Name:  "healthctl",
		Usage: "Analyze medical report files and manage the risk model",
		Commands: []*cli.Command{
			cmdProcess,
			cmdRender,
			cmdExport,
			cmdTrends,
			cmdTrain,
			cmdInit,
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var cmdProcess = &cli.Command{
	Name:      "process",
	Usage:     "Run report files through the pipeline and persist the results",
	ArgsUsage: "<file> [<file>...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "owner id the results are stored under (defaults to DEFAULT_OWNER_ID)",
		},
		&cli.StringFlag{
			Name:  "content-type",
			Usage: "declared content type for every file (defaults to per-file extension mapping)",
		},
		&cli.IntFlag{
			Name:  "concurrency",
			Value: 4,
			Usage: "maximum number of files processed in parallel",
		},
	},
	Action: runProcess,
}

func runProcess(ctx context.Context, cmd *cli.Command) error {
	files := cmd.Args().Slice()
	if len(files) == 0 {
		return fmt.Errorf("no input files given")
	}

	cfg := config.Load()
	logger := logging.NewCLILogger(cfg.LogLevel)

	app, err := bootstrap.New(ctx, cfg, serviceName, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	owner := cmd.String("owner")
	if owner == "" {
		owner = cfg.DefaultOwnerID
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(cmd.Int("concurrency")))
	for _, path := range files {
		g.Go(func() error {
			contentType := cmd.String("content-type")
			if contentType == "" {
				ct, ok := extractor.ContentTypeForPath(path)
				if !ok {
					return fmt.Errorf("%s: cannot infer content type, pass --content-type", path)
				}
				contentType = ct
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			result, err := app.IngestUC.Ingest(gctx, owner, filepath.Base(path), contentType, f)
			if err != nil {
				return fmt.Errorf("process %s: %w", path, err)
			}
			fmt.Printf("%s\t%s\tparameters=%d insights=%d risk=%.2f (%s)\n",
				result.ID, path, len(result.Parameters), len(result.Insights),
				result.Risk.Score, result.Risk.Source)
			return nil
		})
	}
	return g.Wait()
}

var cmdRender = &cli.Command{
	Name:      "render",
	Usage:     "Analyze one report file and write a PDF document, without persisting anything",
	ArgsUsage: "<file>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "content-type",
			Usage: "declared content type (defaults to the extension mapping)",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output path (defaults to the input path with a .pdf suffix)",
		},
	},
	Action: runRender,
}

func runRender(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one input file")
	}
	path := cmd.Args().First()

	cfg := config.Load()
	logger := logging.NewCLILogger(cfg.LogLevel)

	pipeline, err := bootstrap.NewPipeline(cfg, serviceName, logger, nil)
	if err != nil {
		return err
	}

	contentType := cmd.String("content-type")
	if contentType == "" {
		ct, ok := extractor.ContentTypeForPath(path)
		if !ok {
			return fmt.Errorf("%s: cannot infer content type, pass --content-type", path)
		}
		contentType = ct
	}

	analysis, err := pipeline.AnalyzeUC.Analyze(ctx, path, contentType)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", path, err)
	}

	result := &domain.ReportResult{
		ID:          uuid.NewString(),
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Parameters:  analysis.Parameters,
		Insights:    analysis.Insights,
		Risk:        analysis.Risk,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := render.NewPDFRenderer().Render(result)
	if err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	out := cmd.String("out")
	if out == "" {
		out = strings.TrimSuffix(path, filepath.Ext(path)) + ".pdf"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Printf("%s\tparameters=%d insights=%d risk=%.2f (%s)\n",
		out, len(result.Parameters), len(result.Insights), result.Risk.Score, result.Risk.Source)
	return nil
}

var cmdExport = &cli.Command{
	Name:      "export",
	Usage:     "Render a persisted report as a document",
	ArgsUsage: "<report-id>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "format",
			Value: "pdf",
			Usage: "output format: pdf or xlsx",
		},
		&cli.StringFlag{
			Name:  "out",
			Usage: "output path (defaults to <report-id>.<format>)",
		},
	},
	Action: runExport,
}

func runExport(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one report id")
	}
	reportID := cmd.Args().First()
	format := cmd.String("format")

	cfg := config.Load()
	logger := logging.NewCLILogger(cfg.LogLevel)

	app, err := bootstrap.New(ctx, cfg, serviceName, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	data, _, err := app.ExportUC.Export(ctx, reportID, format)
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if out == "" {
		out = reportID + "." + format
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Println(out)
	return nil
}

var cmdTrends = &cli.Command{
	Name:  "trends",
	Usage: "Render an owner's historical parameter trends as an HTML chart page",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "owner",
			Usage: "owner id (defaults to DEFAULT_OWNER_ID)",
		},
		&cli.StringFlag{
			Name:  "out",
			Value: "trends.html",
			Usage: "output path",
		},
	},
	Action: runTrends,
}

func runTrends(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()
	logger := logging.NewCLILogger(cfg.LogLevel)

	app, err := bootstrap.New(ctx, cfg, serviceName, logger, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	owner := cmd.String("owner")
	if owner == "" {
		owner = cfg.DefaultOwnerID
	}

	data, err := app.TrendUC.RenderTrends(ctx, owner)
	if err != nil {
		return err
	}

	out := cmd.String("out")
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Println(out)
	return nil
}

var cmdTrain = &cli.Command{
	Name:  "train",
	Usage: "Train the risk model on synthetic panels and write the artifact",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "out",
			Usage: "artifact path (defaults to MODEL_PATH)",
		},
		&cli.IntFlag{
			Name:  "samples",
			Value: 1000,
			Usage: "number of synthetic samples",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Value: 42,
			Usage: "random seed",
		},
	},
	Action: runTrain,
}

func runTrain(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()

	trainCfg := risk.DefaultTrainConfig()
	trainCfg.Samples = int(cmd.Int("samples"))
	trainCfg.Seed = cmd.Uint64("seed")

	artifact, summary, err := risk.Train(trainCfg)
	if err != nil {
		return fmt.Errorf("train model: %w", err)
	}

	out := cmd.String("out")
	if out == "" {
		out = cfg.ModelPath
	}
	if err := risk.SaveArtifact(out, artifact); err != nil {
		return err
	}
	fmt.Printf("%s\tsamples=%d triggers=%d positives=%d accuracy=%.3f\n",
		out, summary.Samples, summary.TriggerCount, summary.PositiveLabels, summary.Accuracy)
	return nil
}

var cmdInit = &cli.Command{
	Name:   "init",
	Usage:  "Create the database schema and the staging directory",
	Action: runInit,
}

func runInit(ctx context.Context, cmd *cli.Command) error {
	cfg := config.Load()
	logger := logging.NewCLILogger(cfg.LogLevel)

	app, err := bootstrap.New(ctx, cfg, serviceName, logger, nil)
	if err != nil {
		return err
	}
	app.Close()
	fmt.Println("schema and staging directory ready")
	return nil
}
