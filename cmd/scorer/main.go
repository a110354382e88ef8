// Command scorer runs a batch scoring pass over a raw metric panel: it
// normalizes every metric cross-sectionally, aggregates the four pillars per
// market, composes the final scores and exports CSV, JSON and Excel outputs.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"msascore/internal/batch"
	"msascore/internal/config"
	"msascore/internal/exporter"
	"msascore/internal/infrastructure"
	"msascore/internal/pillars"
)

func main() {
	dataPath := flag.String("data", "", "path to the raw metric panel CSV (required)")
	schemePath := flag.String("scheme", "", "path to a weight scheme YAML (defaults to the built-in scheme)")
	riskPath := flag.String("risk", "", "path to a per-market risk multiplier CSV (optional)")
	configPath := flag.String("config", "", "path to a config YAML (optional)")
	outDir := flag.String("out", "", "output directory (defaults to the configured export directory)")
	asOfFlag := flag.String("as-of", time.Now().Format("2006-01-02"), "scoring date, YYYY-MM-DD")
	flag.Parse()

	if *dataPath == "" {
		fmt.Fprintln(os.Stderr, "usage: scorer -data panel.csv [-scheme scheme.yaml] [-risk risk.csv] [-out dir] [-as-of YYYY-MM-DD]")
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := infrastructure.MustInitializeLogger(cfg.Logging)

	asOf, err := time.Parse("2006-01-02", *asOfFlag)
	if err != nil {
		logger.Error("Invalid as-of date", "value", *asOfFlag, "error", err)
		os.Exit(1)
	}

	if *outDir == "" {
		*outDir = cfg.Export.OutDir
	}

	logger.Info("Loading metric panel", "path", *dataPath)
	dataset, err := pillars.LoadCSV(*dataPath)
	if err != nil {
		logger.Error("Failed to load metric panel", "error", err)
		os.Exit(1)
	}
	logger.Info("Loaded metric panel", "markets", len(dataset.Markets))

	scheme := pillars.DefaultScheme()
	if *schemePath != "" {
		scheme, err = pillars.LoadScheme(*schemePath)
		if err != nil {
			logger.Error("Failed to load weight scheme", "error", err)
			os.Exit(1)
		}
		logger.Info("Loaded weight scheme", "id", scheme.ID)
	}

	var riskByMarket map[string]float64
	if *riskPath != "" {
		riskByMarket, err = pillars.LoadRiskCSV(*riskPath)
		if err != nil {
			logger.Error("Failed to load risk multipliers", "error", err)
			os.Exit(1)
		}
		logger.Info("Loaded risk multipliers", "markets", len(riskByMarket))
	}

	runner := batch.NewRunner(cfg.NormalizationParams(), cfg.RiskPolicy(), cfg.MissingMode(), logger)
	runner.SetMaxConcurrency(cfg.Engine.MaxConcurrency)

	ctx := infrastructure.EnsureTraceID(context.Background())
	result, err := runner.Run(ctx, dataset, scheme, riskByMarket, asOf)
	if err != nil {
		logger.Error("Batch scoring failed", "error", err)
		os.Exit(1)
	}

	writer, err := exporter.NewWriter(*outDir, cfg.Engine.Thresholds, logger)
	if err != nil {
		logger.Error("Failed to create exporter", "error", err)
		os.Exit(1)
	}

	base := "scores_" + asOf.Format("2006-01-02")
	if err := writer.ExportCSV(result, base+".csv"); err != nil {
		logger.Error("CSV export failed", "error", err)
		os.Exit(1)
	}
	if err := writer.ExportJSON(result, base+".json"); err != nil {
		logger.Error("JSON export failed", "error", err)
		os.Exit(1)
	}
	if err := writer.ExportExcel(result, base+".xlsx"); err != nil {
		logger.Error("Excel export failed", "error", err)
		os.Exit(1)
	}

	summary, err := exporter.Summarize(result.Records)
	if err != nil {
		logger.Error("Summary computation failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Batch scoring complete",
		"run_id", result.Metadata.RunID,
		"markets_scored", result.Metadata.MarketsScored,
		"markets_skipped", result.Metadata.MarketsSkipped,
		"composite_mean", summary.Mean,
		"composite_median", summary.Median,
		"out_dir", *outDir,
	)
}
