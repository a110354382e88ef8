package exporter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"msascore/internal/batch"
	"msascore/internal/scoring"
)

// scoreHeaders is the fixed CSV column layout. The display bucket comes
// last; it is a projection of composite_0_100 and never feeds back into
// score arithmetic.
var scoreHeaders = []string{
	"market_id",
	"as_of",
	"supply_0_100",
	"jobs_0_100",
	"urban_0_100",
	"outdoors_0_100",
	"composite_0_100",
	"composite_0_5",
	"risk_multiplier",
	"risk_clamped",
	"weight_norm",
	"weight_scheme_id",
	"run_id",
	"bucket",
}

// Writer exports batch results to an output directory.
type Writer struct {
	outDir     string
	thresholds []float64
	logger     *slog.Logger
}

// NewWriter creates a writer rooted at outDir. Thresholds drive the display
// bucket column and are validated once here.
func NewWriter(outDir string, thresholds []float64, logger *slog.Logger) (*Writer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if len(thresholds) == 0 {
		thresholds = scoring.DefaultThresholds()
	}
	if err := scoring.ValidateThresholds(thresholds); err != nil {
		return nil, fmt.Errorf("bucket thresholds: %w", err)
	}
	return &Writer{outDir: outDir, thresholds: thresholds, logger: logger}, nil
}

// ExportCSV writes one row per scored market to fileName under the output
// directory, UTF-8 BOM prefixed so Excel opens it cleanly.
func (w *Writer) ExportCSV(result *batch.Result, fileName string) error {
	rows, err := w.scoreRows(result.Records)
	if err != nil {
		return err
	}

	fullPath := filepath.Join(w.outDir, fileName)
	w.logger.Info("writing scores CSV",
		slog.String("path", fullPath),
		slog.Int("records", len(rows)),
		slog.String("run_id", result.Metadata.RunID))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(scoreHeaders); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// ExportJSON writes the full batch result, metadata included, as indented
// JSON.
func (w *Writer) ExportJSON(result *batch.Result, fileName string) error {
	fullPath := filepath.Join(w.outDir, fileName)
	w.logger.Info("writing scores JSON",
		slog.String("path", fullPath),
		slog.Int("records", len(result.Records)),
		slog.String("run_id", result.Metadata.RunID))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if err := os.WriteFile(fullPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON file: %w", err)
	}
	return nil
}

// scoreRows converts records to CSV cells in record order.
func (w *Writer) scoreRows(records []scoring.CompositeScoreRecord) ([][]string, error) {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		bucket, err := scoring.ToFiveBucket(r.Composite0100, w.thresholds)
		if err != nil {
			return nil, fmt.Errorf("bucket market %s: %w", r.MarketID, err)
		}

		rows = append(rows, []string{
			r.MarketID,
			r.AsOf.Format("2006-01-02"),
			formatScore(r.PillarScores.Supply),
			formatScore(r.PillarScores.Jobs),
			formatScore(r.PillarScores.Urban),
			formatScore(r.PillarScores.Outdoors),
			formatScore(r.Composite0100),
			formatScore(r.Composite05),
			formatScore(r.RiskMultiplier),
			formatBool(r.RiskClamped),
			formatScore(r.WeightNorm),
			r.WeightSchemeID,
			r.RunID,
			formatBucket(bucket),
		})
	}
	return rows, nil
}
