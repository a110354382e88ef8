package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"msascore/internal/batch"
)

const (
	scoresSheet  = "Scores"
	summarySheet = "Summary"
)

// ExportExcel writes a workbook with the scored markets and a summary sheet
// of composite distribution statistics.
func (w *Writer) ExportExcel(result *batch.Result, fileName string) error {
	fullPath := filepath.Join(w.outDir, fileName)
	w.logger.Info("writing scores workbook",
		slog.String("path", fullPath),
		slog.Int("records", len(result.Records)),
		slog.String("run_id", result.Metadata.RunID))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", scoresSheet)
	if err := w.writeScoresSheet(f, result); err != nil {
		return err
	}
	if err := w.writeSummarySheet(f, result); err != nil {
		return err
	}

	if err := f.SaveAs(fullPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func (w *Writer) writeScoresSheet(f *excelize.File, result *batch.Result) error {
	for col, header := range scoreHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(scoresSheet, cell, header); err != nil {
			return fmt.Errorf("write header %s: %w", header, err)
		}
	}

	rows, err := w.scoreRows(result.Records)
	if err != nil {
		return err
	}

	for rowIdx, row := range rows {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("score cell: %w", err)
			}
			if err := f.SetCellValue(scoresSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", rowIdx+1, err)
			}
		}
	}

	return nil
}

func (w *Writer) writeSummarySheet(f *excelize.File, result *batch.Result) error {
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}

	summary, err := Summarize(result.Records)
	if err != nil {
		return err
	}

	lines := []struct {
		label string
		value interface{}
	}{
		{"run_id", result.Metadata.RunID},
		{"weight_scheme_id", result.Metadata.WeightSchemeID},
		{"as_of", result.Metadata.AsOf.Format("2006-01-02")},
		{"markets_scored", result.Metadata.MarketsScored},
		{"markets_skipped", result.Metadata.MarketsSkipped},
		{"composite_mean", formatScore(summary.Mean)},
		{"composite_median", formatScore(summary.Median)},
		{"composite_std_dev", formatScore(summary.StdDev)},
		{"composite_min", formatScore(summary.Min)},
		{"composite_max", formatScore(summary.Max)},
	}

	for i, line := range lines {
		labelCell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		valueCell, err := excelize.CoordinatesToCellName(2, i+1)
		if err != nil {
			return fmt.Errorf("summary cell: %w", err)
		}
		if err := f.SetCellValue(summarySheet, labelCell, line.label); err != nil {
			return fmt.Errorf("write summary label %s: %w", line.label, err)
		}
		if err := f.SetCellValue(summarySheet, valueCell, line.value); err != nil {
			return fmt.Errorf("write summary value %s: %w", line.label, err)
		}
	}

	return nil
}
