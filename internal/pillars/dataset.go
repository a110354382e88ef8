package pillars

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Dataset is a raw metric panel: one row per market, one column per metric.
// Missing observations are carried as NaN and flow through normalization
// unchanged. A Dataset is immutable once loaded.
type Dataset struct {
	Markets []string
	series  map[string][]float64
}

// NewDataset builds a dataset from pre-assembled metric series. Every series
// must have one value per market.
func NewDataset(markets []string, series map[string][]float64) (*Dataset, error) {
	if len(markets) == 0 {
		return nil, fmt.Errorf("no markets provided")
	}
	for name, values := range series {
		if len(values) != len(markets) {
			return nil, fmt.Errorf("metric %s has %d values for %d markets", name, len(values), len(markets))
		}
	}

	copied := make(map[string][]float64, len(series))
	for name, values := range series {
		s := make([]float64, len(values))
		copy(s, values)
		copied[name] = s
	}

	return &Dataset{Markets: append([]string(nil), markets...), series: copied}, nil
}

// MetricValues returns the per-market series for one metric, ordered like
// Markets. The returned slice is a copy.
func (d *Dataset) MetricValues(name string) ([]float64, error) {
	values, ok := d.series[name]
	if !ok {
		return nil, fmt.Errorf("metric %s not present in dataset", name)
	}
	out := make([]float64, len(values))
	copy(out, values)
	return out, nil
}

// HasMetric reports whether the dataset carries a series for name.
func (d *Dataset) HasMetric(name string) bool {
	_, ok := d.series[name]
	return ok
}

// LoadCSV reads a raw metric panel from a CSV file. The expected layout is a
// header row of "market_id" followed by metric names, then one row per
// market. Empty cells and the markers "NA" and "NaN" are treated as missing
// observations.
func LoadCSV(path string) (*Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset CSV: %w", err)
	}

	if len(rows) < 2 {
		return nil, fmt.Errorf("dataset CSV must contain a header and at least one market row")
	}

	header := rows[0]
	if len(header) < 2 || !strings.EqualFold(strings.TrimSpace(header[0]), "market_id") {
		return nil, fmt.Errorf("dataset CSV header must start with market_id followed by metric columns")
	}

	metricNames := make([]string, len(header)-1)
	for i, name := range header[1:] {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			return nil, fmt.Errorf("empty metric name in column %d", i+2)
		}
		if _, ok := LookupMetric(trimmed); !ok {
			return nil, fmt.Errorf("unknown metric %q in dataset header", trimmed)
		}
		metricNames[i] = trimmed
	}

	markets := make([]string, 0, len(rows)-1)
	series := make(map[string][]float64, len(metricNames))
	for _, name := range metricNames {
		series[name] = make([]float64, 0, len(rows)-1)
	}

	for rowIdx, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", rowIdx+2, len(row), len(header))
		}

		marketID := strings.TrimSpace(row[0])
		if marketID == "" {
			return nil, fmt.Errorf("row %d has an empty market_id", rowIdx+2)
		}
		markets = append(markets, marketID)

		for colIdx, cell := range row[1:] {
			value, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("row %d column %s: %w", rowIdx+2, metricNames[colIdx], err)
			}
			series[metricNames[colIdx]] = append(series[metricNames[colIdx]], value)
		}
	}

	return NewDataset(markets, series)
}

// parseCell converts one CSV cell to a float, mapping the missing-value
// markers to NaN.
func parseCell(cell string) (float64, error) {
	trimmed := strings.TrimSpace(cell)
	if trimmed == "" || strings.EqualFold(trimmed, "NA") || strings.EqualFold(trimmed, "NaN") {
		return math.NaN(), nil
	}

	value, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", trimmed, err)
	}
	return value, nil
}

// LoadRiskCSV reads per-market risk multipliers from a two-column CSV with a
// "market_id,risk_multiplier" header. Markets absent from the file default
// to a neutral 1.0 at scoring time.
func LoadRiskCSV(path string) (map[string]float64, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open risk file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read risk CSV: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("risk CSV is empty")
	}

	risk := make(map[string]float64, len(rows)-1)
	for rowIdx, row := range rows[1:] {
		if len(row) < 2 {
			return nil, fmt.Errorf("risk row %d has %d fields, expected 2", rowIdx+2, len(row))
		}
		marketID := strings.TrimSpace(row[0])
		value, err := strconv.ParseFloat(strings.TrimSpace(row[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("risk row %d: parse multiplier: %w", rowIdx+2, err)
		}
		risk[marketID] = value
	}

	return risk, nil
}
