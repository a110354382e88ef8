package exporter

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"msascore/internal/scoring"
)

// Summary holds distribution statistics over the 0-100 composite of one
// batch run.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes composite distribution statistics for a batch run.
func Summarize(records []scoring.CompositeScoreRecord) (Summary, error) {
	if len(records) == 0 {
		return Summary{}, fmt.Errorf("no records to summarize")
	}

	composites := make(stats.Float64Data, len(records))
	for i, r := range records {
		composites[i] = r.Composite0100
	}

	mean, err := stats.Mean(composites)
	if err != nil {
		return Summary{}, fmt.Errorf("compute mean: %w", err)
	}
	median, err := stats.Median(composites)
	if err != nil {
		return Summary{}, fmt.Errorf("compute median: %w", err)
	}
	stdDev, err := stats.StandardDeviation(composites)
	if err != nil {
		return Summary{}, fmt.Errorf("compute standard deviation: %w", err)
	}
	minimum, err := stats.Min(composites)
	if err != nil {
		return Summary{}, fmt.Errorf("compute min: %w", err)
	}
	maximum, err := stats.Max(composites)
	if err != nil {
		return Summary{}, fmt.Errorf("compute max: %w", err)
	}

	return Summary{
		Count:  len(records),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
		Min:    minimum,
		Max:    maximum,
	}, nil
}
