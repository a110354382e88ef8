package scoring

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"testing"
)

// Benchmark tests for the engine hot paths. Quantile computation over
// all-US-MSA batches dominates, so normalization is benchmarked across
// realistic panel sizes.

func generateBenchmarkValues(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	values := make([]float64, n)
	for i := range values {
		values[i] = rng.NormFloat64() * 100
	}
	return values
}

// BenchmarkRobustMinMax benchmarks normalization across panel sizes
func BenchmarkRobustMinMax(b *testing.B) {
	benchmarks := []struct {
		name string
		size int
	}{
		{"small_panel_50_markets", 50},
		{"metro_panel_400_markets", 400},
		{"all_msa_panel_1000_markets", 1000},
		{"county_panel_3200_markets", 3200},
	}

	params := DefaultNormalizationParams()

	for _, bm := range benchmarks {
		b.Run(bm.name, func(b *testing.B) {
			values := generateBenchmarkValues(bm.size, 42)

			b.ResetTimer()
			b.ReportAllocs()

			for i := 0; i < b.N; i++ {
				if _, err := RobustMinMax(values, params); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

// BenchmarkAggregatePillar benchmarks weighted pillar aggregation
func BenchmarkAggregatePillar(b *testing.B) {
	ctx := context.Background()
	metrics := map[string]float64{
		"permit_rate":    71.3,
		"vacancy":        48.9,
		"leaseup_months": 66.1,
	}
	weights := PillarWeights{
		"permit_rate":    0.4,
		"vacancy":        0.35,
		"leaseup_months": 0.25,
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := AggregatePillar(ctx, metrics, weights, ModeStrict); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkComposerScore benchmarks full composite scoring
func BenchmarkComposerScore(b *testing.B) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	composer, err := NewComposer(DefaultCompositeWeights(), DefaultRiskPolicy(), logger)
	if err != nil {
		b.Fatal(err)
	}

	input := ScoreInput{
		MarketID: "MSA001",
		Pillars: map[Pillar]float64{
			PillarSupply:   63.7,
			PillarJobs:     81.2,
			PillarUrban:    44.9,
			PillarOutdoors: 72.3,
		},
		RiskMultiplier: 1.0,
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := composer.Score(ctx, input); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkToFiveBucket benchmarks display bucketing
func BenchmarkToFiveBucket(b *testing.B) {
	thresholds := DefaultThresholds()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ToFiveBucket(float64(i%101), thresholds); err != nil {
			b.Fatal(err)
		}
	}
}
