package scoring

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestAggregatePillar tests the weighted mean aggregation
func TestAggregatePillar(t *testing.T) {
	ctx := context.Background()

	t.Run("equal weights average", func(t *testing.T) {
		score, err := AggregatePillar(ctx,
			map[string]float64{"a": 80.0, "b": 20.0},
			PillarWeights{"a": 0.5, "b": 0.5},
			ModeStrict,
		)
		require.NoError(t, err)
		assert.Equal(t, 50.0, score)
	})

	t.Run("weights need not sum to one", func(t *testing.T) {
		score, err := AggregatePillar(ctx,
			map[string]float64{"a": 80.0, "b": 20.0},
			PillarWeights{"a": 3, "b": 1},
			ModeStrict,
		)
		require.NoError(t, err)
		assert.InDelta(t, 65.0, score, 1e-12)
	})

	t.Run("extra metrics without weights are ignored", func(t *testing.T) {
		score, err := AggregatePillar(ctx,
			map[string]float64{"a": 60.0, "b": 40.0, "unweighted": 99.0},
			PillarWeights{"a": 0.5, "b": 0.5},
			ModeStrict,
		)
		require.NoError(t, err)
		assert.Equal(t, 50.0, score)
	})

	t.Run("zero-weight metric does not contribute", func(t *testing.T) {
		score, err := AggregatePillar(ctx,
			map[string]float64{"a": 60.0, "b": 10.0},
			PillarWeights{"a": 1, "b": 0},
			ModeStrict,
		)
		require.NoError(t, err)
		assert.Equal(t, 60.0, score)
	})
}

// TestAggregatePillarWeightErrors tests weight configuration failures
func TestAggregatePillarWeightErrors(t *testing.T) {
	ctx := context.Background()
	metrics := map[string]float64{"a": 50.0, "b": 70.0}

	tests := []struct {
		name    string
		weights PillarWeights
	}{
		{"empty weights", PillarWeights{}},
		{"all weights zero", PillarWeights{"a": 0, "b": 0}},
		{"negative weight", PillarWeights{"a": -0.5, "b": 0.5}},
		{"NaN weight", PillarWeights{"a": math.NaN(), "b": 0.5}},
		{"weight for unknown metric", PillarWeights{"a": 0.5, "missing": 0.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := AggregatePillar(ctx, metrics, tt.weights, ModeStrict)
			require.Error(t, err)

			var weightsErr *InvalidWeightsError
			assert.ErrorAs(t, err, &weightsErr)
		})
	}
}

// TestAggregatePillarMissingModes tests strict and partial missing-data
// handling
func TestAggregatePillarMissingModes(t *testing.T) {
	ctx := context.Background()
	metrics := map[string]float64{
		"a": 80.0,
		"b": math.NaN(),
		"c": 40.0,
	}
	weights := PillarWeights{"a": 0.5, "b": 0.3, "c": 0.2}

	t.Run("strict mode fails on missing metric", func(t *testing.T) {
		_, err := AggregatePillar(ctx, metrics, weights, ModeStrict)
		require.Error(t, err)

		var inputErr *InvalidInputError
		require.ErrorAs(t, err, &inputErr)
		assert.Equal(t, "b", inputErr.Field)
	})

	t.Run("partial mode renormalizes over remaining metrics", func(t *testing.T) {
		score, err := AggregatePillar(ctx, metrics, weights, ModePartial)
		require.NoError(t, err)
		// (0.5*80 + 0.2*40) / (0.5 + 0.2)
		assert.InDelta(t, (0.5*80+0.2*40)/0.7, score, 1e-12)
	})

	t.Run("partial mode fails when nothing remains", func(t *testing.T) {
		allMissing := map[string]float64{"a": math.NaN(), "b": math.NaN()}
		_, err := AggregatePillar(ctx, allMissing, PillarWeights{"a": 0.5, "b": 0.5}, ModePartial)
		require.Error(t, err)

		// All-missing data under a valid weight config is a data error,
		// not a weights error.
		var inputErr *InvalidInputError
		assert.ErrorAs(t, err, &inputErr)
	})
}

// TestAggregatePillarWeightRescaleInvariance verifies that uniformly
// rescaling all weights by a positive constant never changes the score.
func TestAggregatePillarWeightRescaleInvariance(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(5))

	for trial := 0; trial < 50; trial++ {
		metrics := map[string]float64{
			"m1": rng.Float64() * 100,
			"m2": rng.Float64() * 100,
			"m3": rng.Float64() * 100,
		}
		weights := PillarWeights{
			"m1": rng.Float64() + 0.01,
			"m2": rng.Float64() + 0.01,
			"m3": rng.Float64() + 0.01,
		}
		c := rng.Float64()*99 + 0.01

		rescaled := PillarWeights{}
		for name, w := range weights {
			rescaled[name] = w * c
		}

		base, err := AggregatePillar(ctx, metrics, weights, ModeStrict)
		require.NoError(t, err)
		result, err := AggregatePillar(ctx, metrics, rescaled, ModeStrict)
		require.NoError(t, err)

		require.InDeltaf(t, base, result, 1e-9, "trial %d: rescale by %f changed score", trial, c)
	}
}

// TestAggregatePillarDeterminism verifies bit-identical repeated results
// despite map-based inputs.
func TestAggregatePillarDeterminism(t *testing.T) {
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

	first, err := AggregatePillar(ctx, metrics, weights, ModeStrict)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := AggregatePillar(ctx, metrics, weights, ModeStrict)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

// TestParseMissingMode tests configuration string parsing
func TestParseMissingMode(t *testing.T) {
	mode, err := ParseMissingMode("strict")
	require.NoError(t, err)
	assert.Equal(t, ModeStrict, mode)
	assert.Equal(t, "strict", mode.String())

	mode, err = ParseMissingMode("partial")
	require.NoError(t, err)
	assert.Equal(t, ModePartial, mode)
	assert.Equal(t, "partial", mode.String())

	_, err = ParseMissingMode("lenient")
	require.Error(t, err)
}
