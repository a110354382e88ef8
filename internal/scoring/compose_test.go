package scoring

import (
	"context"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testComposer(t *testing.T, weights CompositeWeights, policy RiskPolicy) *Composer {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	composer, err := NewComposer(weights, policy, logger)
	require.NoError(t, err)
	return composer
}

func fullPillarSet(supply, jobs, urban, outdoors float64) map[Pillar]float64 {
	return map[Pillar]float64{
		PillarSupply:   supply,
		PillarJobs:     jobs,
		PillarUrban:    urban,
		PillarOutdoors: outdoors,
	}
}

// TestComposerScore tests composite scoring with default weights
func TestComposerScore(t *testing.T) {
	ctx := context.Background()
	composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())
	asOf := time.Date(2026, 6, 30, 0, 0, 0, 0, time.UTC)

	t.Run("perfect market scores 100 and 5", func(t *testing.T) {
		record, err := composer.Score(ctx, ScoreInput{
			MarketID:       "MSA001",
			AsOf:           asOf,
			Pillars:        fullPillarSet(100, 100, 100, 100),
			RiskMultiplier: 1.0,
			WeightSchemeID: "default",
			RunID:          "run-1",
		})
		require.NoError(t, err)

		assert.InDelta(t, 100.0, record.Composite0100, 1e-9)
		assert.InDelta(t, 5.0, record.Composite05, 1e-9)
		assert.Equal(t, 1.0, record.RiskMultiplier)
		assert.False(t, record.RiskClamped)
		assert.Equal(t, "MSA001", record.MarketID)
		assert.Equal(t, "default", record.WeightSchemeID)
		assert.Equal(t, "run-1", record.RunID)
	})

	t.Run("single strong pillar contributes its normalized weight", func(t *testing.T) {
		record, err := composer.Score(ctx, ScoreInput{
			MarketID:       "MSA002",
			AsOf:           asOf,
			Pillars:        fullPillarSet(0, 100, 0, 0),
			RiskMultiplier: 1.0,
		})
		require.NoError(t, err)
		// jobs weight 0.3 out of a 1.0 total
		assert.InDelta(t, 30.0, record.Composite0100, 1e-9)
		assert.InDelta(t, 1.5, record.Composite05, 1e-9)
	})

	t.Run("risk multiplier adjusts only the 0-5 figure", func(t *testing.T) {
		record, err := composer.Score(ctx, ScoreInput{
			MarketID:       "MSA003",
			AsOf:           asOf,
			Pillars:        fullPillarSet(80, 80, 80, 80),
			RiskMultiplier: 0.9,
		})
		require.NoError(t, err)
		assert.InDelta(t, 80.0, record.Composite0100, 1e-9)
		assert.InDelta(t, 80.0/20.0*0.9, record.Composite05, 1e-9)
	})

	t.Run("pillar scores recorded unmodified", func(t *testing.T) {
		record, err := composer.Score(ctx, ScoreInput{
			MarketID:       "MSA004",
			AsOf:           asOf,
			Pillars:        fullPillarSet(12.5, 34.5, 56.5, 78.5),
			RiskMultiplier: 1.0,
		})
		require.NoError(t, err)
		assert.Equal(t, PillarScoreSet{Supply: 12.5, Jobs: 34.5, Urban: 56.5, Outdoors: 78.5}, record.PillarScores)
	})
}

// TestComposerMissingPillars tests that absent pillars are enumerated, never
// silently defaulted
func TestComposerMissingPillars(t *testing.T) {
	ctx := context.Background()
	composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())

	t.Run("one missing pillar is named", func(t *testing.T) {
		pillars := fullPillarSet(50, 50, 0, 50)
		delete(pillars, PillarUrban)

		_, err := composer.Score(ctx, ScoreInput{MarketID: "MSA007", Pillars: pillars, RiskMultiplier: 1.0})
		require.Error(t, err)

		var missingErr *MissingPillarError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"urban"}, missingErr.Pillars)
	})

	t.Run("NaN pillar counts as missing", func(t *testing.T) {
		pillars := fullPillarSet(50, math.NaN(), 50, 50)

		_, err := composer.Score(ctx, ScoreInput{MarketID: "MSA008", Pillars: pillars, RiskMultiplier: 1.0})
		require.Error(t, err)

		var missingErr *MissingPillarError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"jobs"}, missingErr.Pillars)
	})

	t.Run("multiple missing pillars enumerated in canonical order", func(t *testing.T) {
		_, err := composer.Score(ctx, ScoreInput{
			MarketID:       "MSA009",
			Pillars:        map[Pillar]float64{PillarJobs: 50},
			RiskMultiplier: 1.0,
		})
		require.Error(t, err)

		var missingErr *MissingPillarError
		require.ErrorAs(t, err, &missingErr)
		assert.Equal(t, []string{"supply", "urban", "outdoors"}, missingErr.Pillars)
	})
}

// TestComposerPillarRangeValidation tests rejection of out-of-range pillar
// scores
func TestComposerPillarRangeValidation(t *testing.T) {
	ctx := context.Background()
	composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())

	for _, bad := range []float64{-0.1, 100.1, math.Inf(1)} {
		_, err := composer.Score(ctx, ScoreInput{
			MarketID:       "MSA010",
			Pillars:        fullPillarSet(bad, 50, 50, 50),
			RiskMultiplier: 1.0,
		})
		require.Error(t, err, "pillar value %f should be rejected", bad)

		var inputErr *InvalidInputError
		assert.ErrorAs(t, err, &inputErr)
	}
}

// TestComposerRiskPolicy tests lenient clamping and strict rejection
func TestComposerRiskPolicy(t *testing.T) {
	ctx := context.Background()
	pillars := fullPillarSet(60, 60, 60, 60)

	t.Run("lenient policy clamps and records the event", func(t *testing.T) {
		composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())

		record, err := composer.Score(ctx, ScoreInput{MarketID: "MSA011", Pillars: pillars, RiskMultiplier: 3.5})
		require.NoError(t, err)
		assert.True(t, record.RiskClamped)
		assert.Equal(t, 2.0, record.RiskMultiplier)
		assert.InDelta(t, 60.0/20.0*2.0, record.Composite05, 1e-9)

		record, err = composer.Score(ctx, ScoreInput{MarketID: "MSA011", Pillars: pillars, RiskMultiplier: 0.1})
		require.NoError(t, err)
		assert.True(t, record.RiskClamped)
		assert.Equal(t, 0.5, record.RiskMultiplier)
	})

	t.Run("strict policy rejects out-of-range multiplier", func(t *testing.T) {
		policy := DefaultRiskPolicy()
		policy.Strict = true
		composer := testComposer(t, DefaultCompositeWeights(), policy)

		_, err := composer.Score(ctx, ScoreInput{MarketID: "MSA012", Pillars: pillars, RiskMultiplier: 3.5})
		require.Error(t, err)

		var riskErr *InvalidRiskMultiplierError
		require.ErrorAs(t, err, &riskErr)
		assert.Equal(t, 3.5, riskErr.Value)
	})

	t.Run("non-positive or non-finite multiplier always fails", func(t *testing.T) {
		composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())

		for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
			_, err := composer.Score(ctx, ScoreInput{MarketID: "MSA013", Pillars: pillars, RiskMultiplier: bad})
			require.Error(t, err, "multiplier %f should be rejected", bad)
		}
	})

	t.Run("in-range multiplier passes through untouched", func(t *testing.T) {
		composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())

		record, err := composer.Score(ctx, ScoreInput{MarketID: "MSA014", Pillars: pillars, RiskMultiplier: 1.07})
		require.NoError(t, err)
		assert.False(t, record.RiskClamped)
		assert.Equal(t, 1.07, record.RiskMultiplier)
	})
}

// TestComposerWeightValidation tests weight configuration failures at
// construction time
func TestComposerWeightValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name    string
		weights CompositeWeights
	}{
		{"all zero", CompositeWeights{}},
		{"negative weight", CompositeWeights{Supply: -0.3, Jobs: 0.3, Urban: 0.2, Outdoors: 0.2}},
		{"NaN weight", CompositeWeights{Supply: math.NaN(), Jobs: 0.3, Urban: 0.2, Outdoors: 0.2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewComposer(tt.weights, DefaultRiskPolicy(), logger)
			require.Error(t, err)

			var weightsErr *InvalidWeightsError
			assert.ErrorAs(t, err, &weightsErr)
		})
	}

	t.Run("invalid risk policy rejected", func(t *testing.T) {
		_, err := NewComposer(DefaultCompositeWeights(), RiskPolicy{Min: 2, Max: 1}, logger)
		require.Error(t, err)
	})
}

// TestComposerWeightRescaleInvariance verifies invariance to uniform weight
// rescaling
func TestComposerWeightRescaleInvariance(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(17))

	for trial := 0; trial < 50; trial++ {
		weights := CompositeWeights{
			Supply:   rng.Float64() + 0.01,
			Jobs:     rng.Float64() + 0.01,
			Urban:    rng.Float64() + 0.01,
			Outdoors: rng.Float64() + 0.01,
		}
		c := rng.Float64()*99 + 0.01
		rescaled := CompositeWeights{
			Supply:   weights.Supply * c,
			Jobs:     weights.Jobs * c,
			Urban:    weights.Urban * c,
			Outdoors: weights.Outdoors * c,
		}
		pillars := fullPillarSet(rng.Float64()*100, rng.Float64()*100, rng.Float64()*100, rng.Float64()*100)

		base := testComposer(t, weights, DefaultRiskPolicy())
		other := testComposer(t, rescaled, DefaultRiskPolicy())

		input := ScoreInput{MarketID: "MSA015", Pillars: pillars, RiskMultiplier: 1.0}
		baseRecord, err := base.Score(ctx, input)
		require.NoError(t, err)
		otherRecord, err := other.Score(ctx, input)
		require.NoError(t, err)

		require.InDeltaf(t, baseRecord.Composite0100, otherRecord.Composite0100, 1e-9,
			"trial %d: rescale by %f changed composite", trial, c)
	}
}

// TestComposerDeterminism verifies bit-identical records across repeated
// invocations
func TestComposerDeterminism(t *testing.T) {
	ctx := context.Background()
	composer := testComposer(t, DefaultCompositeWeights(), DefaultRiskPolicy())

	input := ScoreInput{
		MarketID:       "MSA016",
		AsOf:           time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		Pillars:        fullPillarSet(63.7, 81.2, 44.9, 72.3),
		RiskMultiplier: 1.04,
		WeightSchemeID: "scheme-q1",
		RunID:          "run-42",
	}

	first, err := composer.Score(ctx, input)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := composer.Score(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, first, again, "invocation %d differs", i)
	}
}
