// Package scoring implements the market scoring engine that turns raw
// per-market metric arrays into auditable 0-5 composite investment scores.
//
// # Core Components
//
// The engine is four pure transforms applied in dependency order:
//
//  1. Normalizer (RobustMinMax): winsorized robust min-max scaling of one
//     raw metric array onto [0, 100], resistant to outliers
//  2. PillarAggregator (AggregatePillar): weighted mean of several
//     normalized metrics into one pillar score
//  3. Bucketizer (ToFiveBucket): bucketing of a 0-100 score onto a
//     discrete five-bucket display scale
//  4. MarketScoreComposer (Composer.Score): weighted combination of the four
//     pillar scores (supply, jobs, urban, outdoors) into the final 0-100 and
//     risk-adjusted 0-5 composite
//
// Bucketing is a display-only projection. Composition always happens in
// 0-100 space so quantization error never compounds across pillars.
//
// # Architecture
//
//   - types.go: core data structures and defaults
//   - errors.go: deterministic error taxonomy
//   - normalize.go: winsorized robust min-max transform
//   - pillar.go: weighted pillar aggregation with explicit missing-data modes
//   - bucket.go: quantile bucketing for display
//   - compose.go: composite scoring with risk multiplier policy
//
// # Usage Example
//
//	params := scoring.DefaultNormalizationParams()
//	normalized, err := scoring.RobustMinMax(permitRates, params)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	supply, err := scoring.AggregatePillar(ctx, metrics, weights, scoring.ModePartial)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	composer, err := scoring.NewComposer(
//	    scoring.DefaultCompositeWeights(),
//	    scoring.DefaultRiskPolicy(),
//	    slog.Default(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	record, err := composer.Score(ctx, scoring.ScoreInput{
//	    MarketID:       "MSA001",
//	    AsOf:           asOf,
//	    Pillars:        pillarScores,
//	    RiskMultiplier: 1.0,
//	    WeightSchemeID: "default",
//	    RunID:          runID,
//	})
//
// # Mathematical Guarantees
//
// For every valid input and parameter choice, verified by property tests:
//
//   - Bounds: every finite normalized value lies in [0, 100]
//   - Monotonicity: normalization is order preserving within an array, and
//     elementwise monotone across arrays normalized against shared bounds
//   - Scale invariance: RobustMinMax(x) == RobustMinMax(c*x) for any c > 0
//   - Weight invariance: pillar and composite scores are unchanged when all
//     weights are rescaled by a positive constant
//   - Determinism: repeated calls with identical inputs return bit-identical
//     results; there is no hidden randomness, wall clock, or map iteration
//     order dependence
//
// # Concurrency
//
// All transforms are pure, side-effect-free functions over in-memory data
// with no shared mutable state. Scoring N markets is N independent
// invocations; batching and parallelism belong to callers (see the batch
// package). Nothing here blocks, retries, or performs I/O.
package scoring
