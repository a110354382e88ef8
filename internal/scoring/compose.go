package scoring

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// Composer combines the four pillar scores into the final composite score
// and applies the externally supplied risk multiplier under its RiskPolicy.
// A Composer is immutable after construction and safe for concurrent use;
// Score is a pure function of its input.
type Composer struct {
	weights    CompositeWeights
	normalized CompositeWeights
	weightNorm float64
	policy     RiskPolicy
	logger     *slog.Logger
}

// NewComposer creates a composer with the given weights and risk policy.
// Weights may be un-normalized; they are rescaled to sum to 1 once here and
// the normalization factor is recorded on every output record.
func NewComposer(weights CompositeWeights, policy RiskPolicy, logger *slog.Logger) (*Composer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	if !weights.IsValid() {
		return nil, &InvalidWeightsError{Reason: "composite weights must be finite, non-negative and sum to a positive total"}
	}
	if !policy.IsValid() {
		return nil, &InvalidInputError{
			Field:   "risk_policy",
			Message: "risk range must satisfy 0 < min < max",
			Value:   policy,
		}
	}

	normalized, norm := weights.Normalized()

	return &Composer{
		weights:    weights,
		normalized: normalized,
		weightNorm: norm,
		policy:     policy,
		logger:     logger,
	}, nil
}

// Weights returns the normalized per-pillar weights in effect.
func (c *Composer) Weights() CompositeWeights {
	return c.normalized
}

// Score computes the composite 0-100 and risk-adjusted 0-5 scores for one
// market. All four pillars must be present with finite 0-100 values; there is
// no silent default substitution because a defaulted pillar would corrupt the
// audit trail.
//
// The 0-100 composite stays unadjusted by risk so it remains a pure market
// quality comparator; the multiplier applies only to the 0-5 figure.
func (c *Composer) Score(ctx context.Context, input ScoreInput) (CompositeScoreRecord, error) {
	if err := c.validatePillars(ctx, input.Pillars); err != nil {
		return CompositeScoreRecord{}, err
	}

	multiplier, clamped, err := c.applyRiskPolicy(ctx, input)
	if err != nil {
		return CompositeScoreRecord{}, err
	}

	// Fixed iteration order keeps the floating point sum bit-identical
	// across runs.
	var composite float64
	for _, p := range Pillars() {
		composite += c.normalized.weight(p) * input.Pillars[p]
	}

	return CompositeScoreRecord{
		MarketID: input.MarketID,
		AsOf:     input.AsOf,
		PillarScores: PillarScoreSet{
			Supply:   input.Pillars[PillarSupply],
			Jobs:     input.Pillars[PillarJobs],
			Urban:    input.Pillars[PillarUrban],
			Outdoors: input.Pillars[PillarOutdoors],
		},
		Composite0100:  composite,
		Composite05:    (composite / FiveScaleDivisor) * multiplier,
		RiskMultiplier: multiplier,
		RiskClamped:    clamped,
		WeightNorm:     c.weightNorm,
		WeightSchemeID: input.WeightSchemeID,
		RunID:          input.RunID,
	}, nil
}

// validatePillars checks that all four pillars are present with finite
// values in [0, 100].
func (c *Composer) validatePillars(ctx context.Context, pillars map[Pillar]float64) error {
	var missing []string
	for _, p := range Pillars() {
		v, ok := pillars[p]
		if !ok || math.IsNaN(v) {
			missing = append(missing, string(p))
		}
	}
	if len(missing) > 0 {
		return &MissingPillarError{Pillars: missing}
	}

	for _, p := range Pillars() {
		v := pillars[p]
		if math.IsInf(v, 0) || v < 0 || v > 100 {
			return &InvalidInputError{
				Field:   string(p),
				Message: "pillar score must lie within [0, 100]",
				Value:   v,
			}
		}
	}

	if extra := unknownPillars(pillars); len(extra) > 0 {
		c.logger.WarnContext(ctx, "unknown pillar scores ignored in composition",
			"pillars", extra,
		)
	}

	return nil
}

// applyRiskPolicy validates the multiplier against the configured range.
// Lenient policies clamp out-of-range values and report the clamp; strict
// policies reject them.
func (c *Composer) applyRiskPolicy(ctx context.Context, input ScoreInput) (multiplier float64, clamped bool, err error) {
	m := input.RiskMultiplier
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return 0, false, &InvalidInputError{
			Field:   "risk_multiplier",
			Message: "risk multiplier must be a finite positive number",
			Value:   m,
		}
	}

	if m >= c.policy.Min && m <= c.policy.Max {
		return m, false, nil
	}

	if c.policy.Strict {
		return 0, false, &InvalidRiskMultiplierError{Value: m, Min: c.policy.Min, Max: c.policy.Max}
	}

	original := m
	if m < c.policy.Min {
		m = c.policy.Min
	} else {
		m = c.policy.Max
	}

	c.logger.WarnContext(ctx, "risk multiplier outside sane range, clamped",
		"market_id", input.MarketID,
		"supplied", original,
		"clamped_to", m,
		"range_min", c.policy.Min,
		"range_max", c.policy.Max,
	)

	return m, true, nil
}

// unknownPillars returns sorted pillar keys that do not name one of the four
// known pillars.
func unknownPillars(pillars map[Pillar]float64) []string {
	var extra []string
	for p := range pillars {
		if !p.IsValid() {
			extra = append(extra, string(p))
		}
	}
	sort.Strings(extra)
	return extra
}
