package scoring

import (
	"math"
	"time"
)

// Pillar identifies one of the four weighted categories composing the
// final market score.
type Pillar string

const (
	PillarSupply   Pillar = "supply"
	PillarJobs     Pillar = "jobs"
	PillarUrban    Pillar = "urban"
	PillarOutdoors Pillar = "outdoors"
)

// Pillars returns all pillars in their canonical composition order.
// Composition always iterates in this order so that repeated runs produce
// bit-identical floating point sums.
func Pillars() []Pillar {
	return []Pillar{PillarSupply, PillarJobs, PillarUrban, PillarOutdoors}
}

// IsValid reports whether p names a known pillar.
func (p Pillar) IsValid() bool {
	switch p {
	case PillarSupply, PillarJobs, PillarUrban, PillarOutdoors:
		return true
	}
	return false
}

// NormalizationParams holds the quantile probabilities used for
// winsorization before min-max rescaling.
type NormalizationParams struct {
	PLow  float64 `json:"p_low"`
	PHigh float64 `json:"p_high"`
}

// DefaultNormalizationParams returns the standard 5th/95th percentile bounds.
func DefaultNormalizationParams() NormalizationParams {
	return NormalizationParams{PLow: DefaultLowerBound, PHigh: DefaultUpperBound}
}

// IsValid checks that both probabilities are in [0,1] and ordered.
func (np NormalizationParams) IsValid() bool {
	return np.PLow >= 0 && np.PHigh <= 1 && np.PLow < np.PHigh
}

// PillarWeights maps metric name to a non-negative weight. Weights need not
// sum to 1; the aggregator normalizes internally. Every key must be present
// in the metric set supplied at aggregation time.
type PillarWeights map[string]float64

// MissingMode controls how the pillar aggregator treats metrics whose
// normalized value is missing (NaN). The mode is explicit per call so the
// behavior is visible in the audit trail.
type MissingMode int

const (
	// ModeStrict fails the aggregation when any weighted metric is missing.
	ModeStrict MissingMode = iota
	// ModePartial drops missing metrics and renormalizes the remaining weights.
	ModePartial
)

// String returns the string representation of the mode.
func (m MissingMode) String() string {
	switch m {
	case ModeStrict:
		return "strict"
	case ModePartial:
		return "partial"
	default:
		return "unknown"
	}
}

// ParseMissingMode converts a configuration string to a MissingMode.
func ParseMissingMode(s string) (MissingMode, error) {
	switch s {
	case "strict":
		return ModeStrict, nil
	case "partial":
		return ModePartial, nil
	default:
		return ModeStrict, &InvalidInputError{Field: "missing_mode", Message: "must be \"strict\" or \"partial\"", Value: s}
	}
}

// PillarScore is a single pillar value on the 0-100 scale.
type PillarScore struct {
	Pillar Pillar  `json:"pillar"`
	Value  float64 `json:"value_0_100"`
}

// CompositeWeights holds the per-pillar weights used for final composition.
// Callers may pass un-normalized weights; Score normalizes them to sum to 1
// and records the normalization factor in the output record.
type CompositeWeights struct {
	Supply   float64 `json:"supply"`
	Jobs     float64 `json:"jobs"`
	Urban    float64 `json:"urban"`
	Outdoors float64 `json:"outdoors"`
}

// DefaultCompositeWeights returns the documented default weight scheme.
func DefaultCompositeWeights() CompositeWeights {
	return CompositeWeights{
		Supply:   0.30,
		Jobs:     0.30,
		Urban:    0.20,
		Outdoors: 0.20,
	}
}

// Sum returns the un-normalized weight total.
func (cw CompositeWeights) Sum() float64 {
	return cw.Supply + cw.Jobs + cw.Urban + cw.Outdoors
}

// IsValid checks that all weights are finite, non-negative and at least one
// is positive.
func (cw CompositeWeights) IsValid() bool {
	for _, w := range []float64{cw.Supply, cw.Jobs, cw.Urban, cw.Outdoors} {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return false
		}
	}
	return cw.Sum() > 0
}

// Normalized returns a copy of the weights rescaled to sum to 1, along with
// the factor the original weights were divided by.
func (cw CompositeWeights) Normalized() (CompositeWeights, float64) {
	sum := cw.Sum()
	if sum <= 0 {
		return cw, 0
	}
	return CompositeWeights{
		Supply:   cw.Supply / sum,
		Jobs:     cw.Jobs / sum,
		Urban:    cw.Urban / sum,
		Outdoors: cw.Outdoors / sum,
	}, sum
}

// weight returns the weight for a single pillar.
func (cw CompositeWeights) weight(p Pillar) float64 {
	switch p {
	case PillarSupply:
		return cw.Supply
	case PillarJobs:
		return cw.Jobs
	case PillarUrban:
		return cw.Urban
	case PillarOutdoors:
		return cw.Outdoors
	default:
		return 0
	}
}

// RiskPolicy bounds the externally supplied risk multiplier. In lenient mode
// (Strict=false) out-of-range multipliers are clamped to [Min,Max] and the
// clamp is recorded on the output record; in strict mode they fail the call.
type RiskPolicy struct {
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Strict bool    `json:"strict"`
}

// DefaultRiskPolicy returns the lenient [0.5, 2.0] policy.
func DefaultRiskPolicy() RiskPolicy {
	return RiskPolicy{Min: 0.5, Max: 2.0, Strict: false}
}

// IsValid checks that the range is finite, positive and ordered.
func (rp RiskPolicy) IsValid() bool {
	return !math.IsNaN(rp.Min) && !math.IsNaN(rp.Max) &&
		!math.IsInf(rp.Min, 0) && !math.IsInf(rp.Max, 0) &&
		rp.Min > 0 && rp.Min < rp.Max
}

// PillarScoreSet holds the four pillar scores on the 0-100 scale in a fixed
// shape so JSON output has a stable field order.
type PillarScoreSet struct {
	Supply   float64 `json:"supply"`
	Jobs     float64 `json:"jobs"`
	Urban    float64 `json:"urban"`
	Outdoors float64 `json:"outdoors"`
}

// ScoreInput is everything the composer needs for one market. RunID and
// WeightSchemeID come from the external run-tracking subsystem and are
// embedded opaquely in the output record.
type ScoreInput struct {
	MarketID       string             `json:"market_id"`
	AsOf           time.Time          `json:"as_of"`
	Pillars        map[Pillar]float64 `json:"pillars"`
	RiskMultiplier float64            `json:"risk_multiplier"`
	WeightSchemeID string             `json:"weight_scheme_id"`
	RunID          string             `json:"run_id"`
}

// CompositeScoreRecord is the immutable audit record produced once per
// (market, as_of, run) tuple. A re-run with different inputs produces a new
// record, never an update.
type CompositeScoreRecord struct {
	MarketID       string         `json:"market_id"`
	AsOf           time.Time      `json:"as_of"`
	PillarScores   PillarScoreSet `json:"pillar_scores_0_100"`
	Composite0100  float64        `json:"composite_0_100"`
	Composite05    float64        `json:"composite_0_5"`
	RiskMultiplier float64        `json:"risk_multiplier"`
	RiskClamped    bool           `json:"risk_clamped"`
	WeightNorm     float64        `json:"weight_norm"`
	WeightSchemeID string         `json:"weight_scheme_id"`
	RunID          string         `json:"run_id"`
}

// Constants for default values
const (
	// Default winsorization bounds (5th and 95th percentiles)
	DefaultLowerBound = 0.05
	DefaultUpperBound = 0.95

	// Guard against division by zero on degenerate (constant) distributions
	DegenerateEpsilon = 1e-12

	// Midpoint score assigned when the winsorized range collapses
	DegenerateScore = 50.0

	// Scale conversion between the 0-100 comparator and the 0-5
	// underwriting figure
	FiveScaleDivisor = 20.0
)
