package scoring

import (
	"math"
	"sort"
)

// RobustMinMax applies the winsorized robust min-max transform: the pLow and
// pHigh quantiles of the finite values are computed, every value is clipped
// to [qLow, qHigh], and the clipped range is rescaled linearly to [0, 100].
//
// Missing entries (NaN) propagate as NaN at the same position and do not
// participate in quantile computation. Infinite entries are treated as
// extreme observations: they are excluded from the quantiles but clipped to
// the winsorized bounds, so every finite output stays in [0, 100].
//
// When the winsorized range collapses (constant or single-value input) every
// finite output is the 50.0 midpoint.
func RobustMinMax(values []float64, params NormalizationParams) ([]float64, error) {
	bounds, err := ComputeBounds(values, params)
	if err != nil {
		return nil, err
	}
	return NormalizeWithBounds(values, bounds), nil
}

// Bounds holds the winsorization bounds computed from one metric array.
// Normalizing several arrays against shared bounds keeps the transform
// elementwise monotone across arrays, which per-array bounds cannot
// guarantee.
type Bounds struct {
	QLow  float64 `json:"q_low"`
	QHigh float64 `json:"q_high"`
}

// ComputeBounds computes the pLow and pHigh quantiles of the finite values,
// using linear interpolation between order statistics.
func ComputeBounds(values []float64, params NormalizationParams) (Bounds, error) {
	if !params.IsValid() {
		return Bounds{}, &InvalidInputError{
			Field:   "params",
			Message: "quantile probabilities must satisfy 0 <= p_low < p_high <= 1",
			Value:   params,
		}
	}

	if len(values) == 0 {
		return Bounds{}, &InvalidInputError{
			Field:   "values",
			Message: "no values provided for normalization",
		}
	}

	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	if len(finite) == 0 {
		return Bounds{}, &InvalidInputError{
			Field:   "values",
			Message: "array contains no finite values",
			Value:   len(values),
		}
	}

	sort.Float64s(finite)

	return Bounds{
		QLow:  quantileValue(finite, params.PLow),
		QHigh: quantileValue(finite, params.PHigh),
	}, nil
}

// NormalizeWithBounds clips every value to [QLow, QHigh] and rescales the
// clipped range to [0, 100]. NaN entries stay NaN. The function is pure and
// monotone non-decreasing in each element for fixed bounds.
func NormalizeWithBounds(values []float64, bounds Bounds) []float64 {
	result := make([]float64, len(values))

	spread := bounds.QHigh - bounds.QLow
	degenerate := spread <= DegenerateEpsilon

	for i, v := range values {
		if math.IsNaN(v) {
			result[i] = math.NaN()
			continue
		}

		if degenerate {
			result[i] = DegenerateScore
			continue
		}

		clipped := v
		if clipped < bounds.QLow {
			clipped = bounds.QLow
		} else if clipped > bounds.QHigh {
			clipped = bounds.QHigh
		}

		result[i] = 100 * (clipped - bounds.QLow) / spread
	}

	return result
}

// quantileValue calculates the value at a given quantile of a sorted slice
// using linear interpolation between adjacent order statistics.
func quantileValue(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}

	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[n-1]
	}

	index := p * float64(n-1)
	lower := int(math.Floor(index))
	upper := int(math.Ceil(index))

	if lower == upper {
		return sorted[lower]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// Invert reflects a 0-100 normalized array so that higher raw values map to
// lower scores. Used for metrics where more is worse (vacancy, air quality
// index). NaN entries stay NaN.
func Invert(normalized []float64) []float64 {
	result := make([]float64, len(normalized))
	for i, v := range normalized {
		if math.IsNaN(v) {
			result[i] = math.NaN()
			continue
		}
		result[i] = 100 - v
	}
	return result
}
