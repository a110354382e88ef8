package scoring

import "math"

// DefaultThresholds returns the standard quantile bucket boundaries.
func DefaultThresholds() []float64 {
	return []float64{20, 40, 60, 80}
}

// ToFiveBucket maps a 0-100 value into a discrete bucket 0..len(thresholds)
// using right-open intervals: value < thresholds[0] yields bucket 0,
// thresholds[i-1] <= value < thresholds[i] yields bucket i, and
// value >= thresholds[len-1] yields the top bucket.
//
// This is display-only projection. Composite scoring always happens in 0-100
// space; bucketed values must never feed back into score arithmetic, or
// quantization error would compound across pillars.
func ToFiveBucket(value float64, thresholds []float64) (int, error) {
	if err := validateThresholds(thresholds); err != nil {
		return 0, err
	}

	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &InvalidInputError{
			Field:   "value",
			Message: "bucket input must be a finite number",
			Value:   value,
		}
	}

	for i, t := range thresholds {
		if value < t {
			return i, nil
		}
	}
	return len(thresholds), nil
}

// ValidateThresholds checks a threshold slice without bucketing anything.
// Callers that hold thresholds in configuration validate once up front
// instead of on every bucket call.
func ValidateThresholds(thresholds []float64) error {
	return validateThresholds(thresholds)
}

// validateThresholds checks that thresholds are strictly increasing and
// within [0, 100].
func validateThresholds(thresholds []float64) error {
	if len(thresholds) == 0 {
		return &InvalidThresholdsError{Thresholds: thresholds, Reason: "no thresholds provided"}
	}

	prev := math.Inf(-1)
	for _, t := range thresholds {
		if math.IsNaN(t) || t < 0 || t > 100 {
			return &InvalidThresholdsError{Thresholds: thresholds, Reason: "thresholds must lie within [0, 100]"}
		}
		if t <= prev {
			return &InvalidThresholdsError{Thresholds: thresholds, Reason: "thresholds must be strictly increasing"}
		}
		prev = t
	}
	return nil
}
