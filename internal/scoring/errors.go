package scoring

import (
	"fmt"
	"strings"
)

// InvalidInputError reports a malformed, empty or degenerate input array, or
// invalid normalization parameters. It is deterministic: re-invoking with the
// same input always reproduces the same error.
type InvalidInputError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Error implements the error interface
func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid input: %s", e.Message)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Message)
}

// InvalidWeightsError reports a zero, negative or mismatched weight
// configuration. This indicates a configuration bug rather than a data
// quality issue, so callers should generally treat it as fatal.
type InvalidWeightsError struct {
	Reason string `json:"reason"`
}

// Error implements the error interface
func (e *InvalidWeightsError) Error() string {
	return fmt.Sprintf("invalid weights: %s", e.Reason)
}

// MissingPillarError reports pillar scores absent at composition time. The
// missing pillars are enumerated by name to enable targeted remediation.
type MissingPillarError struct {
	Pillars []string `json:"pillars"`
}

// Error implements the error interface
func (e *MissingPillarError) Error() string {
	return fmt.Sprintf("missing pillar scores: %s", strings.Join(e.Pillars, ", "))
}

// InvalidThresholdsError reports bucket thresholds that are not strictly
// increasing or fall outside [0,100].
type InvalidThresholdsError struct {
	Thresholds []float64 `json:"thresholds"`
	Reason     string    `json:"reason"`
}

// Error implements the error interface
func (e *InvalidThresholdsError) Error() string {
	return fmt.Sprintf("invalid thresholds %v: %s", e.Thresholds, e.Reason)
}

// InvalidRiskMultiplierError reports a risk multiplier outside the configured
// sane range. Raised only under a strict RiskPolicy; lenient policies clamp
// and record the event instead.
type InvalidRiskMultiplierError struct {
	Value float64 `json:"value"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Error implements the error interface
func (e *InvalidRiskMultiplierError) Error() string {
	return fmt.Sprintf("risk multiplier %.4f outside allowed range [%.2f, %.2f]", e.Value, e.Min, e.Max)
}
