package errors

import (
	"errors"
	"net/http"

	"msascore/internal/scoring"
)

// FromScoringError maps an engine error to the API error taxonomy. Anything
// the engine does not classify is reported as an internal error without
// leaking internals to the caller.
func FromScoringError(err error) *APIError {
	var (
		inputErr      *scoring.InvalidInputError
		weightsErr    *scoring.InvalidWeightsError
		missingErr    *scoring.MissingPillarError
		thresholdsErr *scoring.InvalidThresholdsError
		riskErr       *scoring.InvalidRiskMultiplierError
	)

	switch {
	case errors.As(err, &missingErr):
		return NewWithDetails(http.StatusUnprocessableEntity, "MISSING_PILLAR", missingErr.Error(), missingErr.Pillars)
	case errors.As(err, &riskErr):
		return NewWithDetails(http.StatusUnprocessableEntity, "INVALID_RISK_MULTIPLIER", riskErr.Error(), riskErr.Value)
	case errors.As(err, &weightsErr):
		return NewWithDetails(http.StatusBadRequest, "INVALID_WEIGHTS", weightsErr.Error(), weightsErr.Reason)
	case errors.As(err, &thresholdsErr):
		return NewWithDetails(http.StatusBadRequest, "INVALID_THRESHOLDS", thresholdsErr.Error(), thresholdsErr.Reason)
	case errors.As(err, &inputErr):
		return NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", inputErr.Error(), inputErr.Field)
	default:
		return NewInternalError("scoring failed")
	}
}
