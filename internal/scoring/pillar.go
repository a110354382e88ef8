package scoring

import (
	"context"
	"log/slog"
	"math"
	"sort"
)

// AggregatePillar combines several normalized 0-100 metrics into one pillar
// score via a weighted mean. Every key in weights must exist in metrics;
// metrics without a weight are ignored with a warning-level log, not a hard
// failure. The weighted sum iterates metric names in sorted order so repeated
// calls produce bit-identical results.
//
// Missing (NaN) metric values are handled according to mode: ModeStrict fails
// the call, ModePartial drops the metric and renormalizes the remaining
// weights. The mode is a required argument so the behavior is explicit at
// every call site.
func AggregatePillar(ctx context.Context, metrics map[string]float64, weights PillarWeights, mode MissingMode) (float64, error) {
	logger := slog.Default()

	if len(weights) == 0 {
		return 0, &InvalidWeightsError{Reason: "no weights provided"}
	}

	names := make([]string, 0, len(weights))
	for name, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return 0, &InvalidWeightsError{Reason: "weight for metric " + name + " must be a finite non-negative number"}
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if _, ok := metrics[name]; !ok {
			return 0, &InvalidWeightsError{Reason: "weighted metric " + name + " not present in metric set"}
		}
	}

	if extra := unweightedMetrics(metrics, weights); len(extra) > 0 {
		logger.WarnContext(ctx, "metrics without weights ignored in pillar aggregation",
			"metrics", extra,
		)
	}

	var weightedSum, weightSum, positiveWeights float64
	for _, name := range names {
		w := weights[name]
		if w == 0 {
			continue
		}
		positiveWeights += w

		v := metrics[name]
		if math.IsNaN(v) {
			if mode == ModeStrict {
				return 0, &InvalidInputError{
					Field:   name,
					Message: "metric value is missing in strict aggregation mode",
				}
			}
			// Partial mode: drop the metric; remaining weights renormalize
			// through the running weight sum.
			continue
		}

		weightedSum += w * v
		weightSum += w
	}

	if positiveWeights == 0 {
		return 0, &InvalidWeightsError{Reason: "all weights are zero"}
	}
	if weightSum == 0 {
		// Config was fine; every weighted value was missing. A data error,
		// not a weights error.
		return 0, &InvalidInputError{
			Field:   "metrics",
			Message: "no usable metric values remain after dropping missing entries",
		}
	}

	return weightedSum / weightSum, nil
}

// unweightedMetrics returns the sorted metric names present in metrics but
// absent from weights.
func unweightedMetrics(metrics map[string]float64, weights PillarWeights) []string {
	var extra []string
	for name := range metrics {
		if _, ok := weights[name]; !ok {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return extra
}
