package pillars

import (
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"

	"msascore/internal/scoring"
)

// WeightScheme is a named, auditable weight configuration: composite weights
// across the four pillars plus optional per-pillar metric weight overrides.
// The scheme ID is embedded in every CompositeScoreRecord produced under it.
type WeightScheme struct {
	ID        string                        `yaml:"id" json:"id" validate:"required"`
	Composite scoring.CompositeWeights      `yaml:"composite" json:"composite"`
	Pillars   map[string]map[string]float64 `yaml:"pillars" json:"pillars"`
}

// DefaultScheme returns the documented default weight scheme.
func DefaultScheme() *WeightScheme {
	pillarWeights := make(map[string]map[string]float64, 4)
	for _, p := range scoring.Pillars() {
		pillarWeights[string(p)] = DefaultPillarWeights(p)
	}
	return &WeightScheme{
		ID:        "default",
		Composite: scoring.DefaultCompositeWeights(),
		Pillars:   pillarWeights,
	}
}

// LoadScheme reads and validates a weight scheme from a YAML file. Unknown
// pillar or metric keys fail fast rather than silently defaulting.
func LoadScheme(path string) (*WeightScheme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read weight scheme file: %w", err)
	}

	var scheme WeightScheme
	if err := yaml.UnmarshalStrict(data, &scheme); err != nil {
		return nil, fmt.Errorf("parse weight scheme YAML: %w", err)
	}

	if err := scheme.Validate(); err != nil {
		return nil, fmt.Errorf("validate weight scheme %q: %w", scheme.ID, err)
	}

	return &scheme, nil
}

// Validate checks structural validity and rejects unknown pillar or metric
// names.
func (ws *WeightScheme) Validate() error {
	if err := validator.New().Struct(ws); err != nil {
		return fmt.Errorf("scheme structure: %w", err)
	}

	if !ws.Composite.IsValid() {
		return &scoring.InvalidWeightsError{Reason: "composite weights must be finite, non-negative and sum to a positive total"}
	}

	pillarNames := make([]string, 0, len(ws.Pillars))
	for name := range ws.Pillars {
		pillarNames = append(pillarNames, name)
	}
	sort.Strings(pillarNames)

	for _, name := range pillarNames {
		if !scoring.Pillar(name).IsValid() {
			return &scoring.InvalidWeightsError{Reason: "unknown pillar " + name + " in weight scheme"}
		}

		metricNames := make([]string, 0, len(ws.Pillars[name]))
		for metric := range ws.Pillars[name] {
			metricNames = append(metricNames, metric)
		}
		sort.Strings(metricNames)

		for _, metric := range metricNames {
			def, ok := LookupMetric(metric)
			if !ok {
				return &scoring.InvalidWeightsError{Reason: "unknown metric " + metric + " in pillar " + name}
			}
			if def.Pillar != scoring.Pillar(name) {
				return &scoring.InvalidWeightsError{Reason: "metric " + metric + " does not belong to pillar " + name}
			}
			if ws.Pillars[name][metric] < 0 {
				return &scoring.InvalidWeightsError{Reason: "negative weight for metric " + metric}
			}
		}
	}

	return nil
}

// PillarWeightsFor returns the metric weights for one pillar: the scheme's
// override when present, the documented defaults otherwise.
func (ws *WeightScheme) PillarWeightsFor(p scoring.Pillar) scoring.PillarWeights {
	if override, ok := ws.Pillars[string(p)]; ok && len(override) > 0 {
		weights := make(scoring.PillarWeights, len(override))
		for name, w := range override {
			weights[name] = w
		}
		return weights
	}
	return DefaultPillarWeights(p)
}
