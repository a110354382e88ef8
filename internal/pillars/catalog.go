// Package pillars defines the raw metric catalog behind the four scoring
// pillars and loads per-market metric panels and weight schemes.
package pillars

import (
	"msascore/internal/scoring"
)

// MetricDef describes one raw metric consumed from an upstream calculator.
// Invert marks metrics where a higher raw value means a worse market
// (vacancy, air quality index); their normalized scores are reflected so
// that higher always means better inside the engine.
type MetricDef struct {
	Name        string         `json:"name"`
	Pillar      scoring.Pillar `json:"pillar"`
	Invert      bool           `json:"invert"`
	Description string         `json:"description"`
}

// Catalog returns every known metric in a fixed order: pillar by pillar in
// canonical composition order, then by declaration. Batch runs iterate this
// slice so results never depend on map ordering.
func Catalog() []MetricDef {
	return []MetricDef{
		// Supply pillar
		{Name: "permit_rate", Pillar: scoring.PillarSupply, Description: "annual building permits per 1k households"},
		{Name: "vacancy", Pillar: scoring.PillarSupply, Invert: true, Description: "rental vacancy rate, percent"},
		{Name: "leaseup_months", Pillar: scoring.PillarSupply, Invert: true, Description: "months to stabilize new deliveries"},

		// Jobs pillar
		{Name: "emp_cagr", Pillar: scoring.PillarJobs, Description: "5y employment CAGR, percent"},
		{Name: "location_quotient", Pillar: scoring.PillarJobs, Description: "target-industry location quotient"},
		{Name: "wage_growth", Pillar: scoring.PillarJobs, Description: "3y average wage growth, percent"},

		// Urban pillar
		{Name: "poi_density", Pillar: scoring.PillarUrban, Description: "points of interest per square km"},
		{Name: "intersection_density", Pillar: scoring.PillarUrban, Description: "street intersections per square km"},
		{Name: "transit_stops", Pillar: scoring.PillarUrban, Description: "transit stops within walkshed"},

		// Outdoors pillar
		{Name: "aqi_median", Pillar: scoring.PillarOutdoors, Invert: true, Description: "median air quality index"},
		{Name: "smoke_days", Pillar: scoring.PillarOutdoors, Invert: true, Description: "wildfire smoke days per year"},
		{Name: "trailhead_count", Pillar: scoring.PillarOutdoors, Description: "trailheads within 30min drive"},
	}
}

// MetricsForPillar returns the catalog entries belonging to one pillar, in
// catalog order.
func MetricsForPillar(p scoring.Pillar) []MetricDef {
	var defs []MetricDef
	for _, def := range Catalog() {
		if def.Pillar == p {
			defs = append(defs, def)
		}
	}
	return defs
}

// LookupMetric finds a catalog entry by name.
func LookupMetric(name string) (MetricDef, bool) {
	for _, def := range Catalog() {
		if def.Name == name {
			return def, true
		}
	}
	return MetricDef{}, false
}

// DefaultPillarWeights returns the documented default metric weights for one
// pillar. The first metric of each pillar carries the largest weight,
// mirroring its explanatory power in the underlying research.
func DefaultPillarWeights(p scoring.Pillar) scoring.PillarWeights {
	switch p {
	case scoring.PillarSupply:
		return scoring.PillarWeights{
			"permit_rate":    0.40,
			"vacancy":        0.35,
			"leaseup_months": 0.25,
		}
	case scoring.PillarJobs:
		return scoring.PillarWeights{
			"emp_cagr":          0.45,
			"location_quotient": 0.30,
			"wage_growth":       0.25,
		}
	case scoring.PillarUrban:
		return scoring.PillarWeights{
			"poi_density":          0.40,
			"intersection_density": 0.30,
			"transit_stops":        0.30,
		}
	case scoring.PillarOutdoors:
		return scoring.PillarWeights{
			"aqi_median":      0.40,
			"smoke_days":      0.30,
			"trailhead_count": 0.30,
		}
	default:
		return scoring.PillarWeights{}
	}
}
