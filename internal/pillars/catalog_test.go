package pillars

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"msascore/internal/scoring"
)

// TestCatalog tests catalog integrity: every metric belongs to a valid
// pillar and names are unique
func TestCatalog(t *testing.T) {
	catalog := Catalog()
	require.NotEmpty(t, catalog)

	seen := make(map[string]bool)
	perPillar := make(map[scoring.Pillar]int)

	for _, def := range catalog {
		assert.True(t, def.Pillar.IsValid(), "metric %s has invalid pillar %s", def.Name, def.Pillar)
		assert.False(t, seen[def.Name], "duplicate metric name %s", def.Name)
		assert.NotEmpty(t, def.Description, "metric %s has no description", def.Name)
		seen[def.Name] = true
		perPillar[def.Pillar]++
	}

	// Every pillar has at least one metric
	for _, p := range scoring.Pillars() {
		assert.Greater(t, perPillar[p], 0, "pillar %s has no metrics", p)
	}
}

// TestMetricsForPillar tests pillar filtering
func TestMetricsForPillar(t *testing.T) {
	supply := MetricsForPillar(scoring.PillarSupply)
	require.NotEmpty(t, supply)
	for _, def := range supply {
		assert.Equal(t, scoring.PillarSupply, def.Pillar)
	}
}

// TestLookupMetric tests metric lookup
func TestLookupMetric(t *testing.T) {
	def, ok := LookupMetric("vacancy")
	require.True(t, ok)
	assert.Equal(t, scoring.PillarSupply, def.Pillar)
	assert.True(t, def.Invert, "vacancy should be inverted: higher vacancy is worse")

	_, ok = LookupMetric("no_such_metric")
	assert.False(t, ok)
}

// TestDefaultPillarWeights tests that defaults cover exactly the catalog
// metrics of each pillar with positive total weight
func TestDefaultPillarWeights(t *testing.T) {
	for _, p := range scoring.Pillars() {
		t.Run(string(p), func(t *testing.T) {
			weights := DefaultPillarWeights(p)
			defs := MetricsForPillar(p)
			require.Len(t, weights, len(defs))

			total := 0.0
			for _, def := range defs {
				w, ok := weights[def.Name]
				require.True(t, ok, "metric %s has no default weight", def.Name)
				assert.GreaterOrEqual(t, w, 0.0)
				total += w
			}
			assert.InDelta(t, 1.0, total, 1e-9, "default weights for %s should sum to 1", p)
		})
	}

	assert.Empty(t, DefaultPillarWeights(scoring.Pillar("bogus")))
}
