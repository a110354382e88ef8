package batch

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for batch scoring runs.
type Metrics struct {
	MarketsScored  prometheus.Counter
	MarketsSkipped prometheus.Counter
	RiskClamped    prometheus.Counter
	ScoreDuration  prometheus.Histogram
}

// NewMetrics registers the batch instruments with the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MarketsScored: factory.NewCounter(prometheus.CounterOpts{
			Name: "msascore_markets_scored_total",
			Help: "Markets scored successfully across all batch runs.",
		}),
		MarketsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "msascore_skipped_markets_total",
			Help: "Markets skipped because of per-market data failures.",
		}),
		RiskClamped: factory.NewCounter(prometheus.CounterOpts{
			Name: "msascore_risk_clamped_total",
			Help: "Risk multipliers clamped to the configured sane range.",
		}),
		ScoreDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "msascore_score_duration_seconds",
			Help:    "Wall time to score a single market.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

func (m *Metrics) scored() {
	if m != nil {
		m.MarketsScored.Inc()
	}
}

func (m *Metrics) skipped() {
	if m != nil {
		m.MarketsSkipped.Inc()
	}
}

func (m *Metrics) clamped() {
	if m != nil {
		m.RiskClamped.Inc()
	}
}

func (m *Metrics) observeDuration(seconds float64) {
	if m != nil {
		m.ScoreDuration.Observe(seconds)
	}
}
