// Package batch orchestrates scoring runs across a panel of markets:
// cross-sectional normalization of every metric column, pillar aggregation
// and composition per market, with bounded concurrency and deterministic
// output order.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"msascore/internal/pillars"
	"msascore/internal/scoring"
)

// DefaultMaxConcurrency bounds the scoring fan-out when no explicit limit is
// configured.
const DefaultMaxConcurrency = 4

// RunMetadata describes one batch run. RunID and timestamps are stamped here,
// outside the pure engine, so the engine itself stays deterministic.
type RunMetadata struct {
	RunID          string    `json:"run_id"`
	WeightSchemeID string    `json:"weight_scheme_id"`
	AsOf           time.Time `json:"as_of"`
	StartedAt      time.Time `json:"started_at"`
	CompletedAt    time.Time `json:"completed_at"`
	MarketsScored  int       `json:"markets_scored"`
	MarketsSkipped int       `json:"markets_skipped"`
}

// Result is the output of one batch run: metadata plus one record per scored
// market, sorted by market id.
type Result struct {
	Metadata RunMetadata                    `json:"metadata"`
	Records  []scoring.CompositeScoreRecord `json:"records"`
}

// Runner executes batch scoring runs. Per-market data failures are skipped
// and logged; configuration failures (bad weights, bad normalization bounds)
// abort the whole run because every market would fail identically.
type Runner struct {
	params         scoring.NormalizationParams
	mode           scoring.MissingMode
	policy         scoring.RiskPolicy
	maxConcurrency int
	logger         *slog.Logger
	metrics        *Metrics
}

// NewRunner creates a runner with the given engine settings.
func NewRunner(params scoring.NormalizationParams, policy scoring.RiskPolicy, mode scoring.MissingMode, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		params:         params,
		mode:           mode,
		policy:         policy,
		maxConcurrency: DefaultMaxConcurrency,
		logger:         logger,
	}
}

// SetMaxConcurrency bounds the per-market scoring fan-out.
func (r *Runner) SetMaxConcurrency(n int) {
	if n > 0 {
		r.maxConcurrency = n
	}
}

// SetMetrics attaches Prometheus instruments. A nil receiver-side metrics set
// disables instrumentation.
func (r *Runner) SetMetrics(m *Metrics) {
	r.metrics = m
}

// Run scores every market in the dataset under the given weight scheme.
// Markets absent from riskByMarket score with a neutral 1.0 multiplier.
func (r *Runner) Run(ctx context.Context, ds *pillars.Dataset, scheme *pillars.WeightScheme, riskByMarket map[string]float64, asOf time.Time) (*Result, error) {
	startedAt := time.Now()
	runID := uuid.New().String()

	r.logger.InfoContext(ctx, "starting batch scoring run",
		"run_id", runID,
		"weight_scheme", scheme.ID,
		"markets", len(ds.Markets),
		"as_of", asOf.Format("2006-01-02"),
	)

	if err := scheme.Validate(); err != nil {
		return nil, fmt.Errorf("weight scheme: %w", err)
	}

	composer, err := scoring.NewComposer(scheme.Composite, r.policy, r.logger)
	if err != nil {
		return nil, fmt.Errorf("build composer: %w", err)
	}

	normalized, err := r.normalizePanel(ctx, ds)
	if err != nil {
		return nil, err
	}

	records := make([]*scoring.CompositeScoreRecord, len(ds.Markets))
	var skippedCount atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, marketID := range ds.Markets {
		i, marketID := i, marketID
		g.Go(func() error {
			start := time.Now()

			record, err := r.scoreMarket(gctx, composer, scheme, normalized, i, marketID, riskByMarket, asOf, runID)
			if err != nil {
				var weightsErr *scoring.InvalidWeightsError
				if errors.As(err, &weightsErr) {
					return fmt.Errorf("market %s: %w", marketID, err)
				}
				r.logger.WarnContext(gctx, "skipping market",
					"run_id", runID,
					"market_id", marketID,
					"error", err,
				)
				r.metrics.skipped()
				skippedCount.Add(1)
				return nil
			}

			if record.RiskClamped {
				r.metrics.clamped()
			}
			r.metrics.scored()
			r.metrics.observeDuration(time.Since(start).Seconds())

			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	scored := make([]scoring.CompositeScoreRecord, 0, len(records))
	for _, record := range records {
		if record != nil {
			scored = append(scored, *record)
		}
	}
	sort.Slice(scored, func(a, b int) bool {
		return scored[a].MarketID < scored[b].MarketID
	})

	if len(scored) == 0 {
		return nil, fmt.Errorf("no markets scored out of %d", len(ds.Markets))
	}

	completedAt := time.Now()
	r.logger.InfoContext(ctx, "batch scoring run complete",
		"run_id", runID,
		"markets_scored", len(scored),
		"markets_skipped", skippedCount.Load(),
		"duration", completedAt.Sub(startedAt),
	)

	return &Result{
		Metadata: RunMetadata{
			RunID:          runID,
			WeightSchemeID: scheme.ID,
			AsOf:           asOf,
			StartedAt:      startedAt,
			CompletedAt:    completedAt,
			MarketsScored:  len(scored),
			MarketsSkipped: int(skippedCount.Load()),
		},
		Records: scored,
	}, nil
}

// normalizePanel normalizes every catalog metric present in the dataset
// cross-sectionally, applying the catalog's invert flag so that higher always
// means better downstream.
func (r *Runner) normalizePanel(ctx context.Context, ds *pillars.Dataset) (map[string][]float64, error) {
	normalized := make(map[string][]float64)

	for _, def := range pillars.Catalog() {
		if !ds.HasMetric(def.Name) {
			continue
		}

		values, err := ds.MetricValues(def.Name)
		if err != nil {
			return nil, err
		}

		scores, err := scoring.RobustMinMax(values, r.params)
		if err != nil {
			return nil, fmt.Errorf("normalize metric %s: %w", def.Name, err)
		}
		if def.Invert {
			scores = scoring.Invert(scores)
		}
		normalized[def.Name] = scores
	}

	if len(normalized) == 0 {
		return nil, fmt.Errorf("dataset carries no catalog metrics")
	}

	r.logger.DebugContext(ctx, "normalized metric panel",
		"metrics", len(normalized),
		"markets", len(ds.Markets),
	)

	return normalized, nil
}

// scoreMarket aggregates the four pillars for one market and composes the
// final record.
func (r *Runner) scoreMarket(ctx context.Context, composer *scoring.Composer, scheme *pillars.WeightScheme, normalized map[string][]float64, idx int, marketID string, riskByMarket map[string]float64, asOf time.Time, runID string) (*scoring.CompositeScoreRecord, error) {
	pillarScores := make(map[scoring.Pillar]float64, 4)

	for _, p := range scoring.Pillars() {
		metrics := make(map[string]float64)
		for _, def := range pillars.MetricsForPillar(p) {
			if scores, ok := normalized[def.Name]; ok {
				metrics[def.Name] = scores[idx]
			}
		}

		value, err := scoring.AggregatePillar(ctx, metrics, scheme.PillarWeightsFor(p), r.mode)
		if err != nil {
			return nil, fmt.Errorf("aggregate pillar %s: %w", p, err)
		}
		pillarScores[p] = value
	}

	multiplier, ok := riskByMarket[marketID]
	if !ok {
		multiplier = 1.0
	}

	record, err := composer.Score(ctx, scoring.ScoreInput{
		MarketID:       marketID,
		AsOf:           asOf,
		Pillars:        pillarScores,
		RiskMultiplier: multiplier,
		WeightSchemeID: scheme.ID,
		RunID:          runID,
	})
	if err != nil {
		return nil, err
	}

	return &record, nil
}
