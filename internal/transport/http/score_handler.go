// Package http exposes the scoring engine over a chi router: synchronous
// composite scoring, the default weight scheme, health and Prometheus
// metrics.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	apierrors "msascore/internal/errors"
	"msascore/internal/pillars"
	"msascore/internal/scoring"
)

// ScoreHandler handles composite scoring requests
type ScoreHandler struct {
	policy   scoring.RiskPolicy
	logger   *slog.Logger
	validate *validator.Validate
}

// NewScoreHandler creates a new score handler
func NewScoreHandler(policy scoring.RiskPolicy, logger *slog.Logger) *ScoreHandler {
	return &ScoreHandler{
		policy:   policy,
		logger:   logger.With(slog.String("handler", "score")),
		validate: validator.New(),
	}
}

// MarketInput is one market to score: pillar scores on the 0-100 scale plus
// the externally supplied risk multiplier. A zero multiplier means "not
// provided" and scores neutrally at 1.0.
type MarketInput struct {
	MarketID       string             `json:"market_id" validate:"required"`
	Pillars        map[string]float64 `json:"pillars" validate:"required"`
	RiskMultiplier float64            `json:"risk_multiplier"`
}

// ScoreRequest is the body of POST /api/v1/score.
type ScoreRequest struct {
	AsOf    string                    `json:"as_of" validate:"required,datetime=2006-01-02"`
	Weights *scoring.CompositeWeights `json:"weights,omitempty"`
	Markets []MarketInput             `json:"markets" validate:"required,min=1,dive"`
}

// ScoreResponse is the success envelope of POST /api/v1/score.
type ScoreResponse struct {
	Success bool                           `json:"success"`
	RunID   string                         `json:"run_id"`
	Records []scoring.CompositeScoreRecord `json:"records"`
}

// Score handles POST /api/v1/score
func (h *ScoreHandler) Score(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req ScoreRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(
			apierrors.NewWithDetails(http.StatusBadRequest, "VALIDATION_FAILED", "Request validation failed", err.Error())))
		return
	}

	asOf, err := time.Parse("2006-01-02", req.AsOf)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.InvalidRequestWithError(err)))
		return
	}

	weights := scoring.DefaultCompositeWeights()
	if req.Weights != nil {
		weights = *req.Weights
	}

	composer, err := scoring.NewComposer(weights, h.policy, h.logger)
	if err != nil {
		render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromScoringError(err)))
		return
	}

	runID := uuid.New().String()
	records := make([]scoring.CompositeScoreRecord, 0, len(req.Markets))

	for _, market := range req.Markets {
		pillarScores := make(map[scoring.Pillar]float64, len(market.Pillars))
		for name, value := range market.Pillars {
			pillarScores[scoring.Pillar(name)] = value
		}

		multiplier := market.RiskMultiplier
		if multiplier == 0 {
			multiplier = 1.0
		}

		record, err := composer.Score(ctx, scoring.ScoreInput{
			MarketID:       market.MarketID,
			AsOf:           asOf,
			Pillars:        pillarScores,
			RiskMultiplier: multiplier,
			WeightSchemeID: "request",
			RunID:          runID,
		})
		if err != nil {
			h.logger.WarnContext(ctx, "scoring request rejected",
				"market_id", market.MarketID,
				"error", err,
			)
			render.Render(w, r, apierrors.NewErrorResponse(apierrors.FromScoringError(err)))
			return
		}
		records = append(records, record)
	}

	h.logger.InfoContext(ctx, "scored request batch",
		"run_id", runID,
		"markets", len(records),
	)

	render.JSON(w, r, ScoreResponse{Success: true, RunID: runID, Records: records})
}

// DefaultWeights handles GET /api/v1/weights/default
func (h *ScoreHandler) DefaultWeights(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, pillars.DefaultScheme())
}
