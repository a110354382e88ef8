package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"msascore/internal/config"
	"msascore/internal/middleware"
)

// NewRouter assembles the service router: middleware chain, scoring
// endpoints, health and metrics.
func NewRouter(cfg *config.Config, logger *slog.Logger, registry *prometheus.Registry) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.StructuredLogger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Compress(5))

	if cfg.Security.RateLimit.Enabled {
		limiter := middleware.NewRateLimiter(cfg.Security.RateLimit.RPS, cfg.Security.RateLimit.Burst, logger)
		r.Use(limiter.Handler)
	}

	scoreHandler := NewScoreHandler(cfg.RiskPolicy(), logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/score", scoreHandler.Score)
		r.Get("/weights/default", scoreHandler.DefaultWeights)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	return r
}
