package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MikeSquared-Agency/Retrofit/internal/assessor"
	"github.com/MikeSquared-Agency/Retrofit/internal/config"
	"github.com/MikeSquared-Agency/Retrofit/internal/metrics"
)

func NewRouter(svc *assessor.Service, m *metrics.Metrics, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", ClientIDHeader},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(m.Middleware)
	r.Use(RateLimitMiddleware(cfg.Server.RequestsPerMinute))

	options := NewOptionsHandler()
	score := NewScoreHandler(svc)
	analyze := NewAnalyzeHandler(svc)
	assessments := NewAssessmentsHandler(svc)
	admin := NewAdminHandler(svc)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/options", options.Get)

		r.Post("/score", score.Score)
		r.Post("/score/explain", score.Explain)
		r.Post("/analyze", analyze.Analyze)

		r.Get("/assessments", assessments.List)
		r.Get("/assessments/{id}", assessments.Get)

		r.Group(func(r chi.Router) {
			r.Use(AdminAuthMiddleware(cfg.Server.AdminToken))
			r.Delete("/assessments/{id}", admin.Delete)
			r.Get("/stats", admin.Stats)
		})
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
