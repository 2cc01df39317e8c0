package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/utafrali/ContentSearchGo/pkg/health"
	"github.com/utafrali/ContentSearchGo/pkg/middleware"
)

const serviceName = "content-search-service"

// NewRouter assembles the HTTP routes with the standard middleware stack.
func NewRouter(h *Handler, healthHandler *health.Handler, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(chimiddleware.Compress(5))
	r.Use(chimiddleware.Timeout(30 * time.Second))
	r.Use(middleware.Tracing(serviceName))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics(serviceName))

	r.Get("/health", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/search", func(r chi.Router) {
			r.Get("/", h.Search)
			r.With(ContentTypeJSON).Post("/", h.SearchPost)
		})
		r.Route("/content", func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Post("/bulk", h.BulkLoad)
			r.Post("/reindex", h.Reindex)
		})
	})

	return r
}
