package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter creates a new router with all routes configured
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware (all routes)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Get("/health", h.Health)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(h.apiKey))
			r.Get("/catalog", h.Catalog)

			// Per-IP limit on the compute-heavy endpoints
			r.Group(func(r chi.Router) {
				r.Use(RateLimitMiddleware(h.requestsPerMinute))
				r.With(SeedMiddleware).Post("/recommend", h.Recommend)
				r.Post("/render-image", h.RenderImage)
			})
		})
	})

	return r
}
