package routers

import (
	"leetracker/internal/handlers"
	"leetracker/internal/metrics"

	"github.com/go-chi/chi/v5"
)

func HealthRoutes(r chi.Router, healthHandler *handlers.HealthHandler) {
	r.Get("/healthz", healthHandler.HealthzHandler)
	r.Get("/readyz", healthHandler.ReadyzHandler)
	r.Handle("/metrics", metrics.Handler())
}
