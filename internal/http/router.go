// Package httpapi assembles the public HTTP surface of the service.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	inspectionhandler "roadcheck/internal/inspection/handler"
	"roadcheck/internal/platform/metrics"
	"roadcheck/internal/platform/middleware"
	ruleshandler "roadcheck/internal/rules/handler"
)

// requestTimeout bounds a single request end to end, evaluation included.
const requestTimeout = 60 * time.Second

// Registrar is implemented by module handlers that mount their own routes.
type Registrar interface {
	Register(r chi.Router)
}

var (
	_ Registrar = (*ruleshandler.Handler)(nil)
	_ Registrar = (*inspectionhandler.Handler)(nil)
)

// NewRouter wires middleware, operational endpoints, and the module handlers.
// Everything under /api/v1 requires a valid bearer token.
func NewRouter(
	logger *slog.Logger,
	m *metrics.Metrics,
	validator *middleware.Validator,
	limiter *middleware.RateLimiter,
	handlers ...Registrar,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics(m))
	r.Use(chimw.Timeout(requestTimeout))

	r.Get("/healthz", handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.RequireAuth(validator, logger))
		if limiter != nil {
			// Limiting runs after auth so budgets are per tenant, not per IP.
			api.Use(limiter.Handler)
		}
		for _, h := range handlers {
			h.Register(api)
		}
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
