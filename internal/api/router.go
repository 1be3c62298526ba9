package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// healthCheckTimeout bounds each component check on /health.
const healthCheckTimeout = 2 * time.Second

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/entities", func(r chi.Router) {
			r.Get("/", s.handleListEntities)

			r.Route("/{unique_id}", func(r chi.Router) {
				r.Get("/", s.handleGetEntity)
				r.Put("/value", s.handleSetEntityValue)
			})
		})

		r.Post("/coordinator/refresh", s.handleRefreshCoordinator)

		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth reports the server, coordinator and infrastructure status.
// The response is 200 even when degraded so monitors can read the detail.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	resp := map[string]any{
		"version":  s.version,
		"entities": s.registry.Count(),
	}

	if s.coordinator != nil {
		success := s.coordinator.LastUpdateSuccess()
		if !success {
			status = "degraded"
		}
		coord := map[string]any{"last_update_success": success}
		if last := s.coordinator.LastUpdate(); !last.IsZero() {
			coord["last_update"] = last.UTC().Format(time.RFC3339)
		}
		if err := s.coordinator.LastError(); err != nil {
			coord["last_error"] = err.Error()
		}
		resp["coordinator"] = coord
	}

	if len(s.components) > 0 {
		components := make(map[string]string, len(s.components))
		for name, checker := range s.components {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			err := checker.HealthCheck(ctx)
			cancel()
			if err != nil {
				components[name] = err.Error()
				status = "degraded"
				continue
			}
			components[name] = "ok"
		}
		resp["components"] = components
	}

	resp["status"] = status
	writeJSON(w, http.StatusOK, resp)
}
