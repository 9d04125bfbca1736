package handlers

import (
	"context"
	"net/http"
	"time"

	zlog "github.com/rs/zerolog/log"

	"github.com/baechuer/real-time-ressys/services/organizer-service/internal/transport/http/response"
)

// Check reports whether a dependency is reachable.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Check
}

func NewHealthHandler(checks map[string]Check) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	response.Data(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	ready := true
	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check(ctx); err != nil {
			zlog.Warn().Err(err).Str("dependency", name).Msg("readiness check failed")
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "ok"
	}

	if !ready {
		response.Fail(w, http.StatusServiceUnavailable, "not_ready", "dependencies unavailable", status, response.RequestIDFromRequest(r))
		return
	}
	response.Data(w, http.StatusOK, status)
}
