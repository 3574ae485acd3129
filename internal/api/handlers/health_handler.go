package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/foodshare/engine/internal/api/types"
	appErr "github.com/foodshare/engine/pkg/errors"
)

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

type HealthHandler struct {
	checks map[string]Pinger
}

func NewHealthHandler(checks map[string]Pinger) *HealthHandler {
	return &HealthHandler{checks: checks}
}

func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: map[string]string{"status": "ok"}})
}

func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{}
	ready := true
	for name, ping := range h.checks {
		if err := ping(ctx); err != nil {
			status[name] = "down"
			ready = false
			continue
		}
		status[name] = "up"
	}
	if !ready {
		writeJSON(w, http.StatusServiceUnavailable, types.APIResponse{
			Data:  status,
			Error: &types.APIError{Code: string(appErr.CodeInternal), Message: "dependencies unavailable"},
		})
		return
	}
	status["status"] = "ready"
	writeJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: status})
}
