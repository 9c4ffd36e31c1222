package http

import (
	"context"
	"net/http"
	"time"

	"github.com/platelog/platelog-backend/internal/api/respond"
)

// Pinger is implemented by stores that can probe their backing database.
type Pinger interface {
	HealthPing(ctx context.Context) error
}

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	pinger Pinger
}

// NewHealthHandler creates a new health handler. pinger may be nil for
// stores without a meaningful probe.
func NewHealthHandler(pinger Pinger) *HealthHandler { return &HealthHandler{pinger: pinger} }

// CheckHealth handles GET /v0/health
// Always returns 200; the body reports healthy/unhealthy.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.HealthPing(ctx); err != nil {
			status = "unhealthy"
		}
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
