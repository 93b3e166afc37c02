package handlers

import (
	"net/http"

	"github.com/fundedlabs/signal-center/internal/common"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	logger   *common.Logger
	strategy string
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(logger *common.Logger, strategy string) *HealthHandler {
	return &HealthHandler{logger: logger, strategy: strategy}
}

// ServeHTTP handles GET /api/health.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, "GET") {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"strategy": h.strategy,
	})
}
