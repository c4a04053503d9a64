package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tomasvalko/minimart/internal/server/http/dto"
)

// HealthPinger reports whether the service's backing store is reachable.
type HealthPinger interface {
	HealthCheck(ctx context.Context) error
}

// HealthHandler serves the container health probe.
type HealthHandler struct {
	pinger HealthPinger
}

// NewHealthHandler constructs HealthHandler.
func NewHealthHandler(pinger HealthPinger) *HealthHandler {
	return &HealthHandler{pinger: pinger}
}

// Healthz handles GET /healthz.
func (h *HealthHandler) Healthz(c *gin.Context) {
	if err := h.pinger.HealthCheck(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Detail: "storage unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
