package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	logger      *slog.Logger
	serviceName string
	checks      map[string]HealthChecker
}

func NewHealthHandler(deps *Dependencies) *HealthHandler {
	return &HealthHandler{
		logger:      deps.Logger,
		serviceName: deps.ServiceName,
		checks:      deps.HealthChecks,
	}
}

// Health handles GET /api/health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := h.checks[name].HealthCheck(ctx); err != nil {
			h.logger.Error("Health check failed",
				slog.String("dependency", name),
				slog.Any("error", err),
			)
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "degraded",
				"service": h.serviceName,
				"error":   name + ": " + err.Error(),
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.serviceName,
	})
}
