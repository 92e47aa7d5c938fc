package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/erp/proposals/internal/infrastructure/logger"
	"github.com/erp/proposals/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	checks    map[string]HealthCheck
	timeout   time.Duration
}

// NewHealthHandler creates a HealthHandler. Checks are run by Ready.
func NewHealthHandler(version string, checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		checks:    checks,
		timeout:   2 * time.Second,
	}
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	GoVersion string            `json:"go_version"`
	Uptime    string            `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health. It never touches dependencies.
func (h *HealthHandler) Health(c *gin.Context) {
	h.Success(c, h.response("ok", nil))
}

// Ready handles GET /ready and answers 503 when any check fails
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	healthy := true
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.L(ctx).Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			results[name] = "down"
			healthy = false
			continue
		}
		results[name] = "up"
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, dto.Response{
			Success: false,
			Data:    h.response("degraded", results),
			Error:   &dto.ErrorInfo{Code: dto.ErrCodeUnavailable, Message: "dependency unavailable"},
		})
		return
	}
	h.Success(c, h.response("ok", results))
}

func (h *HealthHandler) response(status string, checks map[string]string) HealthResponse {
	return HealthResponse{
		Status:    status,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Checks:    checks,
	}
}
