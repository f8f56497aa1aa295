package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ledgerbook/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// HealthCheck probes one dependency
type HealthCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	version   string
	startTime time.Time
	timeout   time.Duration
	checks    map[string]HealthCheck
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(version string) *HealthHandler {
	return &HealthHandler{
		version:   version,
		startTime: time.Now(),
		timeout:   2 * time.Second,
		checks:    make(map[string]HealthCheck),
	}
}

// AddCheck registers a readiness dependency
func (h *HealthHandler) AddCheck(name string, check HealthCheck) {
	h.checks[name] = check
}

// HealthResponse is the body of both probes
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy"`
	Version   string            `json:"version,omitempty" example:"1.0.0"`
	GoVersion string            `json:"go_version,omitempty" example:"go1.25.5"`
	Uptime    string            `json:"uptime,omitempty" example:"1h30m45s"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Live godoc
// @ID           getHealth
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Router       /health [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// Ready godoc
// @ID           getHealthReady
// @Summary      Readiness probe
// @Description  Pings the database and the report cache
// @Tags         health
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	status, code := "healthy", http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			logger.L(ctx).Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			results[name] = "unavailable"
			status, code = "unhealthy", http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	c.JSON(code, HealthResponse{Status: status, Checks: results})
}
