package handler

import (
	"context"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/infrastructure/logger"
	"github.com/nexus/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether the record store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and fallback routes
type SystemHandler struct {
	BaseHandler
	store     Pinger
	backend   string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store Pinger, backend, version string) *SystemHandler {
	return &SystemHandler{
		store:     store,
		backend:   backend,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status    string `json:"status"`
	Store     string `json:"store"`
	Version   string `json:"version"`
	GoVersion string `json:"goVersion"`
	Uptime    string `json:"uptime"`
}

// Health handles GET /health. It answers 503 when the store does not
// respond to a ping.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		logger.GetGinLogger(c).Warn("Health check failed", zap.String("store", h.backend), zap.Error(err))
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeUnavailable), "Record store unavailable")
		return
	}

	h.Success(c, HealthResponse{
		Status:    "ok",
		Store:     h.backend,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// NoRoute answers unknown paths with the failure envelope
func (h *SystemHandler) NoRoute(c *gin.Context) {
	h.Error(c, dto.GetHTTPStatus(dto.ErrCodeRouteUnknown), "Route not found")
}
