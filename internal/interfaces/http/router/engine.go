package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/infrastructure/config"
	"github.com/nexus/backend/internal/infrastructure/logger"
	"github.com/nexus/backend/internal/interfaces/http/handler"
	"github.com/nexus/backend/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// EngineConfig collects what the gin engine needs besides the API routes
type EngineConfig struct {
	Logger      *zap.Logger
	HTTP        config.HTTPConfig
	Production  bool
	ServiceName string
	Tracing     bool
	Profiling   bool
	// Metrics serves /metrics when set
	Metrics *middleware.HTTPMetrics
	// RateLimiter is applied to every request when set
	RateLimiter *middleware.RateLimiter
	Actor       middleware.ActorConfig
	System      *handler.SystemHandler
}

// NewEngine builds the gin engine with the middleware stack, the system
// routes and api mounted under /api.
//
// Middleware order:
//  1. RequestID
//  2. Recovery
//  3. request log
//  4. security headers
//  5. CORS
//  6. body limit
//  7. rate limit, if enabled
//  8. tracing, if enabled
//  9. profiling labels, if enabled
//  10. Prometheus metrics
//  11. actor resolution
func NewEngine(cfg EngineConfig, api RouteRegistrar) (*gin.Engine, error) {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.Production
	engine.Use(middleware.Secure(security))

	cors := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(cors))

	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.RateLimiter != nil {
		engine.Use(middleware.RateLimit(cfg.RateLimiter))
	}
	if cfg.Tracing {
		engine.Use(middleware.Tracing(cfg.ServiceName)...)
	}
	if cfg.Profiling {
		engine.Use(middleware.Profiling())
	}
	if cfg.Metrics != nil {
		engine.Use(cfg.Metrics.Middleware())
		engine.GET("/metrics", cfg.Metrics.Handler())
	}
	engine.Use(middleware.Actor(cfg.Actor))

	if cfg.System != nil {
		engine.GET("/health", cfg.System.Health)
		engine.NoRoute(cfg.System.NoRoute)
	}

	NewRouter(engine).Register(api).Setup()
	return engine, nil
}
