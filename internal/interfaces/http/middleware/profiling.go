package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/infrastructure/telemetry"
)

// profilingSkipPaths are never labelled
var profilingSkipPaths = map[string]bool{
	"/health":  true,
	"/metrics": true,
}

// Profiling tags CPU samples taken while a request is handled with its
// method, route pattern and resource, e.g. route "/api/sales/:id" and
// resource "sales".
func Profiling() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" || profilingSkipPaths[route] {
			c.Next()
			return
		}

		labels := map[string]string{
			telemetry.ProfilingLabelMethod:   c.Request.Method,
			telemetry.ProfilingLabelRoute:    route,
			telemetry.ProfilingLabelResource: resourceFromRoute(route),
		}
		telemetry.WithProfilingLabels(c.Request.Context(), labels, func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

// resourceFromRoute returns the first static segment after /api
func resourceFromRoute(route string) string {
	for _, part := range strings.Split(strings.TrimPrefix(route, "/api"), "/") {
		if part == "" || strings.HasPrefix(part, ":") || strings.HasPrefix(part, "*") {
			continue
		}
		return part
	}
	return ""
}
