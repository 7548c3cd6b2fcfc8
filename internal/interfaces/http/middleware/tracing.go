package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing returns the otelgin middleware followed by a second one that
// tags the server span with the request id, the actor and, for bearer
// requests, the token role.
func Tracing(serviceName string) []gin.HandlerFunc {
	return []gin.HandlerFunc{
		otelgin.Middleware(serviceName),
		spanAttributes(),
	}
}

func spanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			c.Next()
			return
		}
		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		c.Next()
		if actor := GetActor(c); actor != "" {
			span.SetAttributes(attribute.String("user_id", actor))
		}
		if claims := GetClaims(c); claims != nil {
			span.SetAttributes(
				attribute.String("auth.method", "jwt"),
				attribute.String("role_id", claims.RoleID),
			)
		}
	}
}
