package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/infrastructure/auth"
	"github.com/nexus/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Actor resolution keys and headers
const (
	ActorKey      = "actor"
	ClaimsKey     = "jwt_claims"
	UserIDHeader  = "X-User-ID"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// TokenValidator validates bearer tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// ActorConfig configures actor resolution
type ActorConfig struct {
	Tokens        TokenValidator
	DefaultUserID string
	Logger        *zap.Logger
}

// Actor resolves the user acting in the request. A valid bearer token wins,
// then the X-User-ID header, then the default user. Requests are never
// rejected: an invalid token is logged and ignored.
func Actor(cfg ActorConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	return func(c *gin.Context) {
		actor := ""
		if token := bearerToken(c); token != "" && cfg.Tokens != nil {
			claims, err := cfg.Tokens.ValidateAccessToken(token)
			if err != nil {
				logger.CtxOr(c.Request.Context(), log).Debug("Ignoring invalid bearer token", zap.Error(err))
			} else {
				c.Set(ClaimsKey, claims)
				actor = claims.UserID
			}
		}
		if actor == "" {
			actor = strings.TrimSpace(c.GetHeader(UserIDHeader))
		}
		if actor == "" {
			actor = cfg.DefaultUserID
		}

		c.Set(ActorKey, actor)
		c.Request = c.Request.WithContext(logger.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader(AuthHeaderKey)
	if !strings.HasPrefix(header, BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix))
}

// GetActor returns the actor resolved by Actor
func GetActor(c *gin.Context) string {
	return c.GetString(ActorKey)
}

// GetClaims returns the validated token claims, if the request carried any
func GetClaims(c *gin.Context) *auth.Claims {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*auth.Claims); ok {
			return claims
		}
	}
	return nil
}
