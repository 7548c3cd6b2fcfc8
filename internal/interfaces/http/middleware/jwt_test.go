package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nexus/backend/internal/infrastructure/auth"
	"github.com/nexus/backend/internal/infrastructure/config"
	"github.com/nexus/backend/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestActor(t *testing.T) {
	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret",
		Issuer:                "nexus-test",
		AccessTokenExpiration: time.Hour,
	})
	token, err := jwtService.GenerateAccessToken("user-2", "seller@nexus.com", "role-2")
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Actor(ActorConfig{Tokens: jwtService, DefaultUserID: "user-1", Logger: zaptest.NewLogger(t)}))
	router.GET("/whoami", func(c *gin.Context) {
		claims := GetClaims(c)
		c.JSON(http.StatusOK, gin.H{
			"actor":      GetActor(c),
			"ctx_actor":  logger.GetActor(c.Request.Context()),
			"has_claims": claims != nil,
		})
	})

	tests := []struct {
		name       string
		headers    map[string]string
		wantActor  string
		wantClaims bool
	}{
		{"default user", nil, "user-1", false},
		{"header", map[string]string{UserIDHeader: "user-7"}, "user-7", false},
		{"token", map[string]string{AuthHeaderKey: BearerPrefix + token.Token}, "user-2", true},
		{"token wins over header", map[string]string{AuthHeaderKey: BearerPrefix + token.Token, UserIDHeader: "user-7"}, "user-2", true},
		{"invalid token falls back", map[string]string{AuthHeaderKey: BearerPrefix + "garbage", UserIDHeader: "user-7"}, "user-7", false},
		{"non bearer scheme ignored", map[string]string{AuthHeaderKey: "Basic dXNlcjpwYXNz"}, "user-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, http.StatusOK, w.Code)
			var body struct {
				Actor     string `json:"actor"`
				CtxActor  string `json:"ctx_actor"`
				HasClaims bool   `json:"has_claims"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantActor, body.Actor)
			assert.Equal(t, tt.wantActor, body.CtxActor)
			assert.Equal(t, tt.wantClaims, body.HasClaims)
		})
	}
}

func TestActor_WithoutTokenValidator(t *testing.T) {
	router := newTestRouter(Actor(ActorConfig{DefaultUserID: "user-1"}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Contains(t, w.Body.String(), `"actor":"user-1"`)
}
