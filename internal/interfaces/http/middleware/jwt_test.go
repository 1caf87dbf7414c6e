package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gestionale/backend/internal/infrastructure/auth"
	"github.com/gestionale/backend/internal/infrastructure/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-used-only-in-unit-tests",
		AccessTokenExpiration: expiration,
		Issuer:                "gestionale-test",
	})
}

func jwtTestRouter(cfg JWTMiddlewareConfig) *gin.Engine {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(cfg))
	engine.GET("/protected", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetJWTUserID(c)})
	})
	return engine
}

func authErrorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"].(map[string]any)["code"].(string)
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	userID := uuid.New()
	token, _, err := svc.GenerateToken(userID, "mario")
	require.NoError(t, err)

	engine := jwtTestRouter(JWTMiddlewareConfig{JWTService: svc})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, userID.String(), body["user_id"])
}

func TestJWTAuthMiddleware_MissingHeader(t *testing.T) {
	engine := jwtTestRouter(JWTMiddlewareConfig{JWTService: newTestJWTService(time.Hour)})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ERR_TOKEN_INVALID", authErrorCode(t, rec))
}

func TestJWTAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := newTestJWTService(-time.Minute)
	token, _, err := svc.GenerateToken(uuid.New(), "mario")
	require.NoError(t, err)

	engine := jwtTestRouter(JWTMiddlewareConfig{JWTService: svc})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ERR_TOKEN_EXPIRED", authErrorCode(t, rec))
}

func TestJWTAuthMiddleware_WrongSecret(t *testing.T) {
	other := auth.NewJWTService(config.JWTConfig{
		Secret:                "a-completely-different-secret-value",
		AccessTokenExpiration: time.Hour,
		Issuer:                "gestionale-test",
	})
	token, _, err := other.GenerateToken(uuid.New(), "mario")
	require.NoError(t, err)

	engine := jwtTestRouter(JWTMiddlewareConfig{JWTService: newTestJWTService(time.Hour)})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ERR_TOKEN_INVALID", authErrorCode(t, rec))
}

func TestJWTAuthMiddleware_RevokedToken(t *testing.T) {
	svc := newTestJWTService(time.Hour)
	token, _, err := svc.GenerateToken(uuid.New(), "mario")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	blacklist := auth.NewInMemoryTokenBlacklist()
	require.NoError(t, blacklist.AddToBlacklist(context.Background(), claims.ID, time.Hour))

	engine := jwtTestRouter(JWTMiddlewareConfig{
		JWTService:     svc,
		TokenBlacklist: blacklist,
		Logger:         zap.NewNop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+token)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "ERR_TOKEN_REVOKED", authErrorCode(t, rec))
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	engine := gin.New()
	engine.Use(JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{
		JWTService:       newTestJWTService(time.Hour),
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/api/v1/system"},
	}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/system/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/api/v1/system/ping"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
