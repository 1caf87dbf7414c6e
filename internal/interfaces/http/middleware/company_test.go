package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gestionale/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// mockCompanyValidator accepts a fixed set of company IDs
type mockCompanyValidator struct {
	active map[uuid.UUID]bool
}

func (m *mockCompanyValidator) ValidateActive(_ context.Context, id uuid.UUID) error {
	if m.active[id] {
		return nil
	}
	return errors.New("company not found or closed")
}

func companyTestRouter(cfg CompanyMiddlewareConfig) (*gin.Engine, *string) {
	engine := gin.New()
	engine.Use(CompanyMiddleware(cfg))
	var seenTenant string
	engine.GET("/resource", func(c *gin.Context) {
		seenTenant = logger.GetTenantID(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"company_id": GetCompanyID(c)})
	})
	return engine, &seenTenant
}

func TestCompanyMiddleware_ActivatesCompany(t *testing.T) {
	companyID := uuid.New()
	engine, seenTenant := companyTestRouter(CompanyMiddlewareConfig{
		Required:  true,
		Validator: &mockCompanyValidator{active: map[uuid.UUID]bool{companyID: true}},
		Logger:    zap.NewNop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(CompanyHeaderKey, companyID.String())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	// The activated company must be visible as the tenant downstream
	assert.Equal(t, companyID.String(), *seenTenant)
}

func TestCompanyMiddleware_MissingHeaderIsRefused(t *testing.T) {
	engine, _ := companyTestRouter(CompanyMiddlewareConfig{Required: true})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ERR_TENANT_REQUIRED", errInfo["code"])
}

func TestCompanyMiddleware_MissingHeaderAllowedWhenOptional(t *testing.T) {
	engine, seenTenant := companyTestRouter(CompanyMiddlewareConfig{Required: false})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, *seenTenant)
}

func TestCompanyMiddleware_InvalidUUID(t *testing.T) {
	engine, _ := companyTestRouter(CompanyMiddlewareConfig{Required: true})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(CompanyHeaderKey, "not-a-uuid")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanyMiddleware_ClosedCompanyIsRefused(t *testing.T) {
	engine, _ := companyTestRouter(CompanyMiddlewareConfig{
		Required:  true,
		Validator: &mockCompanyValidator{active: map[uuid.UUID]bool{}},
		Logger:    zap.NewNop(),
	})

	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set(CompanyHeaderKey, uuid.New().String())
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	errInfo := body["error"].(map[string]any)
	assert.Equal(t, "ERR_FORBIDDEN", errInfo["code"])
}

func TestCompanyMiddleware_SkipPaths(t *testing.T) {
	engine := gin.New()
	engine.Use(CompanyMiddleware(CompanyMiddlewareConfig{
		Required:         true,
		SkipPaths:        []string{"/health"},
		SkipPathPrefixes: []string{"/api/v1/companies"},
	}))
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/api/v1/companies", func(c *gin.Context) { c.Status(http.StatusOK) })

	for _, path := range []string{"/health", "/api/v1/companies"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}

func TestGetCompanyUUID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	id, err := GetCompanyUUID(c)
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, id)

	companyID := uuid.New()
	c.Set(CompanyIDKey, companyID.String())

	id, err = GetCompanyUUID(c)
	require.NoError(t, err)
	assert.Equal(t, companyID, id)
}
