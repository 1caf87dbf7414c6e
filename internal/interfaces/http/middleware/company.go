// Company activation middleware. The working company is chosen per request
// through the X-Company-ID header; its ID becomes the tenant that scopes
// every read and write further down. A request without an activated company
// reaches the services with no tenant in context, where tenant-owned
// operations fail closed.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gestionale/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Company context keys
const (
	CompanyIDKey     = "company_id"
	CompanyHeaderKey = "X-Company-ID"
)

// CompanyValidator checks that a company exists and can be activated
type CompanyValidator interface {
	ValidateActive(ctx context.Context, id uuid.UUID) error
}

// CompanyMiddlewareConfig holds configuration for the company middleware
type CompanyMiddlewareConfig struct {
	// SkipPaths are paths that don't require an active company
	SkipPaths []string
	// SkipPathPrefixes are path prefixes that don't require an active company
	SkipPathPrefixes []string
	// Required determines whether a missing header aborts the request
	Required bool
	// Validator optionally checks the company exists and is active
	Validator CompanyValidator
	// Logger for middleware logging
	Logger *zap.Logger
}

// CompanyMiddleware activates the working company from the X-Company-ID header
func CompanyMiddleware(cfg CompanyMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath {
				c.Next()
				return
			}
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		header := c.GetHeader(CompanyHeaderKey)
		if header == "" {
			if cfg.Required {
				respondCompanyError(c, http.StatusForbidden, "ERR_TENANT_REQUIRED", "No working company selected")
				return
			}
			c.Next()
			return
		}

		companyID, err := uuid.Parse(header)
		if err != nil {
			respondCompanyError(c, http.StatusBadRequest, "ERR_BAD_REQUEST", "Invalid company ID format")
			return
		}

		if cfg.Validator != nil {
			if err := cfg.Validator.ValidateActive(c.Request.Context(), companyID); err != nil {
				if cfg.Logger != nil {
					cfg.Logger.Warn("Company activation refused",
						zap.String("company_id", companyID.String()),
						zap.Error(err),
					)
				}
				respondCompanyError(c, http.StatusForbidden, "ERR_FORBIDDEN", "Company does not exist or is closed")
				return
			}
		}

		c.Set(CompanyIDKey, companyID.String())

		// The company ID doubles as the tenant ID in the request context
		ctx := c.Request.Context()
		log := logger.FromContext(ctx)
		ctx, _ = logger.WithTenantID(ctx, log, companyID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func respondCompanyError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// GetCompanyID retrieves the active company ID from gin.Context
func GetCompanyID(c *gin.Context) string {
	if companyID, exists := c.Get(CompanyIDKey); exists {
		if id, ok := companyID.(string); ok {
			return id
		}
	}
	return ""
}

// GetCompanyUUID retrieves the active company ID as a UUID
func GetCompanyUUID(c *gin.Context) (uuid.UUID, error) {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(companyID)
}
