// Package tenant provides multi-tenant database scoping for GORM.
//
// Every tenant-owned table carries a tenant_id column. The callbacks
// registered here read the active tenant from the request context and scope
// every statement to it. The behavior is fail-closed in both directions:
// a read with no active tenant matches nothing, and a write with no active
// tenant is refused. Row ownership is never reassigned.
package tenant

import (
	"context"
	"errors"

	"github.com/gestionale/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrTenantRequired is returned when a tenant-owned write runs with no
// active tenant in the context. This signals a missing company activation,
// not bad user input.
var ErrTenantRequired = errors.New("tenant-owned write requires an active tenant in context")

// ErrInvalidTenant is returned when the tenant identifier in context is not
// a UUID
var ErrInvalidTenant = errors.New("invalid tenant identifier in context")

// ErrTenantMismatch is returned when a write carries a tenant_id different
// from the active tenant. Ownership is fixed at creation.
var ErrTenantMismatch = errors.New("entity tenant does not match the active tenant")

// ActiveTenant extracts and validates the active tenant from context.
// Returns uuid.Nil with no error when no tenant is active.
func ActiveTenant(ctx context.Context) (uuid.UUID, error) {
	raw := logger.GetTenantID(ctx)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidTenant
	}
	return id, nil
}

// Scope applies an explicit tenant filter to a GORM query. Most code relies
// on the registered callbacks instead; this is for system-level queries that
// build their own scope.
func Scope(tenantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}
