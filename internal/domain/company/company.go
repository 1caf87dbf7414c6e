// Package company holds the tenant registry. A Company is the isolation
// boundary of the system: every business record belongs to exactly one
// company and is invisible to every other one. Companies themselves are the
// only aggregate that is not tenant-owned.
package company

import (
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
)

// Company represents a tenant organization
type Company struct {
	shared.BaseAggregateRoot
	Name      string     `json:"name"`
	VATNumber string     `json:"vat_number"`
	Active    bool       `json:"active"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// NewCompany creates a new company
func NewCompany(name, vatNumber string) (*Company, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot be empty")
	}
	if len(name) > 120 {
		return nil, shared.NewDomainError("INVALID_COMPANY_NAME", "Company name cannot exceed 120 characters")
	}

	return &Company{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		VATNumber:         vatNumber,
		Active:            true,
	}, nil
}

// Deactivate closes the company for new activity. Historical records keep
// referencing it; a company is never deleted or merged once referenced.
func (c *Company) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Company is already inactive")
	}
	now := time.Now()
	c.Active = false
	c.ClosedAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()
	return nil
}

// Reactivate reopens a previously closed company
func (c *Company) Reactivate() error {
	if c.Active {
		return shared.NewDomainError("INVALID_STATE", "Company is already active")
	}
	c.Active = true
	c.ClosedAt = nil
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
