package company

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for company persistence. Companies are
// system-level rows: they are looked up during tenant resolution, before any
// tenant scope exists, so this repository bypasses tenant filtering.
type Repository interface {
	// FindByID finds a company by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindActiveByID finds a company by ID, only if active
	FindActiveByID(ctx context.Context, id uuid.UUID) (*Company, error)

	// FindAll lists all companies
	FindAll(ctx context.Context) ([]Company, error)

	// Save creates or updates a company
	Save(ctx context.Context, company *Company) error
}
