// Package company manages tenant companies. Company records are the tenancy
// roots themselves and are the one surface deliberately outside the ambient
// tenant scope.
package company

import (
	"context"
	"time"

	"github.com/gestionale/backend/internal/domain/company"
	"github.com/google/uuid"
)

// CreateCompanyRequest represents a request to create a company
type CreateCompanyRequest struct {
	Name      string `json:"name" binding:"required,min=1,max=200"`
	VATNumber string `json:"vat_number" binding:"required,max=50"`
}

// CompanyResponse represents a company in API responses
type CompanyResponse struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	VATNumber string     `json:"vat_number"`
	Active    bool       `json:"active"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToCompanyResponse converts a domain company to a response DTO
func ToCompanyResponse(c *company.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		VATNumber: c.VATNumber,
		Active:    c.Active,
		ClosedAt:  c.ClosedAt,
		CreatedAt: c.CreatedAt,
	}
}

// CompanyService handles company provisioning and lifecycle
type CompanyService struct {
	companies company.Repository
}

// NewCompanyService creates a new CompanyService
func NewCompanyService(companies company.Repository) *CompanyService {
	return &CompanyService{companies: companies}
}

// Create provisions a new company. Its ID becomes the tenant ID that scopes
// every record created while the company is active in a session.
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*CompanyResponse, error) {
	c, err := company.NewCompany(req.Name, req.VATNumber)
	if err != nil {
		return nil, err
	}
	if err := s.companies.Save(ctx, c); err != nil {
		return nil, err
	}

	response := ToCompanyResponse(c)
	return &response, nil
}

// GetByID retrieves a company
func (s *CompanyService) GetByID(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCompanyResponse(c)
	return &response, nil
}

// GetActive retrieves a company only if it is active. Used when activating
// a company for a session.
func (s *CompanyService) GetActive(ctx context.Context, id uuid.UUID) (*CompanyResponse, error) {
	c, err := s.companies.FindActiveByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCompanyResponse(c)
	return &response, nil
}

// List retrieves all companies
func (s *CompanyService) List(ctx context.Context) ([]CompanyResponse, error) {
	companies, err := s.companies.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]CompanyResponse, len(companies))
	for i := range companies {
		responses[i] = ToCompanyResponse(&companies[i])
	}
	return responses, nil
}

// Deactivate closes a company. Its data stays stored and readable through
// the company's own scope but the company can no longer be activated.
func (s *CompanyService) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, err := s.companies.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Deactivate(); err != nil {
		return err
	}
	return s.companies.Save(ctx, c)
}
