package registry

import (
	"time"

	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/google/uuid"
)

// CreateCounterpartyRequest represents a request to create a counterparty
type CreateCounterpartyRequest struct {
	Kind       string `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	Name       string `json:"name" binding:"required,min=1,max=200"`
	VATNumber  string `json:"vat_number" binding:"max=50"`
	FiscalCode string `json:"fiscal_code" binding:"max=50"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Province   string `json:"province" binding:"max=100"`
}

// UpdateCounterpartyRequest represents a request to update a counterparty
type UpdateCounterpartyRequest struct {
	Kind       string `json:"kind" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	Name       string `json:"name" binding:"required,min=1,max=200"`
	VATNumber  string `json:"vat_number" binding:"max=50"`
	FiscalCode string `json:"fiscal_code" binding:"max=50"`
	Address    string `json:"address" binding:"max=500"`
	City       string `json:"city" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Province   string `json:"province" binding:"max=100"`
}

// CounterpartyResponse represents a counterparty in API responses
type CounterpartyResponse struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	Kind       string    `json:"kind"`
	Name       string    `json:"name"`
	VATNumber  string    `json:"vat_number"`
	FiscalCode string    `json:"fiscal_code"`
	Address    string    `json:"address"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Province   string    `json:"province"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	Version    int       `json:"version"`
}

// CounterpartyListFilter represents filter options for counterparty lists
type CounterpartyListFilter struct {
	Search   string `form:"search"`
	Kind     string `form:"kind" binding:"omitempty,oneof=CUSTOMER SUPPLIER BOTH"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCounterpartyResponse converts a domain counterparty to a response DTO
func ToCounterpartyResponse(c *registry.Counterparty) CounterpartyResponse {
	return CounterpartyResponse{
		ID:         c.ID,
		TenantID:   c.TenantID,
		Kind:       c.Kind.String(),
		Name:       c.Name,
		VATNumber:  c.VATNumber,
		FiscalCode: c.FiscalCode,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Province:   c.Province,
		Active:     c.Active,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
		Version:    c.Version,
	}
}
