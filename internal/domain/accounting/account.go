package accounting

import (
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// FinancialAccountKind classifies a financial account
type FinancialAccountKind string

const (
	FinancialAccountCash FinancialAccountKind = "CASH"
	FinancialAccountBank FinancialAccountKind = "BANK"
)

// IsValid checks if the kind is a valid FinancialAccountKind
func (k FinancialAccountKind) IsValid() bool {
	switch k {
	case FinancialAccountCash, FinancialAccountBank:
		return true
	}
	return false
}

// FinancialAccount represents a cash or bank account (conto finanziario).
// The active flag gates future use while preserving historical references.
type FinancialAccount struct {
	shared.TenantAggregateRoot
	Name   string               `json:"name"`
	Kind   FinancialAccountKind `json:"kind"`
	IBAN   string               `json:"iban,omitempty"`
	Active bool                 `json:"active"`
}

// NewFinancialAccount creates a new financial account
func NewFinancialAccount(tenantID uuid.UUID, name string, kind FinancialAccountKind, iban string) (*FinancialAccount, error) {
	var verr shared.ValidationErrors
	if name == "" {
		verr.Add("name", "REQUIRED", "Name cannot be empty")
	}
	if !kind.IsValid() {
		verr.Add("kind", "INVALID_KIND", "Kind must be CASH or BANK")
	}
	if kind == FinancialAccountCash && iban != "" {
		verr.Add("iban", "NOT_ALLOWED", "Cash accounts cannot carry an IBAN")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &FinancialAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Kind:                kind,
		IBAN:                iban,
		Active:              true,
	}, nil
}

// Deactivate closes the account for new movements
func (a *FinancialAccount) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("INVALID_STATE", "Account is already inactive")
	}
	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// Reactivate reopens the account
func (a *FinancialAccount) Reactivate() error {
	if a.Active {
		return shared.NewDomainError("INVALID_STATE", "Account is already active")
	}
	a.Active = true
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}

// OperatingAccount represents a cost-center account (conto operativo)
type OperatingAccount struct {
	shared.TenantAggregateRoot
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

// NewOperatingAccount creates a new operating account
func NewOperatingAccount(tenantID uuid.UUID, name string) (*OperatingAccount, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("name", "REQUIRED", "Name cannot be empty")
	}
	return &OperatingAccount{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Active:              true,
	}, nil
}

// Deactivate closes the account for new movements
func (a *OperatingAccount) Deactivate() error {
	if !a.Active {
		return shared.NewDomainError("INVALID_STATE", "Account is already inactive")
	}
	a.Active = false
	a.UpdatedAt = time.Now()
	a.IncrementVersion()
	return nil
}
