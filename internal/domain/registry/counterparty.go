// Package registry holds the counterparty master data (anagrafica):
// customers and suppliers with per-tenant uniqueness on tax identifiers.
package registry

import (
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyKind classifies a counterparty
type CounterpartyKind string

const (
	KindCustomer CounterpartyKind = "CUSTOMER"
	KindSupplier CounterpartyKind = "SUPPLIER"
	KindBoth     CounterpartyKind = "BOTH"
)

// IsValid checks if the kind is a valid CounterpartyKind
func (k CounterpartyKind) IsValid() bool {
	switch k {
	case KindCustomer, KindSupplier, KindBoth:
		return true
	}
	return false
}

// String returns the string representation of CounterpartyKind
func (k CounterpartyKind) String() string {
	return string(k)
}

// CanSupply returns true if purchase documents may reference this counterparty
func (k CounterpartyKind) CanSupply() bool {
	return k == KindSupplier || k == KindBoth
}

// CanBuy returns true if sales documents may reference this counterparty
func (k CounterpartyKind) CanBuy() bool {
	return k == KindCustomer || k == KindBoth
}

// Counterparty represents a customer or supplier record. Tax identifiers are
// stored normalized; uniqueness on them is enforced per tenant, never
// globally.
type Counterparty struct {
	shared.TenantAggregateRoot
	Kind       CounterpartyKind `json:"kind"`
	Name       string           `json:"name"`
	VATNumber  string           `json:"vat_number"`
	FiscalCode string           `json:"fiscal_code"`
	Address    string           `json:"address"`
	City       string           `json:"city"`
	PostalCode string           `json:"postal_code"`
	Province   string           `json:"province"`
	Active     bool             `json:"active"`
}

// NewCounterparty creates a new counterparty with normalized identifiers.
// Field-level problems are collected and returned together.
func NewCounterparty(tenantID uuid.UUID, kind CounterpartyKind, name, vatNumber, fiscalCode string) (*Counterparty, error) {
	var verr shared.ValidationErrors
	if name == "" {
		verr.Add("name", "REQUIRED", "Name cannot be empty")
	}
	if len(name) > 200 {
		verr.Add("name", "TOO_LONG", "Name cannot exceed 200 characters")
	}
	if !kind.IsValid() {
		verr.Add("kind", "INVALID_KIND", "Kind must be CUSTOMER, SUPPLIER or BOTH")
	}
	if vatNumber == "" && fiscalCode == "" {
		verr.Add("vat_number", "REQUIRED", "At least one of VAT number and fiscal code is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &Counterparty{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Kind:                kind,
		Name:                name,
		VATNumber:           NormalizeVATNumber(vatNumber),
		FiscalCode:          NormalizeFiscalCode(fiscalCode),
		Active:              true,
	}, nil
}

// Update replaces the mutable fields, re-normalizing identifiers
func (c *Counterparty) Update(kind CounterpartyKind, name, vatNumber, fiscalCode string) error {
	var verr shared.ValidationErrors
	if name == "" {
		verr.Add("name", "REQUIRED", "Name cannot be empty")
	}
	if !kind.IsValid() {
		verr.Add("kind", "INVALID_KIND", "Kind must be CUSTOMER, SUPPLIER or BOTH")
	}
	if vatNumber == "" && fiscalCode == "" {
		verr.Add("vat_number", "REQUIRED", "At least one of VAT number and fiscal code is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	c.Kind = kind
	c.Name = name
	c.VATNumber = NormalizeVATNumber(vatNumber)
	c.FiscalCode = NormalizeFiscalCode(fiscalCode)
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}

// SetAddress updates the address fields. It does not advance the version:
// it always rides along Update or the initial save, which own the bump.
func (c *Counterparty) SetAddress(address, city, postalCode, province string) {
	c.Address = address
	c.City = city
	c.PostalCode = postalCode
	c.Province = province
	c.UpdatedAt = time.Now()
}

// Deactivate hides the counterparty from future use while preserving
// historical references
func (c *Counterparty) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Counterparty is already inactive")
	}
	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()
	return nil
}
