package models

import (
	"github.com/gestionale/backend/internal/domain/registry"
)

// CounterpartyModel is the persistence model for the Counterparty aggregate.
// Identifiers are stored normalized; the per-tenant unique indexes on them are
// partial (empty identifiers excluded) and live in the migrations.
type CounterpartyModel struct {
	TenantAggregateModel
	Kind       registry.CounterpartyKind `gorm:"type:varchar(10);not null"`
	Name       string                    `gorm:"type:varchar(200);not null"`
	VATNumber  string                    `gorm:"type:varchar(20);index"`
	FiscalCode string                    `gorm:"type:varchar(20);index"`
	Address    string                    `gorm:"type:text"`
	City       string                    `gorm:"type:varchar(100)"`
	PostalCode string                    `gorm:"type:varchar(10)"`
	Province   string                    `gorm:"type:varchar(5)"`
	Active     bool                      `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CounterpartyModel) TableName() string {
	return "counterparties"
}

// ToDomain converts the persistence model to a domain Counterparty
func (m *CounterpartyModel) ToDomain() *registry.Counterparty {
	c := &registry.Counterparty{
		Kind:       m.Kind,
		Name:       m.Name,
		VATNumber:  m.VATNumber,
		FiscalCode: m.FiscalCode,
		Address:    m.Address,
		City:       m.City,
		PostalCode: m.PostalCode,
		Province:   m.Province,
		Active:     m.Active,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Counterparty
func (m *CounterpartyModel) FromDomain(c *registry.Counterparty) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Kind = c.Kind
	m.Name = c.Name
	m.VATNumber = c.VATNumber
	m.FiscalCode = c.FiscalCode
	m.Address = c.Address
	m.City = c.City
	m.PostalCode = c.PostalCode
	m.Province = c.Province
	m.Active = c.Active
}

// CounterpartyModelFromDomain creates a new persistence model from a domain Counterparty
func CounterpartyModelFromDomain(c *registry.Counterparty) *CounterpartyModel {
	m := &CounterpartyModel{}
	m.FromDomain(c)
	return m
}
