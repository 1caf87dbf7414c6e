package models

import (
	"time"

	"github.com/gestionale/backend/internal/domain/company"
)

// CompanyModel is the persistence model for the Company aggregate. It has no
// tenant column on purpose: companies are the tenants.
type CompanyModel struct {
	AggregateModel
	Name      string     `gorm:"type:varchar(120);not null"`
	VATNumber string     `gorm:"type:varchar(20)"`
	Active    bool       `gorm:"not null;default:true"`
	ClosedAt  *time.Time `gorm:""`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the persistence model to a domain Company
func (m *CompanyModel) ToDomain() *company.Company {
	c := &company.Company{
		Name:      m.Name,
		VATNumber: m.VATNumber,
		Active:    m.Active,
		ClosedAt:  m.ClosedAt,
	}
	m.PopulateAggregateRoot(&c.BaseAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain Company
func (m *CompanyModel) FromDomain(c *company.Company) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.VATNumber = c.VATNumber
	m.Active = c.Active
	m.ClosedAt = c.ClosedAt
}

// CompanyModelFromDomain creates a new persistence model from a domain Company
func CompanyModelFromDomain(c *company.Company) *CompanyModel {
	m := &CompanyModel{}
	m.FromDomain(c)
	return m
}
