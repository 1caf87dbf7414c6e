package models

import (
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentModel is the persistence model for the Document aggregate.
// The duplicate-guard tuple (tenant, counterparty, type, supplier number) has
// a partial unique index defined in the migrations.
type DocumentModel struct {
	TenantAggregateModel
	Number                 string                  `gorm:"type:varchar(50);not null"`
	Type                   accounting.DocumentType `gorm:"type:varchar(30);not null;index"`
	CounterpartyID         uuid.UUID               `gorm:"type:uuid;not null;index"`
	CounterpartyName       string                  `gorm:"type:varchar(200);not null"`
	Date                   time.Time               `gorm:"not null;index"`
	SupplierDocumentNumber string                  `gorm:"type:varchar(50);index"`
	TermInstallments       int                     `gorm:"not null;default:1"`
	TermIntervalDays       int                     `gorm:"not null;default:30"`
	JobSiteRef             string                  `gorm:"type:varchar(100)"`
	Notes                  string                  `gorm:"type:text"`
	Lines                  []DocumentLineModel     `gorm:"foreignKey:DocumentID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (DocumentModel) TableName() string {
	return "documents"
}

// DocumentLineModel is the persistence model for a document line
type DocumentLineModel struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key"`
	DocumentID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Description string          `gorm:"type:text;not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(14,4);not null"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(5,2);not null"`
}

// TableName returns the table name for GORM
func (DocumentLineModel) TableName() string {
	return "document_lines"
}

// ToDomain converts the persistence model to a domain Document with lines
func (m *DocumentModel) ToDomain() *accounting.Document {
	lines := make([]accounting.DocumentLine, len(m.Lines))
	for i, l := range m.Lines {
		lines[i] = accounting.DocumentLine{
			ID:          l.ID,
			DocumentID:  l.DocumentID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		}
	}

	d := &accounting.Document{
		Number:                 m.Number,
		Type:                   m.Type,
		CounterpartyID:         m.CounterpartyID,
		CounterpartyName:       m.CounterpartyName,
		Date:                   m.Date,
		SupplierDocumentNumber: m.SupplierDocumentNumber,
		Terms: accounting.PaymentTerms{
			Installments: m.TermInstallments,
			IntervalDays: m.TermIntervalDays,
		},
		JobSiteRef: m.JobSiteRef,
		Notes:      m.Notes,
		Lines:      lines,
	}
	m.PopulateTenantAggregateRoot(&d.TenantAggregateRoot)
	return d
}

// FromDomain populates the persistence model from a domain Document
func (m *DocumentModel) FromDomain(d *accounting.Document) {
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	m.Number = d.Number
	m.Type = d.Type
	m.CounterpartyID = d.CounterpartyID
	m.CounterpartyName = d.CounterpartyName
	m.Date = d.Date
	m.SupplierDocumentNumber = d.SupplierDocumentNumber
	m.TermInstallments = d.Terms.Installments
	m.TermIntervalDays = d.Terms.IntervalDays
	m.JobSiteRef = d.JobSiteRef
	m.Notes = d.Notes

	m.Lines = make([]DocumentLineModel, len(d.Lines))
	for i, l := range d.Lines {
		m.Lines[i] = DocumentLineModel{
			ID:          l.ID,
			DocumentID:  d.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		}
	}
}

// DocumentModelFromDomain creates a new persistence model from a domain Document
func DocumentModelFromDomain(d *accounting.Document) *DocumentModel {
	m := &DocumentModel{}
	m.FromDomain(d)
	return m
}

// InstallmentModel is the persistence model for the Installment aggregate.
// No allocated column exists; allocation is always derived from the linked
// settlement entries.
type InstallmentModel struct {
	TenantAggregateModel
	DueDate           time.Time            `gorm:"not null;index"`
	Amount            decimal.Decimal      `gorm:"type:decimal(14,2);not null"`
	Direction         accounting.Direction `gorm:"type:varchar(10);not null;index"`
	DocumentID        *uuid.UUID           `gorm:"type:uuid;index"`
	PersonnelExpiryID *uuid.UUID           `gorm:"type:uuid;index"`
	Description       string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (InstallmentModel) TableName() string {
	return "installments"
}

// ToDomain converts the persistence model to a domain Installment
func (m *InstallmentModel) ToDomain() *accounting.Installment {
	i := &accounting.Installment{
		DueDate:           m.DueDate,
		Amount:            m.Amount,
		Direction:         m.Direction,
		DocumentID:        m.DocumentID,
		PersonnelExpiryID: m.PersonnelExpiryID,
		Description:       m.Description,
	}
	m.PopulateTenantAggregateRoot(&i.TenantAggregateRoot)
	return i
}

// FromDomain populates the persistence model from a domain Installment
func (m *InstallmentModel) FromDomain(i *accounting.Installment) {
	m.FromDomainTenantAggregateRoot(i.TenantAggregateRoot)
	m.DueDate = i.DueDate
	m.Amount = i.Amount
	m.Direction = i.Direction
	m.DocumentID = i.DocumentID
	m.PersonnelExpiryID = i.PersonnelExpiryID
	m.Description = i.Description
}

// InstallmentModelFromDomain creates a new persistence model from a domain Installment
func InstallmentModelFromDomain(i *accounting.Installment) *InstallmentModel {
	m := &InstallmentModel{}
	m.FromDomain(i)
	return m
}

// LedgerEntryModel is the persistence model for the LedgerEntry aggregate.
// Amounts are stored positive; the movement column carries the sign. Transfer
// legs share a transfer_group_id, settlements reference their installment.
type LedgerEntryModel struct {
	TenantAggregateModel
	Date               time.Time            `gorm:"not null;index"`
	Amount             decimal.Decimal      `gorm:"type:decimal(14,2);not null"`
	Movement           accounting.Movement  `gorm:"type:varchar(10);not null"`
	CauseCodeID        uuid.UUID            `gorm:"type:uuid;not null;index"`
	FinancialAccountID *uuid.UUID           `gorm:"type:uuid;index"`
	OperatingAccountID *uuid.UUID           `gorm:"type:uuid;index"`
	CounterpartyID     *uuid.UUID           `gorm:"type:uuid;index"`
	JobSiteRef         string               `gorm:"type:varchar(100)"`
	InstallmentID      *uuid.UUID           `gorm:"type:uuid;index"`
	TransferGroupID    *uuid.UUID           `gorm:"type:uuid;index"`
	Description        string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (LedgerEntryModel) TableName() string {
	return "ledger_entries"
}

// ToDomain converts the persistence model to a domain LedgerEntry
func (m *LedgerEntryModel) ToDomain() *accounting.LedgerEntry {
	e := &accounting.LedgerEntry{
		Date:               m.Date,
		Amount:             m.Amount,
		Movement:           m.Movement,
		CauseCodeID:        m.CauseCodeID,
		FinancialAccountID: m.FinancialAccountID,
		OperatingAccountID: m.OperatingAccountID,
		CounterpartyID:     m.CounterpartyID,
		JobSiteRef:         m.JobSiteRef,
		InstallmentID:      m.InstallmentID,
		TransferGroupID:    m.TransferGroupID,
		Description:        m.Description,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// FromDomain populates the persistence model from a domain LedgerEntry
func (m *LedgerEntryModel) FromDomain(e *accounting.LedgerEntry) {
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	m.Date = e.Date
	m.Amount = e.Amount
	m.Movement = e.Movement
	m.CauseCodeID = e.CauseCodeID
	m.FinancialAccountID = e.FinancialAccountID
	m.OperatingAccountID = e.OperatingAccountID
	m.CounterpartyID = e.CounterpartyID
	m.JobSiteRef = e.JobSiteRef
	m.InstallmentID = e.InstallmentID
	m.TransferGroupID = e.TransferGroupID
	m.Description = e.Description
}

// LedgerEntryModelFromDomain creates a new persistence model from a domain LedgerEntry
func LedgerEntryModelFromDomain(e *accounting.LedgerEntry) *LedgerEntryModel {
	m := &LedgerEntryModel{}
	m.FromDomain(e)
	return m
}

// FinancialAccountModel is the persistence model for cash and bank accounts
type FinancialAccountModel struct {
	TenantAggregateModel
	Name   string                          `gorm:"type:varchar(100);not null"`
	Kind   accounting.FinancialAccountKind `gorm:"type:varchar(10);not null"`
	IBAN   string                          `gorm:"type:varchar(34)"`
	Active bool                            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (FinancialAccountModel) TableName() string {
	return "financial_accounts"
}

// ToDomain converts the persistence model to a domain FinancialAccount
func (m *FinancialAccountModel) ToDomain() *accounting.FinancialAccount {
	a := &accounting.FinancialAccount{
		Name:   m.Name,
		Kind:   m.Kind,
		IBAN:   m.IBAN,
		Active: m.Active,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain FinancialAccount
func (m *FinancialAccountModel) FromDomain(a *accounting.FinancialAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Name = a.Name
	m.Kind = a.Kind
	m.IBAN = a.IBAN
	m.Active = a.Active
}

// FinancialAccountModelFromDomain creates a new persistence model from a domain FinancialAccount
func FinancialAccountModelFromDomain(a *accounting.FinancialAccount) *FinancialAccountModel {
	m := &FinancialAccountModel{}
	m.FromDomain(a)
	return m
}

// OperatingAccountModel is the persistence model for cost-center accounts
type OperatingAccountModel struct {
	TenantAggregateModel
	Name   string `gorm:"type:varchar(100);not null"`
	Active bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (OperatingAccountModel) TableName() string {
	return "operating_accounts"
}

// ToDomain converts the persistence model to a domain OperatingAccount
func (m *OperatingAccountModel) ToDomain() *accounting.OperatingAccount {
	a := &accounting.OperatingAccount{
		Name:   m.Name,
		Active: m.Active,
	}
	m.PopulateTenantAggregateRoot(&a.TenantAggregateRoot)
	return a
}

// FromDomain populates the persistence model from a domain OperatingAccount
func (m *OperatingAccountModel) FromDomain(a *accounting.OperatingAccount) {
	m.FromDomainTenantAggregateRoot(a.TenantAggregateRoot)
	m.Name = a.Name
	m.Active = a.Active
}

// OperatingAccountModelFromDomain creates a new persistence model from a domain OperatingAccount
func OperatingAccountModelFromDomain(a *accounting.OperatingAccount) *OperatingAccountModel {
	m := &OperatingAccountModel{}
	m.FromDomain(a)
	return m
}

// CauseCodeModel is the persistence model for transaction causes
type CauseCodeModel struct {
	TenantAggregateModel
	Code        string                 `gorm:"type:varchar(20);not null;uniqueIndex:idx_cause_tenant_code,priority:2"`
	Description string                 `gorm:"type:varchar(200);not null"`
	Nature      accounting.CauseNature `gorm:"type:varchar(10);not null"`
	Active      bool                   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CauseCodeModel) TableName() string {
	return "cause_codes"
}

// ToDomain converts the persistence model to a domain CauseCode
func (m *CauseCodeModel) ToDomain() *accounting.CauseCode {
	c := &accounting.CauseCode{
		Code:        m.Code,
		Description: m.Description,
		Nature:      m.Nature,
		Active:      m.Active,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// FromDomain populates the persistence model from a domain CauseCode
func (m *CauseCodeModel) FromDomain(c *accounting.CauseCode) {
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	m.Code = c.Code
	m.Description = c.Description
	m.Nature = c.Nature
	m.Active = c.Active
}

// CauseCodeModelFromDomain creates a new persistence model from a domain CauseCode
func CauseCodeModelFromDomain(c *accounting.CauseCode) *CauseCodeModel {
	m := &CauseCodeModel{}
	m.FromDomain(c)
	return m
}
