package accounting

import (
	"fmt"
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentType represents the type of a document header
type DocumentType string

const (
	DocumentTypeSalesInvoice       DocumentType = "SALES_INVOICE"
	DocumentTypeSalesCreditNote    DocumentType = "SALES_CREDIT_NOTE"
	DocumentTypePurchaseInvoice    DocumentType = "PURCHASE_INVOICE"
	DocumentTypePurchaseCreditNote DocumentType = "PURCHASE_CREDIT_NOTE"
)

// IsValid checks if the type is a valid DocumentType
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeSalesInvoice, DocumentTypeSalesCreditNote,
		DocumentTypePurchaseInvoice, DocumentTypePurchaseCreditNote:
		return true
	}
	return false
}

// String returns the string representation of DocumentType
func (t DocumentType) String() string {
	return string(t)
}

// IsPurchase returns true for purchase-side document types
func (t DocumentType) IsPurchase() bool {
	return t == DocumentTypePurchaseInvoice || t == DocumentTypePurchaseCreditNote
}

// RequiresSupplierDocumentNumber returns true when the document carries a
// supplier-assigned number, which is what the duplicate guard keys on
func (t DocumentType) RequiresSupplierDocumentNumber() bool {
	return t.IsPurchase()
}

// InstallmentDirection returns the direction of installments generated from
// this document type: sales invoices are money to receive, purchase invoices
// money to pay; credit notes run the other way.
func (t DocumentType) InstallmentDirection() Direction {
	switch t {
	case DocumentTypeSalesInvoice, DocumentTypePurchaseCreditNote:
		return DirectionReceivable
	default:
		return DirectionPayable
	}
}

// PaymentTerms describes how a document's total splits into installments
type PaymentTerms struct {
	Installments int `json:"installments"`
	IntervalDays int `json:"interval_days"`
}

// DefaultPaymentTerms is a single installment due 30 days after the document date
func DefaultPaymentTerms() PaymentTerms {
	return PaymentTerms{Installments: 1, IntervalDays: 30}
}

// DocumentLine is one row of a document: quantity, unit price and tax rate
// producing a taxable amount and a tax amount
type DocumentLine struct {
	ID          uuid.UUID       `json:"id"`
	DocumentID  uuid.UUID       `json:"document_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// TaxableAmount returns quantity * unit price, rounded to cents
func (l DocumentLine) TaxableAmount() decimal.Decimal {
	return l.Quantity.Mul(l.UnitPrice).Round(2)
}

// TaxAmount returns the tax due on the line, rounded to cents
func (l DocumentLine) TaxAmount() decimal.Decimal {
	return l.TaxableAmount().Mul(l.TaxRate).Div(decimal.NewFromInt(100)).Round(2)
}

// Total returns taxable plus tax for the line
func (l DocumentLine) Total() decimal.Decimal {
	return l.TaxableAmount().Add(l.TaxAmount())
}

// Document represents a document header (testata) with its lines
type Document struct {
	shared.TenantAggregateRoot
	Number                 string         `json:"number"`
	Type                   DocumentType   `json:"type"`
	CounterpartyID         uuid.UUID      `json:"counterparty_id"`
	CounterpartyName       string         `json:"counterparty_name"`
	Date                   time.Time      `json:"date"`
	SupplierDocumentNumber string         `json:"supplier_document_number,omitempty"`
	Terms                  PaymentTerms   `json:"terms"`
	Lines                  []DocumentLine `json:"lines"`
	JobSiteRef             string         `json:"job_site_ref,omitempty"`
	Notes                  string         `json:"notes,omitempty"`
}

// NewDocument creates a new document with validated header and lines.
// Field-level problems are collected and returned together.
func NewDocument(
	tenantID uuid.UUID,
	number string,
	docType DocumentType,
	counterpartyID uuid.UUID,
	counterpartyName string,
	date time.Time,
	supplierDocumentNumber string,
	terms PaymentTerms,
) (*Document, error) {
	var verr shared.ValidationErrors
	if number == "" {
		verr.Add("number", "REQUIRED", "Document number cannot be empty")
	}
	if !docType.IsValid() {
		verr.Add("type", "INVALID_TYPE", "Unknown document type")
	}
	if counterpartyID == uuid.Nil {
		verr.Add("counterparty_id", "REQUIRED", "Counterparty is required")
	}
	if date.IsZero() {
		verr.Add("date", "REQUIRED", "Document date is required")
	}
	if docType.RequiresSupplierDocumentNumber() && supplierDocumentNumber == "" {
		verr.Add("supplier_document_number", "REQUIRED", "Supplier document number is required for purchase documents")
	}
	if !docType.RequiresSupplierDocumentNumber() && supplierDocumentNumber != "" {
		verr.Add("supplier_document_number", "NOT_ALLOWED", "Supplier document number applies only to purchase documents")
	}
	if terms.Installments < 1 {
		verr.Add("terms.installments", "RANGE", "At least one installment is required")
	}
	if terms.IntervalDays < 0 {
		verr.Add("terms.interval_days", "RANGE", "Interval days cannot be negative")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &Document{
		TenantAggregateRoot:    shared.NewTenantAggregateRoot(tenantID),
		Number:                 number,
		Type:                   docType,
		CounterpartyID:         counterpartyID,
		CounterpartyName:       counterpartyName,
		Date:                   date,
		SupplierDocumentNumber: supplierDocumentNumber,
		Terms:                  terms,
		Lines:                  make([]DocumentLine, 0),
	}, nil
}

// AddLine appends a validated line to the document
func (d *Document) AddLine(description string, quantity, unitPrice, taxRate decimal.Decimal) error {
	var verr shared.ValidationErrors
	if description == "" {
		verr.Add("lines.description", "REQUIRED", "Line description cannot be empty")
	}
	if !quantity.IsPositive() {
		verr.Add("lines.quantity", "RANGE", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		verr.Add("lines.unit_price", "RANGE", "Unit price cannot be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(decimal.NewFromInt(100)) {
		verr.Add("lines.tax_rate", "RANGE", "Tax rate must be between 0 and 100")
	}
	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	d.Lines = append(d.Lines, DocumentLine{
		ID:          uuid.New(),
		DocumentID:  d.ID,
		Description: description,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		TaxRate:     taxRate,
	})
	d.UpdatedAt = time.Now()
	return nil
}

// TaxableTotal sums the taxable amounts of all lines
func (d *Document) TaxableTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.TaxableAmount())
	}
	return total
}

// TaxTotal sums the tax amounts of all lines
func (d *Document) TaxTotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.TaxAmount())
	}
	return total
}

// GrandTotal returns taxable plus tax across all lines
func (d *Document) GrandTotal() decimal.Decimal {
	return d.TaxableTotal().Add(d.TaxTotal())
}

// GenerateInstallments splits the document total into the scadenze mandated
// by the payment terms. Splits are equal to the cent, with any remainder on
// the earliest installments; due dates step by the terms' interval from the
// document date.
func (d *Document) GenerateInstallments() ([]*Installment, error) {
	if len(d.Lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_DOCUMENT", "Cannot generate installments for a document without lines")
	}

	total := valueobject.NewMoneyEUR(d.GrandTotal())
	parts, err := total.Allocate(d.Terms.Installments)
	if err != nil {
		return nil, err
	}

	direction := d.Type.InstallmentDirection()
	installments := make([]*Installment, 0, len(parts))
	for i, part := range parts {
		due := d.Date.AddDate(0, 0, (i+1)*d.Terms.IntervalDays)
		inst, err := NewInstallment(d.TenantID, due, part.Amount(), direction, &d.ID, nil,
			fmt.Sprintf("%s %s - installment %d/%d", d.Type, d.Number, i+1, len(parts)))
		if err != nil {
			return nil, err
		}
		installments = append(installments, inst)
	}
	return installments, nil
}

// UpdateHeader replaces the mutable header fields. The document type and the
// generated installments are fixed at registration; only descriptive fields
// and the supplier reference may change.
func (d *Document) UpdateHeader(counterpartyID uuid.UUID, counterpartyName, supplierDocumentNumber, jobSiteRef, notes string) error {
	var verr shared.ValidationErrors
	if counterpartyID == uuid.Nil {
		verr.Add("counterparty_id", "REQUIRED", "Counterparty is required")
	}
	if d.Type.RequiresSupplierDocumentNumber() && supplierDocumentNumber == "" {
		verr.Add("supplier_document_number", "REQUIRED", "Supplier document number is required for purchase documents")
	}
	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	d.CounterpartyID = counterpartyID
	d.CounterpartyName = counterpartyName
	d.SupplierDocumentNumber = supplierDocumentNumber
	d.JobSiteRef = jobSiteRef
	d.Notes = notes
	d.UpdatedAt = time.Now()
	d.IncrementVersion()
	return nil
}
