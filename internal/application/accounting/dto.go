package accounting

import (
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Document DTOs
// =============================================================================

// DocumentLineRequest represents one line of a document being registered
type DocumentLineRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unit_price" binding:"required"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// RegisterDocumentRequest represents a request to register a document with
// its lines and payment terms
type RegisterDocumentRequest struct {
	Number                 string                `json:"number" binding:"required,max=50"`
	Type                   string                `json:"type" binding:"required,oneof=SALES_INVOICE SALES_CREDIT_NOTE PURCHASE_INVOICE PURCHASE_CREDIT_NOTE"`
	CounterpartyID         uuid.UUID             `json:"counterparty_id" binding:"required"`
	Date                   time.Time             `json:"date" binding:"required"`
	SupplierDocumentNumber string                `json:"supplier_document_number" binding:"max=50"`
	Installments           int                   `json:"installments"`
	IntervalDays           int                   `json:"interval_days"`
	Lines                  []DocumentLineRequest `json:"lines" binding:"required,min=1,dive"`
	JobSiteRef             string                `json:"job_site_ref" binding:"max=100"`
	Notes                  string                `json:"notes"`
}

// UpdateDocumentHeaderRequest represents a request to update a document header
type UpdateDocumentHeaderRequest struct {
	CounterpartyID         uuid.UUID `json:"counterparty_id" binding:"required"`
	SupplierDocumentNumber string    `json:"supplier_document_number" binding:"max=50"`
	JobSiteRef             string    `json:"job_site_ref" binding:"max=100"`
	Notes                  string    `json:"notes"`
}

// DocumentLineResponse represents a document line in API responses
type DocumentLineResponse struct {
	ID            uuid.UUID       `json:"id"`
	Description   string          `json:"description"`
	Quantity      decimal.Decimal `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	TaxRate       decimal.Decimal `json:"tax_rate"`
	TaxableAmount decimal.Decimal `json:"taxable_amount"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	Total         decimal.Decimal `json:"total"`
}

// DocumentResponse represents a document in API responses
type DocumentResponse struct {
	ID                     uuid.UUID              `json:"id"`
	TenantID               uuid.UUID              `json:"tenant_id"`
	Number                 string                 `json:"number"`
	Type                   string                 `json:"type"`
	CounterpartyID         uuid.UUID              `json:"counterparty_id"`
	CounterpartyName       string                 `json:"counterparty_name"`
	Date                   time.Time              `json:"date"`
	SupplierDocumentNumber string                 `json:"supplier_document_number,omitempty"`
	Installments           int                    `json:"installments"`
	IntervalDays           int                    `json:"interval_days"`
	Lines                  []DocumentLineResponse `json:"lines"`
	TaxableTotal           decimal.Decimal        `json:"taxable_total"`
	TaxTotal               decimal.Decimal        `json:"tax_total"`
	GrandTotal             decimal.Decimal        `json:"grand_total"`
	JobSiteRef             string                 `json:"job_site_ref,omitempty"`
	Notes                  string                 `json:"notes,omitempty"`
	CreatedAt              time.Time              `json:"created_at"`
	UpdatedAt              time.Time              `json:"updated_at"`
	Version                int                    `json:"version"`
}

// DocumentListFilter represents filter options for document lists
type DocumentListFilter struct {
	Search         string     `form:"search"`
	Type           string     `form:"type" binding:"omitempty,oneof=SALES_INVOICE SALES_CREDIT_NOTE PURCHASE_INVOICE PURCHASE_CREDIT_NOTE"`
	CounterpartyID *uuid.UUID `form:"counterparty_id"`
	FromDate       *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate         *time.Time `form:"to_date" time_format:"2006-01-02"`
	Page           int        `form:"page"`
	PageSize       int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToDocumentResponse converts a domain document to a response DTO
func ToDocumentResponse(d *accounting.Document) DocumentResponse {
	lines := make([]DocumentLineResponse, len(d.Lines))
	for i, l := range d.Lines {
		lines[i] = DocumentLineResponse{
			ID:            l.ID,
			Description:   l.Description,
			Quantity:      l.Quantity,
			UnitPrice:     l.UnitPrice,
			TaxRate:       l.TaxRate,
			TaxableAmount: l.TaxableAmount(),
			TaxAmount:     l.TaxAmount(),
			Total:         l.Total(),
		}
	}
	return DocumentResponse{
		ID:                     d.ID,
		TenantID:               d.TenantID,
		Number:                 d.Number,
		Type:                   d.Type.String(),
		CounterpartyID:         d.CounterpartyID,
		CounterpartyName:       d.CounterpartyName,
		Date:                   d.Date,
		SupplierDocumentNumber: d.SupplierDocumentNumber,
		Installments:           d.Terms.Installments,
		IntervalDays:           d.Terms.IntervalDays,
		Lines:                  lines,
		TaxableTotal:           d.TaxableTotal(),
		TaxTotal:               d.TaxTotal(),
		GrandTotal:             d.GrandTotal(),
		JobSiteRef:             d.JobSiteRef,
		Notes:                  d.Notes,
		CreatedAt:              d.CreatedAt,
		UpdatedAt:              d.UpdatedAt,
		Version:                d.Version,
	}
}

// =============================================================================
// Installment DTOs
// =============================================================================

// InstallmentResponse represents an installment with its derived allocation
// state
type InstallmentResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	Direction         string          `json:"direction"`
	DocumentID        *uuid.UUID      `json:"document_id,omitempty"`
	PersonnelExpiryID *uuid.UUID      `json:"personnel_expiry_id,omitempty"`
	Description       string          `json:"description"`
	Allocated         decimal.Decimal `json:"allocated"`
	Residual          decimal.Decimal `json:"residual"`
	Settled           bool            `json:"settled"`

	// Payments lists the ledger entries allocated against this installment.
	// Empty in listings that only carry the derived totals.
	Payments []LedgerEntryResponse `json:"payments,omitempty"`
}

// RegisterPaymentRequest represents a payment to register against an
// installment. Override must be set explicitly to allow exceeding the
// residual; the amount is never clamped.
type RegisterPaymentRequest struct {
	Date               time.Time  `json:"date" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	CauseCodeID        uuid.UUID  `json:"cause_code_id" binding:"required"`
	FinancialAccountID *uuid.UUID `json:"financial_account_id"`
	OperatingAccountID *uuid.UUID `json:"operating_account_id"`
	Override           bool       `json:"override"`
	Description        string     `json:"description"`
}

// EditPaymentRequest represents a change to a registered payment amount
type EditPaymentRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Override bool            `json:"override"`
}

// InstallmentListFilter represents filter options for installment lists
type InstallmentListFilter struct {
	Direction string     `form:"direction" binding:"omitempty,oneof=RECEIVABLE PAYABLE"`
	DueFrom   *time.Time `form:"due_from" time_format:"2006-01-02"`
	DueTo     *time.Time `form:"due_to" time_format:"2006-01-02"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToInstallmentResponse converts an installment and its settlements to a
// response DTO with derived totals
func ToInstallmentResponse(inst *accounting.Installment, payments []accounting.LedgerEntry) InstallmentResponse {
	allocated := inst.AllocatedTotal(payments)
	paymentResponses := make([]LedgerEntryResponse, len(payments))
	for i := range payments {
		paymentResponses[i] = ToLedgerEntryResponse(&payments[i])
	}
	return InstallmentResponse{
		ID:                inst.ID,
		TenantID:          inst.TenantID,
		DueDate:           inst.DueDate,
		Amount:            inst.Amount,
		Direction:         inst.Direction.String(),
		DocumentID:        inst.DocumentID,
		PersonnelExpiryID: inst.PersonnelExpiryID,
		Description:       inst.Description,
		Allocated:         allocated,
		Residual:          inst.Amount.Sub(allocated),
		Settled:           inst.Amount.Sub(allocated).IsZero(),
		Payments:          paymentResponses,
	}
}

// =============================================================================
// Ledger DTOs
// =============================================================================

// PostEntryRequest represents an ordinary ledger entry to post
type PostEntryRequest struct {
	Date               time.Time       `json:"date" binding:"required"`
	Amount             decimal.Decimal `json:"amount" binding:"required"`
	Movement           string          `json:"movement" binding:"required,oneof=INFLOW OUTFLOW"`
	CauseCodeID        uuid.UUID       `json:"cause_code_id" binding:"required"`
	FinancialAccountID *uuid.UUID      `json:"financial_account_id"`
	OperatingAccountID *uuid.UUID      `json:"operating_account_id"`
	CounterpartyID     *uuid.UUID      `json:"counterparty_id"`
	JobSiteRef         string          `json:"job_site_ref" binding:"max=100"`
	Description        string          `json:"description"`
}

// PostTransferRequest represents an internal transfer between two financial
// accounts. No movement field: each leg's movement is derived from its role.
type PostTransferRequest struct {
	Date                 time.Time       `json:"date" binding:"required"`
	Amount               decimal.Decimal `json:"amount" binding:"required"`
	CauseCodeID          uuid.UUID       `json:"cause_code_id" binding:"required"`
	SourceAccountID      uuid.UUID       `json:"source_account_id" binding:"required"`
	DestinationAccountID uuid.UUID       `json:"destination_account_id" binding:"required"`
	Description          string          `json:"description"`
}

// UpdateTransferRequest represents a change applied to both legs of a
// transfer together
type UpdateTransferRequest struct {
	Date        time.Time       `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

// LedgerEntryResponse represents a ledger entry in API responses
type LedgerEntryResponse struct {
	ID                 uuid.UUID       `json:"id"`
	TenantID           uuid.UUID       `json:"tenant_id"`
	Date               time.Time       `json:"date"`
	Amount             decimal.Decimal `json:"amount"`
	SignedAmount       decimal.Decimal `json:"signed_amount"`
	Movement           string          `json:"movement"`
	CauseCodeID        uuid.UUID       `json:"cause_code_id"`
	FinancialAccountID *uuid.UUID      `json:"financial_account_id,omitempty"`
	OperatingAccountID *uuid.UUID      `json:"operating_account_id,omitempty"`
	CounterpartyID     *uuid.UUID      `json:"counterparty_id,omitempty"`
	JobSiteRef         string          `json:"job_site_ref,omitempty"`
	InstallmentID      *uuid.UUID      `json:"installment_id,omitempty"`
	TransferGroupID    *uuid.UUID      `json:"transfer_group_id,omitempty"`
	Description        string          `json:"description"`
	CreatedAt          time.Time       `json:"created_at"`
	Version            int             `json:"version"`
}

// TransferResponse represents both legs of a transfer in API responses
type TransferResponse struct {
	GroupID uuid.UUID           `json:"group_id"`
	Source  LedgerEntryResponse `json:"source"`
	Dest    LedgerEntryResponse `json:"destination"`
}

// LedgerListFilter represents filter options for ledger queries
type LedgerListFilter struct {
	FromDate           *time.Time `form:"from_date" time_format:"2006-01-02"`
	ToDate             *time.Time `form:"to_date" time_format:"2006-01-02"`
	Movement           string     `form:"movement" binding:"omitempty,oneof=INFLOW OUTFLOW"`
	CauseCodeID        *uuid.UUID `form:"cause_code_id"`
	FinancialAccountID *uuid.UUID `form:"financial_account_id"`
	OperatingAccountID *uuid.UUID `form:"operating_account_id"`
	CounterpartyID     *uuid.UUID `form:"counterparty_id"`
	JobSiteRef         string     `form:"job_site_ref"`
	Page               int        `form:"page"`
	PageSize           int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToLedgerEntryResponse converts a domain ledger entry to a response DTO
func ToLedgerEntryResponse(e *accounting.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                 e.ID,
		TenantID:           e.TenantID,
		Date:               e.Date,
		Amount:             e.Amount,
		SignedAmount:       e.SignedAmount(),
		Movement:           e.Movement.String(),
		CauseCodeID:        e.CauseCodeID,
		FinancialAccountID: e.FinancialAccountID,
		OperatingAccountID: e.OperatingAccountID,
		CounterpartyID:     e.CounterpartyID,
		JobSiteRef:         e.JobSiteRef,
		InstallmentID:      e.InstallmentID,
		TransferGroupID:    e.TransferGroupID,
		Description:        e.Description,
		CreatedAt:          e.CreatedAt,
		Version:            e.Version,
	}
}

// ToTransferResponse converts a transfer pair to a response DTO
func ToTransferResponse(p *accounting.TransferPair) TransferResponse {
	return TransferResponse{
		GroupID: p.GroupID,
		Source:  ToLedgerEntryResponse(p.Source),
		Dest:    ToLedgerEntryResponse(p.Dest),
	}
}

// =============================================================================
// Account and cause DTOs
// =============================================================================

// CreateFinancialAccountRequest represents a request to create a financial account
type CreateFinancialAccountRequest struct {
	Name string `json:"name" binding:"required,max=200"`
	Kind string `json:"kind" binding:"required,oneof=CASH BANK"`
	IBAN string `json:"iban" binding:"max=34"`
}

// CreateOperatingAccountRequest represents a request to create an operating account
type CreateOperatingAccountRequest struct {
	Name string `json:"name" binding:"required,max=200"`
}

// CreateCauseCodeRequest represents a request to create a cause code
type CreateCauseCodeRequest struct {
	Code        string `json:"code" binding:"required,max=20"`
	Description string `json:"description" binding:"required,max=200"`
	Nature      string `json:"nature" binding:"required,oneof=ORDINARY TRANSFER"`
}

// FinancialAccountResponse represents a financial account in API responses
type FinancialAccountResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Kind      string    `json:"kind"`
	IBAN      string    `json:"iban,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// OperatingAccountResponse represents an operating account in API responses
type OperatingAccountResponse struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// CauseCodeResponse represents a cause code in API responses
type CauseCodeResponse struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Code        string    `json:"code"`
	Description string    `json:"description"`
	Nature      string    `json:"nature"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// ToFinancialAccountResponse converts a domain financial account to a response DTO
func ToFinancialAccountResponse(a *accounting.FinancialAccount) FinancialAccountResponse {
	return FinancialAccountResponse{
		ID:        a.ID,
		TenantID:  a.TenantID,
		Name:      a.Name,
		Kind:      string(a.Kind),
		IBAN:      a.IBAN,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

// ToOperatingAccountResponse converts a domain operating account to a response DTO
func ToOperatingAccountResponse(a *accounting.OperatingAccount) OperatingAccountResponse {
	return OperatingAccountResponse{
		ID:        a.ID,
		TenantID:  a.TenantID,
		Name:      a.Name,
		Active:    a.Active,
		CreatedAt: a.CreatedAt,
	}
}

// ToCauseCodeResponse converts a domain cause code to a response DTO
func ToCauseCodeResponse(c *accounting.CauseCode) CauseCodeResponse {
	return CauseCodeResponse{
		ID:          c.ID,
		TenantID:    c.TenantID,
		Code:        c.Code,
		Description: c.Description,
		Nature:      string(c.Nature),
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}
