package accounting

import (
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Movement tells whether a ledger entry moves money in or out
type Movement string

const (
	MovementInflow  Movement = "INFLOW"
	MovementOutflow Movement = "OUTFLOW"
)

// IsValid checks if the movement is valid
func (m Movement) IsValid() bool {
	return m == MovementInflow || m == MovementOutflow
}

// String returns the string representation of Movement
func (m Movement) String() string {
	return string(m)
}

// LedgerEntry represents one dated, signed monetary entry (prima nota).
// Amount is always stored positive; the movement carries the sign. An entry
// may additionally act as an installment settlement (InstallmentID set) or as
// one leg of an internal transfer (TransferGroupID set).
type LedgerEntry struct {
	shared.TenantAggregateRoot
	Date               time.Time       `json:"date"`
	Amount             decimal.Decimal `json:"amount"`
	Movement           Movement        `json:"movement"`
	CauseCodeID        uuid.UUID       `json:"cause_code_id"`
	FinancialAccountID *uuid.UUID      `json:"financial_account_id,omitempty"`
	OperatingAccountID *uuid.UUID      `json:"operating_account_id,omitempty"`
	CounterpartyID     *uuid.UUID      `json:"counterparty_id,omitempty"`
	JobSiteRef         string          `json:"job_site_ref,omitempty"`
	InstallmentID      *uuid.UUID      `json:"installment_id,omitempty"`
	TransferGroupID    *uuid.UUID      `json:"transfer_group_id,omitempty"`
	Description        string          `json:"description"`
}

// NewLedgerEntry creates an ordinary ledger entry on a single account
func NewLedgerEntry(
	tenantID uuid.UUID,
	date time.Time,
	amount decimal.Decimal,
	movement Movement,
	causeCodeID uuid.UUID,
	financialAccountID, operatingAccountID *uuid.UUID,
	description string,
) (*LedgerEntry, error) {
	var verr shared.ValidationErrors
	if date.IsZero() {
		verr.Add("date", "REQUIRED", "Entry date is required")
	}
	if !amount.IsPositive() {
		verr.Add("amount", "RANGE", "Entry amount must be positive")
	}
	if !movement.IsValid() {
		verr.Add("movement", "REQUIRED", "Movement must be INFLOW or OUTFLOW")
	}
	if causeCodeID == uuid.Nil {
		verr.Add("cause_code_id", "REQUIRED", "Cause code is required")
	}
	if financialAccountID == nil && operatingAccountID == nil {
		verr.Add("financial_account_id", "REQUIRED", "A financial or operating account is required")
	}
	if financialAccountID != nil && operatingAccountID != nil {
		verr.Add("operating_account_id", "NOT_ALLOWED", "An entry targets a single account")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                date,
		Amount:              amount,
		Movement:            movement,
		CauseCodeID:         causeCodeID,
		FinancialAccountID:  financialAccountID,
		OperatingAccountID:  operatingAccountID,
		Description:         description,
	}, nil
}

// SignedAmount returns the amount signed by the movement
func (e *LedgerEntry) SignedAmount() decimal.Decimal {
	if e.Movement == MovementOutflow {
		return e.Amount.Neg()
	}
	return e.Amount
}

// IsSettlement returns true when the entry settles an installment
func (e *LedgerEntry) IsSettlement() bool {
	return e.InstallmentID != nil
}

// IsTransferLeg returns true when the entry is one leg of a transfer pair
func (e *LedgerEntry) IsTransferLeg() bool {
	return e.TransferGroupID != nil
}

// LinkInstallment marks the entry as the settlement of an installment.
// The link is 1:1 and set once.
func (e *LedgerEntry) LinkInstallment(installmentID uuid.UUID) error {
	if e.InstallmentID != nil {
		return shared.NewDomainError("INVALID_STATE", "Entry is already linked to an installment")
	}
	if e.IsTransferLeg() {
		return shared.NewDomainError("INVALID_STATE", "A transfer leg cannot settle an installment")
	}
	e.InstallmentID = &installmentID
	e.UpdatedAt = time.Now()
	return nil
}

// SetCounterparty tags the entry with a counterparty
func (e *LedgerEntry) SetCounterparty(counterpartyID uuid.UUID) {
	e.CounterpartyID = &counterpartyID
	e.UpdatedAt = time.Now()
}

// SetJobSite tags the entry with a job-site reference
func (e *LedgerEntry) SetJobSite(ref string) {
	e.JobSiteRef = ref
	e.UpdatedAt = time.Now()
}

// UpdateAmount changes the entry amount, used for payment edits after the
// installment-level validation has passed
func (e *LedgerEntry) UpdateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return shared.NewFieldValidationError("amount", "RANGE", "Entry amount must be positive")
	}
	e.Amount = amount
	e.UpdatedAt = time.Now()
	e.IncrementVersion()
	return nil
}
