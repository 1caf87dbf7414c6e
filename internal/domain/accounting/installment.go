package accounting

import (
	"fmt"
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction tells whether an installment is money to receive or to pay
type Direction string

const (
	DirectionReceivable Direction = "RECEIVABLE"
	DirectionPayable    Direction = "PAYABLE"
)

// IsValid checks if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionReceivable || d == DirectionPayable
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// Installment represents one expected payment (scadenza): a fixed amount due
// on a date. The allocated total is never stored; it is always derived by
// summing the settlement ledger entries linked to the installment, so
// deleting a payment can never leave a stale total behind.
type Installment struct {
	shared.TenantAggregateRoot
	DueDate           time.Time       `json:"due_date"`
	Amount            decimal.Decimal `json:"amount"`
	Direction         Direction       `json:"direction"`
	DocumentID        *uuid.UUID      `json:"document_id,omitempty"`
	PersonnelExpiryID *uuid.UUID      `json:"personnel_expiry_id,omitempty"`
	Description       string          `json:"description"`
}

// NewInstallment creates a new installment
func NewInstallment(
	tenantID uuid.UUID,
	dueDate time.Time,
	amount decimal.Decimal,
	direction Direction,
	documentID *uuid.UUID,
	personnelExpiryID *uuid.UUID,
	description string,
) (*Installment, error) {
	var verr shared.ValidationErrors
	if dueDate.IsZero() {
		verr.Add("due_date", "REQUIRED", "Due date is required")
	}
	if !amount.IsPositive() {
		verr.Add("amount", "RANGE", "Installment amount must be positive")
	}
	if !direction.IsValid() {
		verr.Add("direction", "INVALID_DIRECTION", "Direction must be RECEIVABLE or PAYABLE")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	return &Installment{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DueDate:             dueDate,
		Amount:              amount,
		Direction:           direction,
		DocumentID:          documentID,
		PersonnelExpiryID:   personnelExpiryID,
		Description:         description,
	}, nil
}

// AllocatedTotal sums the amounts of the settlement entries linked to this
// installment
func (i *Installment) AllocatedTotal(payments []LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// Residual returns the rate amount minus the allocated total
func (i *Installment) Residual(payments []LedgerEntry) decimal.Decimal {
	return i.Amount.Sub(i.AllocatedTotal(payments))
}

// IsSettled returns true when the residual is zero
func (i *Installment) IsSettled(payments []LedgerEntry) bool {
	return i.Residual(payments).IsZero()
}

// IsOpen returns true while a positive residual remains
func (i *Installment) IsOpen(payments []LedgerEntry) bool {
	return i.Residual(payments).IsPositive()
}

// MarkAllocationChanged advances the installment version. Every change to
// the settlement set must call it before a locked save, so two writers that
// validated against the same settlements cannot both commit.
func (i *Installment) MarkAllocationChanged() {
	i.UpdatedAt = time.Now()
	i.IncrementVersion()
}

// ValidateNewPayment checks a payment about to be registered against the
// current residual. Overpaying is allowed only with an explicit override;
// there is never silent clamping. payments must be the settlements currently
// linked to the installment.
func (i *Installment) ValidateNewPayment(amount decimal.Decimal, payments []LedgerEntry, override bool) error {
	if !amount.IsPositive() {
		return shared.NewFieldValidationError("amount", "RANGE", "Payment amount must be positive")
	}
	residual := i.Residual(payments)
	if amount.GreaterThan(residual) && !override {
		return shared.NewFieldValidationError("amount", "EXCEEDS_RESIDUAL",
			fmt.Sprintf("Payment amount exceeds the installment residual; maximum allowed is %s", residual.StringFixed(2)))
	}
	return nil
}

// ValidateEditedPayment checks a changed payment amount. The allocated total
// is recomputed over all payments except the one being edited, so an edit is
// validated against the room the other payments leave.
func (i *Installment) ValidateEditedPayment(paymentID uuid.UUID, newAmount decimal.Decimal, payments []LedgerEntry, override bool) error {
	if !newAmount.IsPositive() {
		return shared.NewFieldValidationError("amount", "RANGE", "Payment amount must be positive")
	}
	others := decimal.Zero
	for _, p := range payments {
		if p.ID == paymentID {
			continue
		}
		others = others.Add(p.Amount)
	}
	maxAllowed := i.Amount.Sub(others)
	if newAmount.GreaterThan(maxAllowed) && !override {
		return shared.NewFieldValidationError("amount", "EXCEEDS_RESIDUAL",
			fmt.Sprintf("Payment amount exceeds the installment residual; maximum allowed is %s", maxAllowed.StringFixed(2)))
	}
	return nil
}
