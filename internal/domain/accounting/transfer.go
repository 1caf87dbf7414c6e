package accounting

import (
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferPair is the unit of an internal transfer (giroconto): two ledger
// entries sharing amount, date and transfer group, an outflow on the source
// financial account and an inflow on the destination. The pair is created,
// edited and reversed as a whole; downstream code never touches one leg
// alone.
type TransferPair struct {
	GroupID uuid.UUID
	Source  *LedgerEntry
	Dest    *LedgerEntry
}

// NewTransferPair builds the two linked entries of a transfer. The movement
// is not caller-supplied; it is derived from the leg's role. Account-pair
// checks run before anything else so the error is specific to the transfer
// scenario.
func NewTransferPair(
	tenantID uuid.UUID,
	date time.Time,
	amount decimal.Decimal,
	causeCodeID uuid.UUID,
	sourceAccountID, destAccountID uuid.UUID,
	description string,
) (*TransferPair, error) {
	var verr shared.ValidationErrors
	if sourceAccountID == uuid.Nil {
		verr.Add("source_account_id", "REQUIRED", "Source financial account is required")
	}
	if destAccountID == uuid.Nil {
		verr.Add("destination_account_id", "REQUIRED", "Destination financial account is required")
	}
	if sourceAccountID != uuid.Nil && sourceAccountID == destAccountID {
		verr.Add("destination_account_id", "SAME_ACCOUNT", "Destination account must differ from the source account")
	}
	if date.IsZero() {
		verr.Add("date", "REQUIRED", "Transfer date is required")
	}
	if !amount.IsPositive() {
		verr.Add("amount", "RANGE", "Transfer amount must be positive")
	}
	if causeCodeID == uuid.Nil {
		verr.Add("cause_code_id", "REQUIRED", "Cause code is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return nil, err
	}

	groupID := uuid.New()
	src := sourceAccountID
	dst := destAccountID

	source := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                date,
		Amount:              amount,
		Movement:            MovementOutflow,
		CauseCodeID:         causeCodeID,
		FinancialAccountID:  &src,
		TransferGroupID:     &groupID,
		Description:         description,
	}
	dest := &LedgerEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Date:                date,
		Amount:              amount,
		Movement:            MovementInflow,
		CauseCodeID:         causeCodeID,
		FinancialAccountID:  &dst,
		TransferGroupID:     &groupID,
		Description:         description,
	}

	return &TransferPair{GroupID: groupID, Source: source, Dest: dest}, nil
}

// TransferPairFromEntries reassembles a pair from its persisted legs
func TransferPairFromEntries(entries []LedgerEntry) (*TransferPair, error) {
	if len(entries) != 2 {
		return nil, shared.NewDomainError("BROKEN_TRANSFER", "A transfer group must contain exactly two entries")
	}
	a, b := entries[0], entries[1]
	if a.TransferGroupID == nil || b.TransferGroupID == nil || *a.TransferGroupID != *b.TransferGroupID {
		return nil, shared.NewDomainError("BROKEN_TRANSFER", "Entries do not belong to the same transfer group")
	}
	pair := &TransferPair{GroupID: *a.TransferGroupID}
	switch {
	case a.Movement == MovementOutflow && b.Movement == MovementInflow:
		pair.Source, pair.Dest = &a, &b
	case a.Movement == MovementInflow && b.Movement == MovementOutflow:
		pair.Source, pair.Dest = &b, &a
	default:
		return nil, shared.NewDomainError("BROKEN_TRANSFER", "A transfer group must hold one outflow and one inflow")
	}
	if !pair.Source.Amount.Equal(pair.Dest.Amount) {
		return nil, shared.NewDomainError("BROKEN_TRANSFER", "Transfer legs carry different amounts")
	}
	return pair, nil
}

// Amount returns the shared amount of the pair
func (p *TransferPair) Amount() decimal.Decimal {
	return p.Source.Amount
}

// Update changes amount and date on both legs together
func (p *TransferPair) Update(amount decimal.Decimal, date time.Time, description string) error {
	var verr shared.ValidationErrors
	if !amount.IsPositive() {
		verr.Add("amount", "RANGE", "Transfer amount must be positive")
	}
	if date.IsZero() {
		verr.Add("date", "REQUIRED", "Transfer date is required")
	}
	if err := verr.ErrOrNil(); err != nil {
		return err
	}

	now := time.Now()
	for _, leg := range []*LedgerEntry{p.Source, p.Dest} {
		leg.Amount = amount
		leg.Date = date
		leg.Description = description
		leg.UpdatedAt = now
		leg.IncrementVersion()
	}
	return nil
}

// Entries returns both legs, source first
func (p *TransferPair) Entries() []*LedgerEntry {
	return []*LedgerEntry{p.Source, p.Dest}
}
