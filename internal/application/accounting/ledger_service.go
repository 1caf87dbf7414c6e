package accounting

import (
	"context"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LedgerService posts ordinary entries and internal transfers. The cause
// code classifies the posting mode before anything else: an ordinary cause
// produces one entry, a transfer cause produces a linked pair, and mixing
// the two surfaces is rejected with a cause-scoped error.
type LedgerService struct {
	entries   accounting.LedgerEntryRepository
	causes    accounting.CauseCodeRepository
	financial accounting.FinancialAccountRepository
	operating accounting.OperatingAccountRepository
	uow       shared.UnitOfWork
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	entries accounting.LedgerEntryRepository,
	causes accounting.CauseCodeRepository,
	financial accounting.FinancialAccountRepository,
	operating accounting.OperatingAccountRepository,
	uow shared.UnitOfWork,
) *LedgerService {
	return &LedgerService{
		entries:   entries,
		causes:    causes,
		financial: financial,
		operating: operating,
		uow:       uow,
	}
}

// resolveCause loads a cause code and checks it is active
func (s *LedgerService) resolveCause(ctx context.Context, id uuid.UUID) (*accounting.CauseCode, error) {
	cause, err := s.causes.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cause.Active {
		return nil, shared.NewFieldValidationError("cause_code_id", "INACTIVE",
			"Cause code is deactivated")
	}
	return cause, nil
}

// checkFinancialAccount verifies a financial account exists and is active
func (s *LedgerService) checkFinancialAccount(ctx context.Context, field string, id uuid.UUID) error {
	account, err := s.financial.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.Active {
		return shared.NewFieldValidationError(field, "INACTIVE", "Financial account is deactivated")
	}
	return nil
}

// PostEntry posts an ordinary ledger entry. The cause is classified first so
// a transfer cause is rejected before any account validation runs.
func (s *LedgerService) PostEntry(ctx context.Context, tenantID uuid.UUID, req PostEntryRequest) (*LedgerEntryResponse, error) {
	cause, err := s.resolveCause(ctx, req.CauseCodeID)
	if err != nil {
		return nil, err
	}
	if cause.IsTransfer() {
		return nil, shared.NewFieldValidationError("cause_code_id", "TRANSFER_CAUSE",
			"A transfer cause posts through the transfer operation, not as a single entry")
	}

	if req.FinancialAccountID != nil {
		if err := s.checkFinancialAccount(ctx, "financial_account_id", *req.FinancialAccountID); err != nil {
			return nil, err
		}
	}
	if req.OperatingAccountID != nil {
		account, err := s.operating.FindByID(ctx, *req.OperatingAccountID)
		if err != nil {
			return nil, err
		}
		if !account.Active {
			return nil, shared.NewFieldValidationError("operating_account_id", "INACTIVE",
				"Operating account is deactivated")
		}
	}

	entry, err := accounting.NewLedgerEntry(tenantID, req.Date, req.Amount,
		accounting.Movement(req.Movement), req.CauseCodeID,
		req.FinancialAccountID, req.OperatingAccountID, req.Description)
	if err != nil {
		return nil, err
	}
	if req.CounterpartyID != nil {
		entry.SetCounterparty(*req.CounterpartyID)
	}
	if req.JobSiteRef != "" {
		entry.SetJobSite(req.JobSiteRef)
	}

	if err := s.entries.Save(ctx, entry); err != nil {
		return nil, err
	}

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// PostTransfer posts an internal transfer as a pair of linked entries inside
// one transaction
func (s *LedgerService) PostTransfer(ctx context.Context, tenantID uuid.UUID, req PostTransferRequest) (*TransferResponse, error) {
	var pair *accounting.TransferPair
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		cause, err := s.resolveCause(ctx, req.CauseCodeID)
		if err != nil {
			return err
		}
		if !cause.IsTransfer() {
			return shared.NewFieldValidationError("cause_code_id", "NOT_A_TRANSFER_CAUSE",
				"Transfers require a cause code with transfer nature")
		}

		pair, err = accounting.NewTransferPair(tenantID, req.Date, req.Amount,
			req.CauseCodeID, req.SourceAccountID, req.DestinationAccountID, req.Description)
		if err != nil {
			return err
		}
		if err := s.checkFinancialAccount(ctx, "source_account_id", req.SourceAccountID); err != nil {
			return err
		}
		if err := s.checkFinancialAccount(ctx, "destination_account_id", req.DestinationAccountID); err != nil {
			return err
		}
		return s.entries.SaveAll(ctx, pair.Entries())
	})
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(pair)
	return &response, nil
}

// GetTransfer retrieves both legs of a transfer group
func (s *LedgerService) GetTransfer(ctx context.Context, groupID uuid.UUID) (*TransferResponse, error) {
	legs, err := s.entries.FindByTransferGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if len(legs) == 0 {
		return nil, shared.ErrNotFound
	}
	pair, err := accounting.TransferPairFromEntries(legs)
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(pair)
	return &response, nil
}

// UpdateTransfer applies a new amount and date to both legs together
func (s *LedgerService) UpdateTransfer(ctx context.Context, groupID uuid.UUID, req UpdateTransferRequest) (*TransferResponse, error) {
	var pair *accounting.TransferPair
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		legs, err := s.entries.FindByTransferGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if len(legs) == 0 {
			return shared.ErrNotFound
		}
		pair, err = accounting.TransferPairFromEntries(legs)
		if err != nil {
			return err
		}
		if err := pair.Update(req.Amount, req.Date, req.Description); err != nil {
			return err
		}
		return s.entries.SaveAll(ctx, pair.Entries())
	})
	if err != nil {
		return nil, err
	}

	response := ToTransferResponse(pair)
	return &response, nil
}

// ReverseTransfer removes both legs of a transfer together. A transfer never
// loses a single leg.
func (s *LedgerService) ReverseTransfer(ctx context.Context, groupID uuid.UUID) error {
	return s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		legs, err := s.entries.FindByTransferGroup(ctx, groupID)
		if err != nil {
			return err
		}
		if len(legs) == 0 {
			return shared.ErrNotFound
		}
		if _, err := accounting.TransferPairFromEntries(legs); err != nil {
			return err
		}
		return s.entries.DeleteByTransferGroup(ctx, groupID)
	})
}

// DeleteEntry removes an ordinary ledger entry. Transfer legs must go
// through ReverseTransfer so the pair stays whole.
func (s *LedgerService) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if entry.IsTransferLeg() {
		return shared.NewDomainError("TRANSFER_LEG", "A transfer leg is removed by reversing the whole transfer")
	}
	return s.entries.Delete(ctx, id)
}

// GetByID retrieves a ledger entry
func (s *LedgerService) GetByID(ctx context.Context, id uuid.UUID) (*LedgerEntryResponse, error) {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// List retrieves ledger entries with filtering and pagination
func (s *LedgerService) List(ctx context.Context, filter LedgerListFilter) ([]LedgerEntryResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	domainFilter := accounting.LedgerEntryFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  "date",
			OrderDir: "desc",
		},
		FromDate:           filter.FromDate,
		ToDate:             filter.ToDate,
		CauseCodeID:        filter.CauseCodeID,
		FinancialAccountID: filter.FinancialAccountID,
		OperatingAccountID: filter.OperatingAccountID,
		CounterpartyID:     filter.CounterpartyID,
	}
	if filter.Movement != "" {
		movement := accounting.Movement(filter.Movement)
		domainFilter.Movement = &movement
	}
	if filter.JobSiteRef != "" {
		domainFilter.JobSiteRef = &filter.JobSiteRef
	}

	entries, err := s.entries.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.entries.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]LedgerEntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToLedgerEntryResponse(&entries[i])
	}
	return responses, total, nil
}
