package accounting

import (
	"context"
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InstallmentService registers, edits and deletes payments against
// installments. Allocation changes run inside a transaction and finish with a
// locked save of the installment, so two concurrent payments that both
// validated against the same settlement set cannot both commit.
type InstallmentService struct {
	installments accounting.InstallmentRepository
	entries      accounting.LedgerEntryRepository
	causes       accounting.CauseCodeRepository
	uow          shared.UnitOfWork
}

// NewInstallmentService creates a new InstallmentService
func NewInstallmentService(
	installments accounting.InstallmentRepository,
	entries accounting.LedgerEntryRepository,
	causes accounting.CauseCodeRepository,
	uow shared.UnitOfWork,
) *InstallmentService {
	return &InstallmentService{
		installments: installments,
		entries:      entries,
		causes:       causes,
		uow:          uow,
	}
}

// settlementMovement maps the installment direction to the movement of its
// settlements: collecting a receivable moves money in, paying a payable
// moves money out
func settlementMovement(direction accounting.Direction) accounting.Movement {
	if direction == accounting.DirectionReceivable {
		return accounting.MovementInflow
	}
	return accounting.MovementOutflow
}

// RegisterPayment validates a payment against the installment residual and
// stores it as a settlement ledger entry
func (s *InstallmentService) RegisterPayment(ctx context.Context, tenantID, installmentID uuid.UUID, req RegisterPaymentRequest) (*LedgerEntryResponse, error) {
	var entry *accounting.LedgerEntry
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		installment, err := s.installments.FindByID(ctx, installmentID)
		if err != nil {
			return err
		}

		cause, err := s.causes.FindByID(ctx, req.CauseCodeID)
		if err != nil {
			return err
		}
		if cause.IsTransfer() {
			return shared.NewFieldValidationError("cause_code_id", "TRANSFER_CAUSE",
				"A transfer cause cannot settle an installment")
		}

		payments, err := s.entries.FindByInstallment(ctx, installmentID)
		if err != nil {
			return err
		}
		if err := installment.ValidateNewPayment(req.Amount, payments, req.Override); err != nil {
			return err
		}

		entry, err = accounting.NewLedgerEntry(tenantID, req.Date, req.Amount,
			settlementMovement(installment.Direction), req.CauseCodeID,
			req.FinancialAccountID, req.OperatingAccountID, req.Description)
		if err != nil {
			return err
		}
		if err := entry.LinkInstallment(installmentID); err != nil {
			return err
		}
		if err := s.entries.Save(ctx, entry); err != nil {
			return err
		}

		// Re-assert the installment version read above; a concurrent
		// allocation against the same state fails here instead of committing
		installment.MarkAllocationChanged()
		return s.installments.SaveWithLock(ctx, installment)
	})
	if err != nil {
		return nil, err
	}

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// EditPayment changes a payment amount. The residual is recomputed over the
// other settlements of the same installment, so lowering one payment frees
// room for the edit.
func (s *InstallmentService) EditPayment(ctx context.Context, paymentID uuid.UUID, req EditPaymentRequest) (*LedgerEntryResponse, error) {
	var entry *accounting.LedgerEntry
	err := s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.entries.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if !entry.IsSettlement() {
			return shared.NewDomainError("NOT_A_SETTLEMENT", "Entry is not linked to an installment")
		}

		installment, err := s.installments.FindByID(ctx, *entry.InstallmentID)
		if err != nil {
			return err
		}
		payments, err := s.entries.FindByInstallment(ctx, installment.ID)
		if err != nil {
			return err
		}
		if err := installment.ValidateEditedPayment(paymentID, req.Amount, payments, req.Override); err != nil {
			return err
		}
		if err := entry.UpdateAmount(req.Amount); err != nil {
			return err
		}
		if err := s.entries.SaveWithLock(ctx, entry); err != nil {
			return err
		}

		installment.MarkAllocationChanged()
		return s.installments.SaveWithLock(ctx, installment)
	})
	if err != nil {
		return nil, err
	}

	response := ToLedgerEntryResponse(entry)
	return &response, nil
}

// DeletePayment removes a settlement. The allocated total is derived from
// the remaining settlements, so the installment reopens by itself with no
// stored total to fix up.
func (s *InstallmentService) DeletePayment(ctx context.Context, paymentID uuid.UUID) error {
	return s.uow.WithinTransaction(ctx, func(ctx context.Context) error {
		entry, err := s.entries.FindByID(ctx, paymentID)
		if err != nil {
			return err
		}
		if !entry.IsSettlement() {
			return shared.NewDomainError("NOT_A_SETTLEMENT", "Entry is not linked to an installment")
		}
		return s.entries.Delete(ctx, paymentID)
	})
}

// GetByID retrieves an installment with its derived allocation state
func (s *InstallmentService) GetByID(ctx context.Context, id uuid.UUID) (*InstallmentResponse, error) {
	installment, err := s.installments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	payments, err := s.entries.FindByInstallment(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToInstallmentResponse(installment, payments)
	return &response, nil
}

// ListByDocument retrieves the installments generated from a document, each
// with its derived allocation state
func (s *InstallmentService) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]InstallmentResponse, error) {
	installments, err := s.installments.FindByDocument(ctx, documentID)
	if err != nil {
		return nil, err
	}

	responses := make([]InstallmentResponse, len(installments))
	for i := range installments {
		payments, err := s.entries.FindByInstallment(ctx, installments[i].ID)
		if err != nil {
			return nil, err
		}
		responses[i] = ToInstallmentResponse(&installments[i], payments)
	}
	return responses, nil
}

// ListOpen retrieves installments due up to the given date that still carry
// a positive residual (scadenzario)
func (s *InstallmentService) ListOpen(ctx context.Context, asOf time.Time, direction string) ([]InstallmentResponse, error) {
	var dir *accounting.Direction
	if direction != "" {
		d := accounting.Direction(direction)
		dir = &d
	}

	open, err := s.installments.FindOpenAsOf(ctx, asOf, dir)
	if err != nil {
		return nil, err
	}

	responses := make([]InstallmentResponse, len(open))
	for i, o := range open {
		responses[i] = InstallmentResponse{
			ID:                o.Installment.ID,
			TenantID:          o.Installment.TenantID,
			DueDate:           o.Installment.DueDate,
			Amount:            o.Installment.Amount,
			Direction:         o.Installment.Direction.String(),
			DocumentID:        o.Installment.DocumentID,
			PersonnelExpiryID: o.Installment.PersonnelExpiryID,
			Description:       o.Installment.Description,
			Allocated:         o.Allocated,
			Residual:          o.Residual,
			Settled:           o.Residual.IsZero(),
		}
	}
	return responses, nil
}
