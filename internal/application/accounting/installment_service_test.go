package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOpenInstallment(t *testing.T, tenantID uuid.UUID, amount string, direction accounting.Direction) *accounting.Installment {
	t.Helper()
	inst, err := accounting.NewInstallment(tenantID,
		time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		decimal.RequireFromString(amount), direction, nil, nil, "test rate")
	require.NoError(t, err)
	return inst
}

func newSettlementEntry(t *testing.T, tenantID, installmentID uuid.UUID, amount string, movement accounting.Movement) accounting.LedgerEntry {
	t.Helper()
	accountID := uuid.New()
	entry, err := accounting.NewLedgerEntry(tenantID, time.Now(),
		decimal.RequireFromString(amount), movement, uuid.New(), &accountID, nil, "")
	require.NoError(t, err)
	require.NoError(t, entry.LinkInstallment(installmentID))
	return *entry
}

func ordinaryCause(t *testing.T, tenantID uuid.UUID) *accounting.CauseCode {
	t.Helper()
	cause, err := accounting.NewCauseCode(tenantID, "INC", "Incasso", accounting.NatureOrdinary)
	require.NoError(t, err)
	return cause
}

func TestInstallmentService_RegisterPayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	accountID := uuid.New()

	newService := func() (*InstallmentService, *MockInstallmentRepository, *MockLedgerEntryRepository, *MockCauseCodeRepository) {
		installments := new(MockInstallmentRepository)
		entries := new(MockLedgerEntryRepository)
		causes := new(MockCauseCodeRepository)
		return NewInstallmentService(installments, entries, causes, fakeUnitOfWork{}), installments, entries, causes
	}

	t.Run("registers a partial payment as an inflow settlement", func(t *testing.T) {
		service, installments, entries, causes := newService()
		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
		cause := ordinaryCause(t, tenantID)

		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		causes.On("FindByID", ctx, cause.ID).Return(cause, nil)
		entries.On("FindByInstallment", ctx, inst.ID).Return([]accounting.LedgerEntry{}, nil)
		entries.On("Save", ctx, mock.AnythingOfType("*accounting.LedgerEntry")).Return(nil)
		installments.On("SaveWithLock", ctx, inst).Return(nil)

		resp, err := service.RegisterPayment(ctx, tenantID, inst.ID, RegisterPaymentRequest{
			Date:               time.Now(),
			Amount:             decimal.RequireFromString("400.00"),
			CauseCodeID:        cause.ID,
			FinancialAccountID: &accountID,
		})
		require.NoError(t, err)
		assert.Equal(t, "INFLOW", resp.Movement, "collecting a receivable moves money in")
		require.NotNil(t, resp.InstallmentID)
		assert.Equal(t, inst.ID, *resp.InstallmentID)
		assert.Equal(t, 2, inst.Version, "registering a payment advances the installment version")
	})

	t.Run("payable settlements move money out", func(t *testing.T) {
		service, installments, entries, causes := newService()
		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionPayable)
		cause := ordinaryCause(t, tenantID)

		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		causes.On("FindByID", ctx, cause.ID).Return(cause, nil)
		entries.On("FindByInstallment", ctx, inst.ID).Return([]accounting.LedgerEntry{}, nil)
		entries.On("Save", ctx, mock.AnythingOfType("*accounting.LedgerEntry")).Return(nil)
		installments.On("SaveWithLock", ctx, inst).Return(nil)

		resp, err := service.RegisterPayment(ctx, tenantID, inst.ID, RegisterPaymentRequest{
			Date:               time.Now(),
			Amount:             decimal.RequireFromString("1000.00"),
			CauseCodeID:        cause.ID,
			FinancialAccountID: &accountID,
		})
		require.NoError(t, err)
		assert.Equal(t, "OUTFLOW", resp.Movement)
	})

	t.Run("rejects exceeding the residual and names the maximum", func(t *testing.T) {
		service, installments, entries, causes := newService()
		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
		cause := ordinaryCause(t, tenantID)
		existing := newSettlementEntry(t, tenantID, inst.ID, "400.00", accounting.MovementInflow)

		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		causes.On("FindByID", ctx, cause.ID).Return(cause, nil)
		entries.On("FindByInstallment", ctx, inst.ID).Return([]accounting.LedgerEntry{existing}, nil)

		_, err := service.RegisterPayment(ctx, tenantID, inst.ID, RegisterPaymentRequest{
			Date:               time.Now(),
			Amount:             decimal.RequireFromString("700.00"),
			CauseCodeID:        cause.ID,
			FinancialAccountID: &accountID,
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "600.00", "the error names the maximum allowed amount")
		entries.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("override allows exceeding the residual", func(t *testing.T) {
		service, installments, entries, causes := newService()
		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
		cause := ordinaryCause(t, tenantID)
		existing := newSettlementEntry(t, tenantID, inst.ID, "400.00", accounting.MovementInflow)

		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		causes.On("FindByID", ctx, cause.ID).Return(cause, nil)
		entries.On("FindByInstallment", ctx, inst.ID).Return([]accounting.LedgerEntry{existing}, nil)
		entries.On("Save", ctx, mock.AnythingOfType("*accounting.LedgerEntry")).Return(nil)
		installments.On("SaveWithLock", ctx, inst).Return(nil)

		_, err := service.RegisterPayment(ctx, tenantID, inst.ID, RegisterPaymentRequest{
			Date:               time.Now(),
			Amount:             decimal.RequireFromString("700.00"),
			CauseCodeID:        cause.ID,
			FinancialAccountID: &accountID,
			Override:           true,
		})
		require.NoError(t, err)
	})

	t.Run("a concurrent allocation against the same state is refused", func(t *testing.T) {
		service, installments, entries, causes := newService()
		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
		cause := ordinaryCause(t, tenantID)

		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		causes.On("FindByID", ctx, cause.ID).Return(cause, nil)
		entries.On("FindByInstallment", ctx, inst.ID).Return([]accounting.LedgerEntry{}, nil)
		entries.On("Save", ctx, mock.AnythingOfType("*accounting.LedgerEntry")).Return(nil)
		// Another writer already allocated against the version this
		// registration validated with
		installments.On("SaveWithLock", ctx, inst).Return(shared.ErrConcurrencyConflict)

		_, err := service.RegisterPayment(ctx, tenantID, inst.ID, RegisterPaymentRequest{
			Date:               time.Now(),
			Amount:             decimal.RequireFromString("600.00"),
			CauseCodeID:        cause.ID,
			FinancialAccountID: &accountID,
		})
		require.ErrorIs(t, err, shared.ErrConcurrencyConflict)
	})

	t.Run("rejects a transfer cause", func(t *testing.T) {
		service, installments, _, causes := newService()
		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
		transferCause, err := accounting.NewCauseCode(tenantID, "GIR", "Giroconto", accounting.NatureTransfer)
		require.NoError(t, err)

		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		causes.On("FindByID", ctx, transferCause.ID).Return(transferCause, nil)

		_, err = service.RegisterPayment(ctx, tenantID, inst.ID, RegisterPaymentRequest{
			Date:               time.Now(),
			Amount:             decimal.RequireFromString("100.00"),
			CauseCodeID:        transferCause.ID,
			FinancialAccountID: &accountID,
		})
		require.Error(t, err)

		var verr shared.ValidationErrors
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "cause_code_id", verr[0].Field)
	})
}

func TestInstallmentService_EditPayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("edit is validated against the other settlements", func(t *testing.T) {
		installments := new(MockInstallmentRepository)
		entries := new(MockLedgerEntryRepository)
		causes := new(MockCauseCodeRepository)
		service := NewInstallmentService(installments, entries, causes, fakeUnitOfWork{})

		inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
		edited := newSettlementEntry(t, tenantID, inst.ID, "400.00", accounting.MovementInflow)
		other := newSettlementEntry(t, tenantID, inst.ID, "100.00", accounting.MovementInflow)

		entries.On("FindByID", ctx, edited.ID).Return(&edited, nil)
		installments.On("FindByID", ctx, inst.ID).Return(inst, nil)
		entries.On("FindByInstallment", ctx, inst.ID).Return([]accounting.LedgerEntry{edited, other}, nil)

		// 900 exceeds the 1000 - 100 the other settlement leaves
		_, err := service.EditPayment(ctx, edited.ID, EditPaymentRequest{
			Amount: decimal.RequireFromString("901.00"),
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "900.00")

		entries.On("SaveWithLock", ctx, &edited).Return(nil)
		installments.On("SaveWithLock", ctx, inst).Return(nil)
		resp, err := service.EditPayment(ctx, edited.ID, EditPaymentRequest{
			Amount: decimal.RequireFromString("900.00"),
		})
		require.NoError(t, err)
		assert.True(t, resp.Amount.Equal(decimal.RequireFromString("900.00")))
	})

	t.Run("rejects an entry that settles nothing", func(t *testing.T) {
		installments := new(MockInstallmentRepository)
		entries := new(MockLedgerEntryRepository)
		causes := new(MockCauseCodeRepository)
		service := NewInstallmentService(installments, entries, causes, fakeUnitOfWork{})

		accountID := uuid.New()
		plain, err := accounting.NewLedgerEntry(tenantID, time.Now(),
			decimal.RequireFromString("50.00"), accounting.MovementOutflow, uuid.New(), &accountID, nil, "fuel")
		require.NoError(t, err)
		entries.On("FindByID", ctx, plain.ID).Return(plain, nil)

		_, err = service.EditPayment(ctx, plain.ID, EditPaymentRequest{Amount: decimal.RequireFromString("60.00")})
		require.Error(t, err)

		var derr *shared.DomainError
		require.True(t, errors.As(err, &derr))
		assert.Equal(t, "NOT_A_SETTLEMENT", derr.Code)
	})
}

func TestInstallmentService_DeletePayment(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	installments := new(MockInstallmentRepository)
	entries := new(MockLedgerEntryRepository)
	causes := new(MockCauseCodeRepository)
	service := NewInstallmentService(installments, entries, causes, fakeUnitOfWork{})

	inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
	settlement := newSettlementEntry(t, tenantID, inst.ID, "400.00", accounting.MovementInflow)

	entries.On("FindByID", ctx, settlement.ID).Return(&settlement, nil)
	entries.On("Delete", ctx, settlement.ID).Return(nil)

	require.NoError(t, service.DeletePayment(ctx, settlement.ID))
	entries.AssertExpectations(t)
}

func TestInstallmentService_ListOpen(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	installments := new(MockInstallmentRepository)
	entries := new(MockLedgerEntryRepository)
	causes := new(MockCauseCodeRepository)
	service := NewInstallmentService(installments, entries, causes, fakeUnitOfWork{})

	inst := newOpenInstallment(t, tenantID, "1000.00", accounting.DirectionReceivable)
	asOf := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	receivable := accounting.DirectionReceivable

	installments.On("FindOpenAsOf", ctx, asOf, &receivable).Return([]accounting.OpenInstallment{
		{
			Installment: *inst,
			Allocated:   decimal.RequireFromString("400.00"),
			Residual:    decimal.RequireFromString("600.00"),
		},
	}, nil)

	open, err := service.ListOpen(ctx, asOf, "RECEIVABLE")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.True(t, open[0].Residual.Equal(decimal.RequireFromString("600.00")))
	assert.False(t, open[0].Settled)
}
