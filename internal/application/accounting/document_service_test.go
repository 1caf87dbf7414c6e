package accounting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDocumentService() (*DocumentService, *MockDocumentRepository, *MockInstallmentRepository, *MockCounterpartyRepository) {
	documents := new(MockDocumentRepository)
	installments := new(MockInstallmentRepository)
	counterparties := new(MockCounterpartyRepository)
	return NewDocumentService(documents, installments, counterparties, fakeUnitOfWork{}), documents, installments, counterparties
}

func supplier(t *testing.T, tenantID uuid.UUID, name string) *registry.Counterparty {
	t.Helper()
	c, err := registry.NewCounterparty(tenantID, registry.KindSupplier, name, "01234567890", "")
	require.NoError(t, err)
	return c
}

func purchaseRequest(counterpartyID uuid.UUID) RegisterDocumentRequest {
	return RegisterDocumentRequest{
		Number:                 "PA-2026-0001",
		Type:                   "PURCHASE_INVOICE",
		CounterpartyID:         counterpartyID,
		Date:                   time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		SupplierDocumentNumber: "123",
		Installments:           3,
		IntervalDays:           30,
		Lines: []DocumentLineRequest{
			{Description: "supplies", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("100.00"), TaxRate: decimal.Zero},
		},
	}
}

func TestDocumentService_Register(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("registers a document and generates its installments", func(t *testing.T) {
		service, documents, installments, counterparties := newDocumentService()
		cp := supplier(t, tenantID, "Rossi Costruzioni Srl")

		counterparties.On("FindByID", ctx, cp.ID).Return(cp, nil)
		documents.On("FindDuplicate", ctx, cp.ID, accounting.DocumentTypePurchaseInvoice, "123", mock.AnythingOfType("uuid.UUID")).Return(nil, nil)
		documents.On("Save", ctx, mock.AnythingOfType("*accounting.Document")).Return(nil)

		var saved []*accounting.Installment
		installments.On("SaveAll", ctx, mock.AnythingOfType("[]*accounting.Installment")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).([]*accounting.Installment)
			}).Return(nil)

		resp, err := service.Register(ctx, tenantID, purchaseRequest(cp.ID))
		require.NoError(t, err)
		assert.Equal(t, "Rossi Costruzioni Srl", resp.CounterpartyName)
		assert.True(t, resp.GrandTotal.Equal(decimal.RequireFromString("100.00")))

		require.Len(t, saved, 3)
		sum := decimal.Zero
		for _, inst := range saved {
			sum = sum.Add(inst.Amount)
			assert.Equal(t, accounting.DirectionPayable, inst.Direction)
		}
		assert.True(t, sum.Equal(decimal.RequireFromString("100.00")), "installments cover the document total")
	})

	t.Run("rejects a duplicate supplier document", func(t *testing.T) {
		service, documents, installments, counterparties := newDocumentService()
		cp := supplier(t, tenantID, "Rossi Costruzioni Srl")

		existing, err := accounting.NewDocument(tenantID, "PA-2025-0099", accounting.DocumentTypePurchaseInvoice,
			cp.ID, cp.Name, time.Now(), "123", accounting.DefaultPaymentTerms())
		require.NoError(t, err)

		counterparties.On("FindByID", ctx, cp.ID).Return(cp, nil)
		documents.On("FindDuplicate", ctx, cp.ID, accounting.DocumentTypePurchaseInvoice, "123", mock.AnythingOfType("uuid.UUID")).Return(existing, nil)

		_, err = service.Register(ctx, tenantID, purchaseRequest(cp.ID))
		require.Error(t, err)

		var verr shared.ValidationErrors
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "supplier_document_number", verr[0].Field)
		assert.Contains(t, verr[0].Message, "Rossi Costruzioni Srl")
		documents.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		installments.AssertNotCalled(t, "SaveAll", mock.Anything, mock.Anything)
	})

	t.Run("rejects a customer on a purchase document", func(t *testing.T) {
		service, _, _, counterparties := newDocumentService()
		customer, err := registry.NewCounterparty(tenantID, registry.KindCustomer, "Cliente Spa", "09876543210", "")
		require.NoError(t, err)

		counterparties.On("FindByID", ctx, customer.ID).Return(customer, nil)

		_, err = service.Register(ctx, tenantID, purchaseRequest(customer.ID))
		require.Error(t, err)

		var verr shared.ValidationErrors
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "WRONG_KIND", verr[0].Code)
	})

	t.Run("rejects a deactivated counterparty", func(t *testing.T) {
		service, _, _, counterparties := newDocumentService()
		cp := supplier(t, tenantID, "Fornitore chiuso")
		require.NoError(t, cp.Deactivate())

		counterparties.On("FindByID", ctx, cp.ID).Return(cp, nil)

		_, err := service.Register(ctx, tenantID, purchaseRequest(cp.ID))
		require.Error(t, err)

		var verr shared.ValidationErrors
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "INACTIVE", verr[0].Code)
	})

	t.Run("defaults to a single installment at 30 days", func(t *testing.T) {
		service, documents, installments, counterparties := newDocumentService()
		cp := supplier(t, tenantID, "Rossi Costruzioni Srl")

		counterparties.On("FindByID", ctx, cp.ID).Return(cp, nil)
		documents.On("FindDuplicate", ctx, cp.ID, accounting.DocumentTypePurchaseInvoice, "123", mock.AnythingOfType("uuid.UUID")).Return(nil, nil)
		documents.On("Save", ctx, mock.AnythingOfType("*accounting.Document")).Return(nil)

		var saved []*accounting.Installment
		installments.On("SaveAll", ctx, mock.AnythingOfType("[]*accounting.Installment")).
			Run(func(args mock.Arguments) {
				saved = args.Get(1).([]*accounting.Installment)
			}).Return(nil)

		req := purchaseRequest(cp.ID)
		req.Installments = 0
		req.IntervalDays = 0

		resp, err := service.Register(ctx, tenantID, req)
		require.NoError(t, err)
		assert.Equal(t, 1, resp.Installments)
		require.Len(t, saved, 1)
		assert.Equal(t, req.Date.AddDate(0, 0, 30), saved[0].DueDate)
	})
}

func TestDocumentService_UpdateHeader(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("re-runs the duplicate guard excluding the document itself", func(t *testing.T) {
		service, documents, _, counterparties := newDocumentService()
		cp := supplier(t, tenantID, "Rossi Costruzioni Srl")

		doc, err := accounting.NewDocument(tenantID, "PA-2026-0001", accounting.DocumentTypePurchaseInvoice,
			cp.ID, cp.Name, time.Now(), "123", accounting.DefaultPaymentTerms())
		require.NoError(t, err)

		documents.On("FindByID", ctx, doc.ID).Return(doc, nil)
		counterparties.On("FindByID", ctx, cp.ID).Return(cp, nil)
		documents.On("FindDuplicate", ctx, cp.ID, accounting.DocumentTypePurchaseInvoice, "124", doc.ID).Return(nil, nil)
		documents.On("SaveWithLock", ctx, doc).Return(nil)

		resp, err := service.UpdateHeader(ctx, doc.ID, UpdateDocumentHeaderRequest{
			CounterpartyID:         cp.ID,
			SupplierDocumentNumber: "124",
		})
		require.NoError(t, err)
		assert.Equal(t, "124", resp.SupplierDocumentNumber)
		assert.Equal(t, 2, resp.Version)
		documents.AssertExpectations(t)
	})

	t.Run("cannot drop the supplier number from a purchase document", func(t *testing.T) {
		service, documents, _, counterparties := newDocumentService()
		cp := supplier(t, tenantID, "Rossi Costruzioni Srl")

		doc, err := accounting.NewDocument(tenantID, "PA-2026-0001", accounting.DocumentTypePurchaseInvoice,
			cp.ID, cp.Name, time.Now(), "123", accounting.DefaultPaymentTerms())
		require.NoError(t, err)

		documents.On("FindByID", ctx, doc.ID).Return(doc, nil)
		counterparties.On("FindByID", ctx, cp.ID).Return(cp, nil)

		_, err = service.UpdateHeader(ctx, doc.ID, UpdateDocumentHeaderRequest{
			CounterpartyID: cp.ID,
		})
		require.Error(t, err)
		documents.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}
