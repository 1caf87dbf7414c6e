package registry

import (
	"context"
	"errors"
	"testing"

	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockCounterpartyRepository is a mock implementation of CounterpartyRepository
type MockCounterpartyRepository struct {
	mock.Mock
}

func (m *MockCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Counterparty, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) FindAll(ctx context.Context, filter registry.CounterpartyFilter) ([]registry.Counterparty, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]registry.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) Count(ctx context.Context, filter registry.CounterpartyFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCounterpartyRepository) FindByVATNumber(ctx context.Context, vatNumber string, excludeID uuid.UUID) (*registry.Counterparty, error) {
	args := m.Called(ctx, vatNumber, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) FindByFiscalCode(ctx context.Context, fiscalCode string, excludeID uuid.UUID) (*registry.Counterparty, error) {
	args := m.Called(ctx, fiscalCode, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Counterparty), args.Error(1)
}

func (m *MockCounterpartyRepository) Save(ctx context.Context, counterparty *registry.Counterparty) error {
	args := m.Called(ctx, counterparty)
	return args.Error(0)
}

func (m *MockCounterpartyRepository) SaveWithLock(ctx context.Context, counterparty *registry.Counterparty) error {
	args := m.Called(ctx, counterparty)
	return args.Error(0)
}

func newExistingCounterparty(t *testing.T, name, vat, fiscal string) *registry.Counterparty {
	t.Helper()
	c, err := registry.NewCounterparty(uuid.New(), registry.KindSupplier, name, vat, fiscal)
	require.NoError(t, err)
	return c
}

func TestCounterpartyService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates with normalized identifiers", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		service := NewCounterpartyService(repo)

		// The lookup must receive the normalized VAT number, not the raw input
		repo.On("FindByVATNumber", ctx, "01234567890", uuid.Nil).Return(nil, nil)
		repo.On("FindByFiscalCode", ctx, "RSSMRA80A01H501U", uuid.Nil).Return(nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*registry.Counterparty")).Return(nil)

		resp, err := service.Create(ctx, tenantID, CreateCounterpartyRequest{
			Kind:       "SUPPLIER",
			Name:       "Rossi Costruzioni Srl",
			VATNumber:  "IT 01234567890",
			FiscalCode: "rssmra80a01h501u",
		})
		require.NoError(t, err)
		assert.Equal(t, "01234567890", resp.VATNumber)
		assert.Equal(t, "RSSMRA80A01H501U", resp.FiscalCode)
		assert.Equal(t, tenantID, resp.TenantID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects both duplicate identifiers together", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		service := NewCounterpartyService(repo)

		existing := newExistingCounterparty(t, "Bianchi Spa", "01234567890", "RSSMRA80A01H501U")
		repo.On("FindByVATNumber", ctx, "01234567890", uuid.Nil).Return(existing, nil)
		repo.On("FindByFiscalCode", ctx, "RSSMRA80A01H501U", uuid.Nil).Return(existing, nil)

		_, err := service.Create(ctx, tenantID, CreateCounterpartyRequest{
			Kind:       "SUPPLIER",
			Name:       "Rossi Costruzioni Srl",
			VATNumber:  "01234567890",
			FiscalCode: "RSSMRA80A01H501U",
		})
		require.Error(t, err)

		var verr shared.ValidationErrors
		require.True(t, errors.As(err, &verr))
		require.Len(t, verr, 2)
		assert.Equal(t, "vat_number", verr[0].Field)
		assert.Contains(t, verr[0].Message, "Bianchi Spa", "the error names the conflicting record")
		assert.Equal(t, "fiscal_code", verr[1].Field)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("skips lookups for empty identifiers", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		service := NewCounterpartyService(repo)

		repo.On("FindByVATNumber", ctx, "01234567890", uuid.Nil).Return(nil, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*registry.Counterparty")).Return(nil)

		_, err := service.Create(ctx, tenantID, CreateCounterpartyRequest{
			Kind:      "CUSTOMER",
			Name:      "Verdi Snc",
			VATNumber: "01234567890",
		})
		require.NoError(t, err)
		repo.AssertNotCalled(t, "FindByFiscalCode", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCounterpartyService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes itself from the uniqueness check", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		service := NewCounterpartyService(repo)

		existing := newExistingCounterparty(t, "Rossi Costruzioni Srl", "01234567890", "")
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("FindByVATNumber", ctx, "01234567890", existing.ID).Return(nil, nil)
		repo.On("SaveWithLock", ctx, existing).Return(nil)

		resp, err := service.Update(ctx, existing.ID, UpdateCounterpartyRequest{
			Kind:      "SUPPLIER",
			Name:      "Rossi Costruzioni Srl",
			VATNumber: "01234567890",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Version)
		repo.AssertExpectations(t)
	})

	t.Run("bumps the version exactly once with address changes", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		service := NewCounterpartyService(repo)

		existing := newExistingCounterparty(t, "Rossi Costruzioni Srl", "01234567890", "")
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("FindByVATNumber", ctx, "01234567890", existing.ID).Return(nil, nil)
		repo.On("SaveWithLock", ctx, mock.MatchedBy(func(c *registry.Counterparty) bool {
			// SaveWithLock matches the stored row on Version-1, so a double
			// bump here would turn every update into a phantom conflict
			return c.Version == 2
		})).Return(nil)

		resp, err := service.Update(ctx, existing.ID, UpdateCounterpartyRequest{
			Kind:      "SUPPLIER",
			Name:      "Rossi Costruzioni Srl",
			VATNumber: "01234567890",
			Address:   "Via Roma 1",
			City:      "Milano",
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Version)
		assert.Equal(t, "Via Roma 1", resp.Address)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a VAT number taken by another record", func(t *testing.T) {
		repo := new(MockCounterpartyRepository)
		service := NewCounterpartyService(repo)

		existing := newExistingCounterparty(t, "Rossi Costruzioni Srl", "01234567890", "")
		other := newExistingCounterparty(t, "Bianchi Spa", "09876543210", "")
		repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
		repo.On("FindByVATNumber", ctx, "09876543210", existing.ID).Return(other, nil)

		_, err := service.Update(ctx, existing.ID, UpdateCounterpartyRequest{
			Kind:      "SUPPLIER",
			Name:      "Rossi Costruzioni Srl",
			VATNumber: "09876543210",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Bianchi Spa")
		repo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})
}

func TestCounterpartyService_Deactivate(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCounterpartyRepository)
	service := NewCounterpartyService(repo)

	existing := newExistingCounterparty(t, "Rossi Costruzioni Srl", "01234567890", "")
	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("SaveWithLock", ctx, existing).Return(nil)

	require.NoError(t, service.Deactivate(ctx, existing.ID))
	assert.False(t, existing.Active)

	// A second deactivation fails in the domain before any save
	require.Error(t, service.Deactivate(ctx, existing.ID))
	repo.AssertNumberOfCalls(t, "SaveWithLock", 1)
}
