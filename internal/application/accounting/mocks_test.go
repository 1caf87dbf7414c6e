package accounting

import (
	"context"
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeUnitOfWork runs the function directly; transactional semantics are the
// storage layer's concern
type fakeUnitOfWork struct{}

func (fakeUnitOfWork) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// MockDocumentRepository is a mock implementation of DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, filter accounting.DocumentFilter) ([]accounting.Document, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]accounting.Document), args.Error(1)
}

func (m *MockDocumentRepository) Count(ctx context.Context, filter accounting.DocumentFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) FindDuplicate(ctx context.Context, counterpartyID uuid.UUID, docType accounting.DocumentType, supplierDocumentNumber string, excludeID uuid.UUID) (*accounting.Document, error) {
	args := m.Called(ctx, counterpartyID, docType, supplierDocumentNumber, excludeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Document), args.Error(1)
}

func (m *MockDocumentRepository) Save(ctx context.Context, document *accounting.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockDocumentRepository) SaveWithLock(ctx context.Context, document *accounting.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

// MockInstallmentRepository is a mock implementation of InstallmentRepository
type MockInstallmentRepository struct {
	mock.Mock
}

func (m *MockInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Installment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindAll(ctx context.Context, filter accounting.InstallmentFilter) ([]accounting.Installment, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]accounting.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]accounting.Installment, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).([]accounting.Installment), args.Error(1)
}

func (m *MockInstallmentRepository) FindOpenAsOf(ctx context.Context, asOf time.Time, direction *accounting.Direction) ([]accounting.OpenInstallment, error) {
	args := m.Called(ctx, asOf, direction)
	return args.Get(0).([]accounting.OpenInstallment), args.Error(1)
}

func (m *MockInstallmentRepository) Save(ctx context.Context, installment *accounting.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

func (m *MockInstallmentRepository) SaveAll(ctx context.Context, installments []*accounting.Installment) error {
	args := m.Called(ctx, installments)
	return args.Error(0)
}

func (m *MockInstallmentRepository) SaveWithLock(ctx context.Context, installment *accounting.Installment) error {
	args := m.Called(ctx, installment)
	return args.Error(0)
}

// MockLedgerEntryRepository is a mock implementation of LedgerEntryRepository
type MockLedgerEntryRepository struct {
	mock.Mock
}

func (m *MockLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.LedgerEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindAll(ctx context.Context, filter accounting.LedgerEntryFilter) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) Count(ctx context.Context, filter accounting.LedgerEntryFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByInstallment(ctx context.Context, installmentID uuid.UUID) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, installmentID)
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) FindByTransferGroup(ctx context.Context, groupID uuid.UUID) ([]accounting.LedgerEntry, error) {
	args := m.Called(ctx, groupID)
	return args.Get(0).([]accounting.LedgerEntry), args.Error(1)
}

func (m *MockLedgerEntryRepository) Save(ctx context.Context, entry *accounting.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) SaveAll(ctx context.Context, entries []*accounting.LedgerEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) SaveWithLock(ctx context.Context, entry *accounting.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockLedgerEntryRepository) DeleteByTransferGroup(ctx context.Context, groupID uuid.UUID) error {
	args := m.Called(ctx, groupID)
	return args.Error(0)
}

// MockFinancialAccountRepository is a mock implementation of FinancialAccountRepository
type MockFinancialAccountRepository struct {
	mock.Mock
}

func (m *MockFinancialAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FinancialAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.FinancialAccount), args.Error(1)
}

func (m *MockFinancialAccountRepository) FindAll(ctx context.Context, activeOnly bool) ([]accounting.FinancialAccount, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]accounting.FinancialAccount), args.Error(1)
}

func (m *MockFinancialAccountRepository) Save(ctx context.Context, account *accounting.FinancialAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockOperatingAccountRepository is a mock implementation of OperatingAccountRepository
type MockOperatingAccountRepository struct {
	mock.Mock
}

func (m *MockOperatingAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.OperatingAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.OperatingAccount), args.Error(1)
}

func (m *MockOperatingAccountRepository) FindAll(ctx context.Context, activeOnly bool) ([]accounting.OperatingAccount, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]accounting.OperatingAccount), args.Error(1)
}

func (m *MockOperatingAccountRepository) Save(ctx context.Context, account *accounting.OperatingAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockCauseCodeRepository is a mock implementation of CauseCodeRepository
type MockCauseCodeRepository struct {
	mock.Mock
}

func (m *MockCauseCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.CauseCode, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.CauseCode), args.Error(1)
}

func (m *MockCauseCodeRepository) FindByCode(ctx context.Context, code string) (*accounting.CauseCode, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*accounting.CauseCode), args.Error(1)
}

func (m *MockCauseCodeRepository) FindAll(ctx context.Context, activeOnly bool) ([]accounting.CauseCode, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]accounting.CauseCode), args.Error(1)
}

func (m *MockCauseCodeRepository) Save(ctx context.Context, cause *accounting.CauseCode) error {
	args := m.Called(ctx, cause)
	return args.Error(0)
}

// MockCounterpartyRepository is a mock implementation of the registry
// CounterpartyRepository
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
