package accounting

import (
	"context"
	"time"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DocumentFilter defines filtering options for document list queries
type DocumentFilter struct {
	shared.Filter
	Type           *DocumentType
	CounterpartyID *uuid.UUID
	FromDate       *time.Time
	ToDate         *time.Time
}

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByID finds a document with its lines within the active tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindAll lists documents with filtering
	FindAll(ctx context.Context, filter DocumentFilter) ([]Document, error)

	// Count counts documents matching a filter
	Count(ctx context.Context, filter DocumentFilter) (int64, error)

	// FindDuplicate finds another document with the same counterparty, type
	// and supplier document number, excluding the given ID. Returns nil when
	// no duplicate exists.
	FindDuplicate(ctx context.Context, counterpartyID uuid.UUID, docType DocumentType, supplierDocumentNumber string, excludeID uuid.UUID) (*Document, error)

	// Save creates or updates a document with its lines
	Save(ctx context.Context, document *Document) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, document *Document) error
}

// InstallmentFilter defines filtering options for installment list queries
type InstallmentFilter struct {
	shared.Filter
	Direction *Direction
	DueFrom   *time.Time
	DueTo     *time.Time
}

// OpenInstallment is an installment joined with its derived allocation state,
// returned by the read-only reporting queries
type OpenInstallment struct {
	Installment Installment
	Allocated   decimal.Decimal
	Residual    decimal.Decimal
}

// InstallmentRepository defines the interface for installment persistence
type InstallmentRepository interface {
	// FindByID finds an installment within the active tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Installment, error)

	// FindAll lists installments with filtering
	FindAll(ctx context.Context, filter InstallmentFilter) ([]Installment, error)

	// FindByDocument lists the installments generated from a document
	FindByDocument(ctx context.Context, documentID uuid.UUID) ([]Installment, error)

	// FindOpenAsOf lists installments due up to the given date whose residual
	// is still positive, with derived allocation totals
	FindOpenAsOf(ctx context.Context, asOf time.Time, direction *Direction) ([]OpenInstallment, error)

	// Save creates or updates an installment
	Save(ctx context.Context, installment *Installment) error

	// SaveAll persists a batch of installments (document registration)
	SaveAll(ctx context.Context, installments []*Installment) error

	// SaveWithLock updates an installment with a version check, returning
	// ErrConcurrencyConflict when another writer got there first
	SaveWithLock(ctx context.Context, installment *Installment) error
}

// LedgerEntryFilter defines filtering options for ledger queries
type LedgerEntryFilter struct {
	shared.Filter
	FromDate           *time.Time
	ToDate             *time.Time
	Movement           *Movement
	CauseCodeID        *uuid.UUID
	FinancialAccountID *uuid.UUID
	OperatingAccountID *uuid.UUID
	CounterpartyID     *uuid.UUID
	JobSiteRef         *string
}

// LedgerEntryRepository defines the interface for prima nota persistence
type LedgerEntryRepository interface {
	// FindByID finds a ledger entry within the active tenant
	FindByID(ctx context.Context, id uuid.UUID) (*LedgerEntry, error)

	// FindAll lists ledger entries with filtering
	FindAll(ctx context.Context, filter LedgerEntryFilter) ([]LedgerEntry, error)

	// Count counts ledger entries matching a filter
	Count(ctx context.Context, filter LedgerEntryFilter) (int64, error)

	// FindByInstallment lists the settlement entries linked to an installment
	FindByInstallment(ctx context.Context, installmentID uuid.UUID) ([]LedgerEntry, error)

	// FindByTransferGroup lists both legs of a transfer group
	FindByTransferGroup(ctx context.Context, groupID uuid.UUID) ([]LedgerEntry, error)

	// Save creates or updates a ledger entry
	Save(ctx context.Context, entry *LedgerEntry) error

	// SaveAll persists several entries together (transfer legs)
	SaveAll(ctx context.Context, entries []*LedgerEntry) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, entry *LedgerEntry) error

	// Delete removes a ledger entry
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteByTransferGroup removes both legs of a transfer together
	DeleteByTransferGroup(ctx context.Context, groupID uuid.UUID) error
}

// FinancialAccountRepository defines the interface for financial account persistence
type FinancialAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*FinancialAccount, error)
	FindAll(ctx context.Context, activeOnly bool) ([]FinancialAccount, error)
	Save(ctx context.Context, account *FinancialAccount) error
}

// OperatingAccountRepository defines the interface for operating account persistence
type OperatingAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OperatingAccount, error)
	FindAll(ctx context.Context, activeOnly bool) ([]OperatingAccount, error)
	Save(ctx context.Context, account *OperatingAccount) error
}

// CauseCodeRepository defines the interface for cause code persistence
type CauseCodeRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CauseCode, error)
	FindByCode(ctx context.Context, code string) (*CauseCode, error)
	FindAll(ctx context.Context, activeOnly bool) ([]CauseCode, error)
	Save(ctx context.Context, cause *CauseCode) error
}
