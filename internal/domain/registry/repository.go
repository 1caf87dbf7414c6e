package registry

import (
	"context"

	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyFilter defines filtering options for counterparty list queries
type CounterpartyFilter struct {
	shared.Filter
	Kind   *CounterpartyKind
	Active *bool
}

// CounterpartyRepository defines the interface for counterparty persistence.
// All lookups run under the ambient tenant scope; cross-tenant rows are
// simply invisible.
type CounterpartyRepository interface {
	// FindByID finds a counterparty by ID within the active tenant
	FindByID(ctx context.Context, id uuid.UUID) (*Counterparty, error)

	// FindAll lists counterparties with filtering
	FindAll(ctx context.Context, filter CounterpartyFilter) ([]Counterparty, error)

	// Count counts counterparties matching a filter
	Count(ctx context.Context, filter CounterpartyFilter) (int64, error)

	// FindByVATNumber finds a counterparty by normalized VAT number,
	// excluding the given ID (uuid.Nil to exclude nothing)
	FindByVATNumber(ctx context.Context, vatNumber string, excludeID uuid.UUID) (*Counterparty, error)

	// FindByFiscalCode finds a counterparty by normalized fiscal code,
	// excluding the given ID (uuid.Nil to exclude nothing)
	FindByFiscalCode(ctx context.Context, fiscalCode string, excludeID uuid.UUID) (*Counterparty, error)

	// Save creates or updates a counterparty
	Save(ctx context.Context, counterparty *Counterparty) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, counterparty *Counterparty) error
}
