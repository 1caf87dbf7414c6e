package registry

import (
	"context"
	"fmt"

	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CounterpartyService handles counterparty business operations. Identifier
// uniqueness is checked on the normalized form, scoped to the active tenant;
// the same VAT number may exist under different tenants.
type CounterpartyService struct {
	counterparties registry.CounterpartyRepository
}

// NewCounterpartyService creates a new CounterpartyService
func NewCounterpartyService(counterparties registry.CounterpartyRepository) *CounterpartyService {
	return &CounterpartyService{counterparties: counterparties}
}

// checkIdentifierUniqueness collects a conflict per identifier so a record
// clashing on both comes back with both problems at once. The error message
// names the existing record.
func (s *CounterpartyService) checkIdentifierUniqueness(ctx context.Context, vatNumber, fiscalCode string, excludeID uuid.UUID) error {
	var verr shared.ValidationErrors

	if vatNumber != "" {
		existing, err := s.counterparties.FindByVATNumber(ctx, vatNumber, excludeID)
		if err != nil {
			return err
		}
		if existing != nil {
			verr.Add("vat_number", "DUPLICATE_IDENTIFIER",
				fmt.Sprintf("VAT number %s is already used by %q", vatNumber, existing.Name))
		}
	}
	if fiscalCode != "" {
		existing, err := s.counterparties.FindByFiscalCode(ctx, fiscalCode, excludeID)
		if err != nil {
			return err
		}
		if existing != nil {
			verr.Add("fiscal_code", "DUPLICATE_IDENTIFIER",
				fmt.Sprintf("Fiscal code %s is already used by %q", fiscalCode, existing.Name))
		}
	}
	return verr.ErrOrNil()
}

// Create creates a new counterparty
func (s *CounterpartyService) Create(ctx context.Context, tenantID uuid.UUID, req CreateCounterpartyRequest) (*CounterpartyResponse, error) {
	counterparty, err := registry.NewCounterparty(tenantID, registry.CounterpartyKind(req.Kind), req.Name, req.VATNumber, req.FiscalCode)
	if err != nil {
		return nil, err
	}

	// Uniqueness runs on the normalized identifiers the aggregate stored
	if err := s.checkIdentifierUniqueness(ctx, counterparty.VATNumber, counterparty.FiscalCode, uuid.Nil); err != nil {
		return nil, err
	}

	if req.Address != "" || req.City != "" || req.PostalCode != "" || req.Province != "" {
		counterparty.SetAddress(req.Address, req.City, req.PostalCode, req.Province)
	}

	if err := s.counterparties.Save(ctx, counterparty); err != nil {
		return nil, err
	}

	response := ToCounterpartyResponse(counterparty)
	return &response, nil
}

// Update updates an existing counterparty, excluding it from its own
// uniqueness check so re-saving an unchanged record never conflicts with
// itself
func (s *CounterpartyService) Update(ctx context.Context, id uuid.UUID, req UpdateCounterpartyRequest) (*CounterpartyResponse, error) {
	counterparty, err := s.counterparties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := counterparty.Update(registry.CounterpartyKind(req.Kind), req.Name, req.VATNumber, req.FiscalCode); err != nil {
		return nil, err
	}

	if err := s.checkIdentifierUniqueness(ctx, counterparty.VATNumber, counterparty.FiscalCode, counterparty.ID); err != nil {
		return nil, err
	}

	counterparty.SetAddress(req.Address, req.City, req.PostalCode, req.Province)

	if err := s.counterparties.SaveWithLock(ctx, counterparty); err != nil {
		return nil, err
	}

	response := ToCounterpartyResponse(counterparty)
	return &response, nil
}

// GetByID retrieves a counterparty by ID
func (s *CounterpartyService) GetByID(ctx context.Context, id uuid.UUID) (*CounterpartyResponse, error) {
	counterparty, err := s.counterparties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	response := ToCounterpartyResponse(counterparty)
	return &response, nil
}

// List retrieves counterparties with filtering and pagination
func (s *CounterpartyService) List(ctx context.Context, filter CounterpartyListFilter) ([]CounterpartyResponse, int64, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "asc"
	}

	domainFilter := registry.CounterpartyFilter{
		Filter: shared.Filter{
			Search:   filter.Search,
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
		},
		Active: filter.Active,
	}
	if filter.Kind != "" {
		kind := registry.CounterpartyKind(filter.Kind)
		domainFilter.Kind = &kind
	}

	counterparties, err := s.counterparties.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.counterparties.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]CounterpartyResponse, len(counterparties))
	for i := range counterparties {
		responses[i] = ToCounterpartyResponse(&counterparties[i])
	}
	return responses, total, nil
}

// Deactivate hides a counterparty from future use
func (s *CounterpartyService) Deactivate(ctx context.Context, id uuid.UUID) error {
	counterparty, err := s.counterparties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := counterparty.Deactivate(); err != nil {
		return err
	}
	return s.counterparties.SaveWithLock(ctx, counterparty)
}
