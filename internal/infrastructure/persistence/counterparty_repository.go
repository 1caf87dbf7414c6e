package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gestionale/backend/internal/domain/registry"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCounterpartyRepository implements CounterpartyRepository using GORM
type GormCounterpartyRepository struct {
	db *gorm.DB
}

// NewGormCounterpartyRepository creates a new GormCounterpartyRepository
func NewGormCounterpartyRepository(db *gorm.DB) *GormCounterpartyRepository {
	return &GormCounterpartyRepository{db: db}
}

// FindByID finds a counterparty by its ID within the active tenant
func (r *GormCounterpartyRepository) FindByID(ctx context.Context, id uuid.UUID) (*registry.Counterparty, error) {
	var model models.CounterpartyModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists counterparties matching the filter
func (r *GormCounterpartyRepository) FindAll(ctx context.Context, filter registry.CounterpartyFilter) ([]registry.Counterparty, error) {
	var counterpartyModels []models.CounterpartyModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.CounterpartyModel{}), filter, true)

	if err := query.Find(&counterpartyModels).Error; err != nil {
		return nil, err
	}

	counterparties := make([]registry.Counterparty, len(counterpartyModels))
	for i := range counterpartyModels {
		counterparties[i] = *counterpartyModels[i].ToDomain()
	}
	return counterparties, nil
}

// Count counts counterparties matching the filter
func (r *GormCounterpartyRepository) Count(ctx context.Context, filter registry.CounterpartyFilter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.CounterpartyModel{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByVATNumber finds a counterparty by normalized VAT number, excluding the
// given ID. Returns nil when no record matches.
func (r *GormCounterpartyRepository) FindByVATNumber(ctx context.Context, vatNumber string, excludeID uuid.UUID) (*registry.Counterparty, error) {
	return r.findByIdentifier(ctx, "vat_number", vatNumber, excludeID)
}

// FindByFiscalCode finds a counterparty by normalized fiscal code, excluding
// the given ID. Returns nil when no record matches.
func (r *GormCounterpartyRepository) FindByFiscalCode(ctx context.Context, fiscalCode string, excludeID uuid.UUID) (*registry.Counterparty, error) {
	return r.findByIdentifier(ctx, "fiscal_code", fiscalCode, excludeID)
}

func (r *GormCounterpartyRepository) findByIdentifier(ctx context.Context, column, value string, excludeID uuid.UUID) (*registry.Counterparty, error) {
	var model models.CounterpartyModel
	query := conn(ctx, r.db).Where(column+" = ?", value)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a counterparty
func (r *GormCounterpartyRepository) Save(ctx context.Context, counterparty *registry.Counterparty) error {
	model := models.CounterpartyModelFromDomain(counterparty)
	return conn(ctx, r.db).Save(model).Error
}

// SaveWithLock saves a counterparty with optimistic locking (version check).
// Returns an error if the version has changed under a concurrent writer.
func (r *GormCounterpartyRepository) SaveWithLock(ctx context.Context, counterparty *registry.Counterparty) error {
	model := models.CounterpartyModelFromDomain(counterparty)
	result := conn(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", counterparty.ID, counterparty.Version-1).
		Select("*").Omit("created_at").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormCounterpartyRepository) applyFilter(query *gorm.DB, filter registry.CounterpartyFilter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR vat_number ILIKE ? OR fiscal_code ILIKE ?", pattern, pattern, pattern)
	}
	if filter.Kind != nil {
		query = query.Where("kind = ?", *filter.Kind)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}

	if !paginate {
		return query
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	if filter.OrderBy != "" {
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + dir)
	} else {
		query = query.Order("name ASC")
	}
	return query
}

// Ensure GormCounterpartyRepository implements CounterpartyRepository
var _ registry.CounterpartyRepository = (*GormCounterpartyRepository)(nil)
