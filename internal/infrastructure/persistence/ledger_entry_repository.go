package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormLedgerEntryRepository implements LedgerEntryRepository using GORM
type GormLedgerEntryRepository struct {
	db *gorm.DB
}

// NewGormLedgerEntryRepository creates a new GormLedgerEntryRepository
func NewGormLedgerEntryRepository(db *gorm.DB) *GormLedgerEntryRepository {
	return &GormLedgerEntryRepository{db: db}
}

// FindByID finds a ledger entry within the active tenant
func (r *GormLedgerEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.LedgerEntry, error) {
	var model models.LedgerEntryModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists ledger entries matching the filter
func (r *GormLedgerEntryRepository) FindAll(ctx context.Context, filter accounting.LedgerEntryFilter) ([]accounting.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.LedgerEntryModel{}), filter, true)

	if err := query.Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]accounting.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// Count counts ledger entries matching the filter
func (r *GormLedgerEntryRepository) Count(ctx context.Context, filter accounting.LedgerEntryFilter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.LedgerEntryModel{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByInstallment lists the settlement entries linked to an installment
func (r *GormLedgerEntryRepository) FindByInstallment(ctx context.Context, installmentID uuid.UUID) ([]accounting.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := conn(ctx, r.db).
		Where("installment_id = ?", installmentID).
		Order("date ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]accounting.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// FindByTransferGroup lists both legs of a transfer group
func (r *GormLedgerEntryRepository) FindByTransferGroup(ctx context.Context, groupID uuid.UUID) ([]accounting.LedgerEntry, error) {
	var entryModels []models.LedgerEntryModel
	if err := conn(ctx, r.db).
		Where("transfer_group_id = ?", groupID).
		Order("created_at ASC").
		Find(&entryModels).Error; err != nil {
		return nil, err
	}

	entries := make([]accounting.LedgerEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = *entryModels[i].ToDomain()
	}
	return entries, nil
}

// Save creates or updates a ledger entry
func (r *GormLedgerEntryRepository) Save(ctx context.Context, entry *accounting.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	return conn(ctx, r.db).Save(model).Error
}

// SaveAll persists several entries together (transfer legs)
func (r *GormLedgerEntryRepository) SaveAll(ctx context.Context, entries []*accounting.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	entryModels := make([]*models.LedgerEntryModel, len(entries))
	for i, e := range entries {
		entryModels[i] = models.LedgerEntryModelFromDomain(e)
	}
	return conn(ctx, r.db).Save(entryModels).Error
}

// SaveWithLock saves an entry with optimistic locking (version check)
func (r *GormLedgerEntryRepository) SaveWithLock(ctx context.Context, entry *accounting.LedgerEntry) error {
	model := models.LedgerEntryModelFromDomain(entry)
	result := conn(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", entry.ID, entry.Version-1).
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

// Delete removes a ledger entry
func (r *GormLedgerEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.LedgerEntryModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteByTransferGroup removes both legs of a transfer together
func (r *GormLedgerEntryRepository) DeleteByTransferGroup(ctx context.Context, groupID uuid.UUID) error {
	result := conn(ctx, r.db).Delete(&models.LedgerEntryModel{}, "transfer_group_id = ?", groupID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormLedgerEntryRepository) applyFilter(query *gorm.DB, filter accounting.LedgerEntryFilter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR job_site_ref ILIKE ?", pattern, pattern)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
	}
	if filter.Movement != nil {
		query = query.Where("movement = ?", *filter.Movement)
	}
	if filter.CauseCodeID != nil {
		query = query.Where("cause_code_id = ?", *filter.CauseCodeID)
	}
	if filter.FinancialAccountID != nil {
		query = query.Where("financial_account_id = ?", *filter.FinancialAccountID)
	}
	if filter.OperatingAccountID != nil {
		query = query.Where("operating_account_id = ?", *filter.OperatingAccountID)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.JobSiteRef != nil {
		query = query.Where("job_site_ref = ?", *filter.JobSiteRef)
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
		query = query.Order("date DESC, created_at DESC")
	}
	return query
}

// Ensure GormLedgerEntryRepository implements LedgerEntryRepository
var _ accounting.LedgerEntryRepository = (*GormLedgerEntryRepository)(nil)
