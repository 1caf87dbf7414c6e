package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormInstallmentRepository implements InstallmentRepository using GORM
type GormInstallmentRepository struct {
	db *gorm.DB
}

// NewGormInstallmentRepository creates a new GormInstallmentRepository
func NewGormInstallmentRepository(db *gorm.DB) *GormInstallmentRepository {
	return &GormInstallmentRepository{db: db}
}

// FindByID finds an installment within the active tenant
func (r *GormInstallmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Installment, error) {
	var model models.InstallmentModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists installments matching the filter
func (r *GormInstallmentRepository) FindAll(ctx context.Context, filter accounting.InstallmentFilter) ([]accounting.Installment, error) {
	var installmentModels []models.InstallmentModel
	query := conn(ctx, r.db).Model(&models.InstallmentModel{})

	if filter.Direction != nil {
		query = query.Where("direction = ?", *filter.Direction)
	}
	if filter.DueFrom != nil {
		query = query.Where("due_date >= ?", *filter.DueFrom)
	}
	if filter.DueTo != nil {
		query = query.Where("due_date <= ?", *filter.DueTo)
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
		query = query.Order("due_date ASC")
	}

	if err := query.Find(&installmentModels).Error; err != nil {
		return nil, err
	}

	installments := make([]accounting.Installment, len(installmentModels))
	for i := range installmentModels {
		installments[i] = *installmentModels[i].ToDomain()
	}
	return installments, nil
}

// FindByDocument lists the installments generated from a document
func (r *GormInstallmentRepository) FindByDocument(ctx context.Context, documentID uuid.UUID) ([]accounting.Installment, error) {
	var installmentModels []models.InstallmentModel
	if err := conn(ctx, r.db).
		Where("document_id = ?", documentID).
		Order("due_date ASC").
		Find(&installmentModels).Error; err != nil {
		return nil, err
	}

	installments := make([]accounting.Installment, len(installmentModels))
	for i := range installmentModels {
		installments[i] = *installmentModels[i].ToDomain()
	}
	return installments, nil
}

// openInstallmentRow carries an installment joined with its derived
// allocation total
type openInstallmentRow struct {
	models.InstallmentModel
	Allocated decimal.Decimal
}

// FindOpenAsOf lists installments due up to the given date whose residual is
// still positive. Allocation is derived in the query by summing the linked
// settlement entries, so a deleted payment reopens its installment here with
// no bookkeeping.
func (r *GormInstallmentRepository) FindOpenAsOf(ctx context.Context, asOf time.Time, direction *accounting.Direction) ([]accounting.OpenInstallment, error) {
	var rows []openInstallmentRow
	query := conn(ctx, r.db).
		Model(&models.InstallmentModel{}).
		Select("installments.*, COALESCE(SUM(ledger_entries.amount), 0) AS allocated").
		Joins("LEFT JOIN ledger_entries ON ledger_entries.installment_id = installments.id AND ledger_entries.tenant_id = installments.tenant_id").
		Where("installments.due_date <= ?", asOf).
		Group("installments.id").
		Having("installments.amount - COALESCE(SUM(ledger_entries.amount), 0) > 0").
		Order("installments.due_date ASC")

	if direction != nil {
		query = query.Where("installments.direction = ?", *direction)
	}

	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	open := make([]accounting.OpenInstallment, len(rows))
	for i := range rows {
		inst := rows[i].InstallmentModel.ToDomain()
		open[i] = accounting.OpenInstallment{
			Installment: *inst,
			Allocated:   rows[i].Allocated,
			Residual:    inst.Amount.Sub(rows[i].Allocated),
		}
	}
	return open, nil
}

// Save creates or updates an installment
func (r *GormInstallmentRepository) Save(ctx context.Context, installment *accounting.Installment) error {
	model := models.InstallmentModelFromDomain(installment)
	return conn(ctx, r.db).Save(model).Error
}

// SaveAll persists a batch of installments together
func (r *GormInstallmentRepository) SaveAll(ctx context.Context, installments []*accounting.Installment) error {
	if len(installments) == 0 {
		return nil
	}
	installmentModels := make([]*models.InstallmentModel, len(installments))
	for i, inst := range installments {
		installmentModels[i] = models.InstallmentModelFromDomain(inst)
	}
	return conn(ctx, r.db).Save(installmentModels).Error
}

// SaveWithLock saves an installment with optimistic locking (version check).
// Returns an error if the version has changed under a concurrent writer.
func (r *GormInstallmentRepository) SaveWithLock(ctx context.Context, installment *accounting.Installment) error {
	model := models.InstallmentModelFromDomain(installment)
	result := conn(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", installment.ID, installment.Version-1).
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

// Ensure GormInstallmentRepository implements InstallmentRepository
var _ accounting.InstallmentRepository = (*GormInstallmentRepository)(nil)
