package persistence

import (
	"context"
	"errors"

	"github.com/gestionale/backend/internal/domain/accounting"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormFinancialAccountRepository implements FinancialAccountRepository using GORM
type GormFinancialAccountRepository struct {
	db *gorm.DB
}

// NewGormFinancialAccountRepository creates a new GormFinancialAccountRepository
func NewGormFinancialAccountRepository(db *gorm.DB) *GormFinancialAccountRepository {
	return &GormFinancialAccountRepository{db: db}
}

// FindByID finds a financial account within the active tenant
func (r *GormFinancialAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.FinancialAccount, error) {
	var model models.FinancialAccountModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists financial accounts, optionally only active ones
func (r *GormFinancialAccountRepository) FindAll(ctx context.Context, activeOnly bool) ([]accounting.FinancialAccount, error) {
	var accountModels []models.FinancialAccountModel
	query := conn(ctx, r.db).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]accounting.FinancialAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates a financial account
func (r *GormFinancialAccountRepository) Save(ctx context.Context, account *accounting.FinancialAccount) error {
	model := models.FinancialAccountModelFromDomain(account)
	return conn(ctx, r.db).Save(model).Error
}

// Ensure GormFinancialAccountRepository implements FinancialAccountRepository
var _ accounting.FinancialAccountRepository = (*GormFinancialAccountRepository)(nil)

// GormOperatingAccountRepository implements OperatingAccountRepository using GORM
type GormOperatingAccountRepository struct {
	db *gorm.DB
}

// NewGormOperatingAccountRepository creates a new GormOperatingAccountRepository
func NewGormOperatingAccountRepository(db *gorm.DB) *GormOperatingAccountRepository {
	return &GormOperatingAccountRepository{db: db}
}

// FindByID finds an operating account within the active tenant
func (r *GormOperatingAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.OperatingAccount, error) {
	var model models.OperatingAccountModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists operating accounts, optionally only active ones
func (r *GormOperatingAccountRepository) FindAll(ctx context.Context, activeOnly bool) ([]accounting.OperatingAccount, error) {
	var accountModels []models.OperatingAccountModel
	query := conn(ctx, r.db).Order("name ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&accountModels).Error; err != nil {
		return nil, err
	}

	accounts := make([]accounting.OperatingAccount, len(accountModels))
	for i := range accountModels {
		accounts[i] = *accountModels[i].ToDomain()
	}
	return accounts, nil
}

// Save creates or updates an operating account
func (r *GormOperatingAccountRepository) Save(ctx context.Context, account *accounting.OperatingAccount) error {
	model := models.OperatingAccountModelFromDomain(account)
	return conn(ctx, r.db).Save(model).Error
}

// Ensure GormOperatingAccountRepository implements OperatingAccountRepository
var _ accounting.OperatingAccountRepository = (*GormOperatingAccountRepository)(nil)
