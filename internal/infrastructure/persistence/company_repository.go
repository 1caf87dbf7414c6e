package persistence

import (
	"context"
	"errors"

	"github.com/gestionale/backend/internal/domain/company"
	"github.com/gestionale/backend/internal/domain/shared"
	"github.com/gestionale/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCompanyRepository implements company.Repository using GORM. Companies
// carry no tenant column, so the scoping callbacks leave these queries alone;
// they run during tenant resolution, before any tenant is active.
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by ID
func (r *GormCompanyRepository) FindByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var model models.CompanyModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActiveByID finds a company by ID, only if active
func (r *GormCompanyRepository) FindActiveByID(ctx context.Context, id uuid.UUID) (*company.Company, error) {
	var model models.CompanyModel
	if err := conn(ctx, r.db).First(&model, "id = ? AND active = ?", id, true).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists all companies
func (r *GormCompanyRepository) FindAll(ctx context.Context) ([]company.Company, error) {
	var companyModels []models.CompanyModel
	if err := conn(ctx, r.db).Order("name ASC").Find(&companyModels).Error; err != nil {
		return nil, err
	}

	companies := make([]company.Company, len(companyModels))
	for i := range companyModels {
		companies[i] = *companyModels[i].ToDomain()
	}
	return companies, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *company.Company) error {
	model := models.CompanyModelFromDomain(c)
	return conn(ctx, r.db).Save(model).Error
}

// Ensure GormCompanyRepository implements company.Repository
var _ company.Repository = (*GormCompanyRepository)(nil)
