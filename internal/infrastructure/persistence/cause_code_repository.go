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

// GormCauseCodeRepository implements CauseCodeRepository using GORM
type GormCauseCodeRepository struct {
	db *gorm.DB
}

// NewGormCauseCodeRepository creates a new GormCauseCodeRepository
func NewGormCauseCodeRepository(db *gorm.DB) *GormCauseCodeRepository {
	return &GormCauseCodeRepository{db: db}
}

// FindByID finds a cause code within the active tenant
func (r *GormCauseCodeRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.CauseCode, error) {
	var model models.CauseCodeModel
	if err := conn(ctx, r.db).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a cause code by its code within the active tenant
func (r *GormCauseCodeRepository) FindByCode(ctx context.Context, code string) (*accounting.CauseCode, error) {
	var model models.CauseCodeModel
	if err := conn(ctx, r.db).First(&model, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists cause codes, optionally only active ones
func (r *GormCauseCodeRepository) FindAll(ctx context.Context, activeOnly bool) ([]accounting.CauseCode, error) {
	var causeModels []models.CauseCodeModel
	query := conn(ctx, r.db).Order("code ASC")
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if err := query.Find(&causeModels).Error; err != nil {
		return nil, err
	}

	causes := make([]accounting.CauseCode, len(causeModels))
	for i := range causeModels {
		causes[i] = *causeModels[i].ToDomain()
	}
	return causes, nil
}

// Save creates or updates a cause code
func (r *GormCauseCodeRepository) Save(ctx context.Context, cause *accounting.CauseCode) error {
	model := models.CauseCodeModelFromDomain(cause)
	return conn(ctx, r.db).Save(model).Error
}

// Ensure GormCauseCodeRepository implements CauseCodeRepository
var _ accounting.CauseCodeRepository = (*GormCauseCodeRepository)(nil)
