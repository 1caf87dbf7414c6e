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

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document with its lines within the active tenant
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*accounting.Document, error) {
	var model models.DocumentModel
	if err := conn(ctx, r.db).Preload("Lines").First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll lists documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter accounting.DocumentFilter) ([]accounting.Document, error) {
	var documentModels []models.DocumentModel
	query := r.applyFilter(conn(ctx, r.db).Model(&models.DocumentModel{}), filter, true)

	if err := query.Preload("Lines").Find(&documentModels).Error; err != nil {
		return nil, err
	}

	documents := make([]accounting.Document, len(documentModels))
	for i := range documentModels {
		documents[i] = *documentModels[i].ToDomain()
	}
	return documents, nil
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter accounting.DocumentFilter) (int64, error) {
	var count int64
	query := r.applyFilter(conn(ctx, r.db).Model(&models.DocumentModel{}), filter, false)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindDuplicate finds another document with the same counterparty, type and
// supplier document number. Returns nil when no duplicate exists.
func (r *GormDocumentRepository) FindDuplicate(ctx context.Context, counterpartyID uuid.UUID, docType accounting.DocumentType, supplierDocumentNumber string, excludeID uuid.UUID) (*accounting.Document, error) {
	var model models.DocumentModel
	query := conn(ctx, r.db).
		Where("counterparty_id = ? AND type = ? AND supplier_document_number = ?",
			counterpartyID, docType, supplierDocumentNumber)
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

// Save creates or updates a document with its lines
func (r *GormDocumentRepository) Save(ctx context.Context, document *accounting.Document) error {
	model := models.DocumentModelFromDomain(document)
	return conn(ctx, r.db).Save(model).Error
}

// SaveWithLock saves the document header with optimistic locking (version
// check). Lines are fixed at registration and are not touched.
func (r *GormDocumentRepository) SaveWithLock(ctx context.Context, document *accounting.Document) error {
	model := models.DocumentModelFromDomain(document)
	result := conn(ctx, r.db).
		Model(model).
		Where("id = ? AND version = ?", document.ID, document.Version-1).
		Select("*").Omit("created_at", "Lines").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter accounting.DocumentFilter, paginate bool) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR counterparty_name ILIKE ? OR supplier_document_number ILIKE ?",
			pattern, pattern, pattern)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.CounterpartyID != nil {
		query = query.Where("counterparty_id = ?", *filter.CounterpartyID)
	}
	if filter.FromDate != nil {
		query = query.Where("date >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("date <= ?", *filter.ToDate)
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
		query = query.Order("date DESC, number DESC")
	}
	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ accounting.DocumentRepository = (*GormDocumentRepository)(nil)
