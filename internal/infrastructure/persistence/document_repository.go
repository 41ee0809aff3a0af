package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/shared"
)

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document by its ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*printing.Document, error) {
	var doc printing.Document
	if err := r.db.WithContext(ctx).First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByOrder finds all documents generated for an order, newest first
func (r *GormDocumentRepository) FindByOrder(ctx context.Context, orderID uuid.UUID) ([]printing.Document, error) {
	var docs []printing.Document
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByOrderAndType finds documents of one type for an order, newest first
func (r *GormDocumentRepository) FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType printing.DocType) ([]printing.Document, error) {
	var docs []printing.Document
	if err := r.db.WithContext(ctx).
		Where("order_id = ? AND document_type = ?", orderID, docType).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindAll finds documents matching the filter
func (r *GormDocumentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]printing.Document, error) {
	var docs []printing.Document
	query := r.applyFilter(r.db.WithContext(ctx).Model(&printing.Document{}), filter)

	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save persists a document
func (r *GormDocumentRepository) Save(ctx context.Context, doc *printing.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// Delete removes a document record
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&printing.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts documents matching the filter
func (r *GormDocumentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&printing.Document{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDocumentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, DocumentSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDocumentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR client_id ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "document_type":
			query = query.Where("document_type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "order_id":
			query = query.Where("order_id = ?", value)
		}
	}

	return query
}

// Ensure GormDocumentRepository implements DocumentRepository
var _ printing.DocumentRepository = (*GormDocumentRepository)(nil)
