package printing

import (
	"context"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// DocumentRepository defines the persistence interface for documents
type DocumentRepository interface {
	// FindByID finds a document by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)
	// FindByOrder finds all documents generated for an order, newest first
	FindByOrder(ctx context.Context, orderID uuid.UUID) ([]Document, error)
	// FindByOrderAndType finds documents of one type for an order, newest first
	FindByOrderAndType(ctx context.Context, orderID uuid.UUID, docType DocType) ([]Document, error)
	// FindAll finds documents matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Document, error)
	// Save persists a document
	Save(ctx context.Context, doc *Document) error
	// Delete removes a document record
	Delete(ctx context.Context, id uuid.UUID) error
	// Count counts documents matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
