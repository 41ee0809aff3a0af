// Package providers implements DataProvider for loading document data from
// the order and profile repositories. Each provider shapes the data for one
// document type.
package providers

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/printing"
	infra "github.com/promoshop/backend/internal/infrastructure/printing"
)

// DataProviderRegistry maps document types to their DataProvider. The
// document service asks it for the data behind each render request.
type DataProviderRegistry struct {
	mu        sync.RWMutex
	providers map[printing.DocType]infra.DataProvider
}

func NewDataProviderRegistry() *DataProviderRegistry {
	return &DataProviderRegistry{
		providers: make(map[printing.DocType]infra.DataProvider),
	}
}

// Register adds a provider, replacing any previous one for the same
// document type. Nil providers are ignored.
func (r *DataProviderRegistry) Register(provider infra.DataProvider) {
	if provider == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[provider.GetDocType()] = provider
}

// GetProvider looks up the provider for docType.
func (r *DataProviderRegistry) GetProvider(docType printing.DocType) (infra.DataProvider, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[docType]
	return provider, ok
}

// LoadData fetches the document data for an order through the provider
// registered for docType.
func (r *DataProviderRegistry) LoadData(ctx context.Context, docType printing.DocType, orderID uuid.UUID) (*infra.DocumentData, error) {
	provider, ok := r.GetProvider(docType)
	if !ok {
		return nil, fmt.Errorf("no data provider registered for document type: %s", docType)
	}
	return provider.GetData(ctx, orderID)
}

// HasProvider reports whether docType has a registered provider.
func (r *DataProviderRegistry) HasProvider(docType printing.DocType) bool {
	_, ok := r.GetProvider(docType)
	return ok
}

// RegisteredTypes lists the document types with a provider.
func (r *DataProviderRegistry) RegisteredTypes() []printing.DocType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]printing.DocType, 0, len(r.providers))
	for docType := range r.providers {
		types = append(types, docType)
	}
	return types
}
