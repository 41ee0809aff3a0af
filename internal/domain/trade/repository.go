package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// OrderRepository defines the interface for order persistence
type OrderRepository interface {
	// FindByID finds an order by its internal ID, items included
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)

	// FindByOrderNumber finds an order by its public token, items included
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)

	// FindByClientID finds all orders of a client, newest first
	FindByClientID(ctx context.Context, clientID string) ([]Order, error)

	// FindPending finds all pending orders, oldest first
	FindPending(ctx context.Context) ([]Order, error)

	// FindTreated finds all partial and completed orders, most recently
	// processed first
	FindTreated(ctx context.Context) ([]Order, error)

	// FindAll finds all orders matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)

	// Save creates or updates an order together with its items
	Save(ctx context.Context, order *Order) error

	// Delete deletes an order and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// PendingDeliveryRepository defines the interface for the backlog ledger.
// The ledger is append-only from the fulfillment workflow's point of view;
// Delete exists for administrative cleanup only.
type PendingDeliveryRepository interface {
	// FindByID finds a backlog row by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PendingDelivery, error)

	// FindByClientID finds all backlog rows of a client, oldest first
	FindByClientID(ctx context.Context, clientID string) ([]PendingDelivery, error)

	// Save inserts a backlog row. Rows for the same client and product are
	// never merged; every save adds a new row.
	Save(ctx context.Context, entry *PendingDelivery) error

	// SaveBatch inserts multiple backlog rows
	SaveBatch(ctx context.Context, entries []*PendingDelivery) error

	// Delete deletes a backlog row
	Delete(ctx context.Context, id uuid.UUID) error

	// CountByClientID counts backlog rows of a client
	CountByClientID(ctx context.Context, clientID string) (int64, error)
}
