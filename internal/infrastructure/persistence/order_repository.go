package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormOrderRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds an order by its internal ID, items included
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds an order by its public token, items included
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var order trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByClientID finds all orders of a client, newest first
func (r *GormOrderRepository) FindByClientID(ctx context.Context, clientID string) ([]trade.Order, error) {
	var orders []trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("client_id = ?", clientID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindPending finds all pending orders, oldest first
func (r *GormOrderRepository) FindPending(ctx context.Context) ([]trade.Order, error) {
	var orders []trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status = ?", trade.OrderStatusPending).
		Order("order_date ASC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindTreated finds all partial and completed orders, most recently
// processed first
func (r *GormOrderRepository) FindTreated(ctx context.Context) ([]trade.Order, error) {
	var orders []trade.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ?", []trade.OrderStatus{trade.OrderStatusPartial, trade.OrderStatusCompleted}).
		Order("last_processed_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	var orders []trade.Order
	query := r.applyFilter(r.db.WithContext(ctx).Model(&trade.Order{}).Preload("Items"), filter)

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// Save creates or updates an order together with its items. When an outbox
// saver is configured, pending domain events are written to the outbox table
// in the same transaction and cleared from the aggregate on commit.
func (r *GormOrderRepository) Save(ctx context.Context, order *trade.Order) error {
	events := order.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		currentItemIDs := make([]uuid.UUID, len(order.Items))
		for i, item := range order.Items {
			currentItemIDs[i] = item.ID
		}

		// Drop lines removed from the aggregate since the last save
		if len(currentItemIDs) > 0 {
			if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentItemIDs).
				Delete(&trade.OrderItem{}).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Where("order_id = ?", order.ID).
				Delete(&trade.OrderItem{}).Error; err != nil {
				return err
			}
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
			if err := tx.Save(&order.Items[i]).Error; err != nil {
				return err
			}
		}

		// Save events to outbox within the same transaction
		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	if r.outboxSaver != nil && len(events) > 0 {
		order.ClearDomainEvents()
	}
	return nil
}

// Delete deletes an order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&trade.OrderItem{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&trade.Order{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&trade.Order{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, OrderSortFields, "order_date")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR client_id ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "statuses":
			if statuses, ok := value.([]string); ok && len(statuses) > 0 {
				query = query.Where("status IN ?", statuses)
			}
		}
	}

	return query
}

// Ensure GormOrderRepository implements OrderRepository
var _ trade.OrderRepository = (*GormOrderRepository)(nil)
