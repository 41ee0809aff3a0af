package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
)

// GormPendingDeliveryRepository implements PendingDeliveryRepository using
// GORM. Backlog rows are only ever inserted: Save and SaveBatch use Create,
// never updates, so two shortfalls for the same client and product stay as
// two rows.
type GormPendingDeliveryRepository struct {
	db *gorm.DB
}

// NewGormPendingDeliveryRepository creates a new GormPendingDeliveryRepository
func NewGormPendingDeliveryRepository(db *gorm.DB) *GormPendingDeliveryRepository {
	return &GormPendingDeliveryRepository{db: db}
}

// FindByID finds a backlog row by ID
func (r *GormPendingDeliveryRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.PendingDelivery, error) {
	var entry trade.PendingDelivery
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByClientID finds all backlog rows of a client, oldest first
func (r *GormPendingDeliveryRepository) FindByClientID(ctx context.Context, clientID string) ([]trade.PendingDelivery, error) {
	var entries []trade.PendingDelivery
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save inserts a backlog row
func (r *GormPendingDeliveryRepository) Save(ctx context.Context, entry *trade.PendingDelivery) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// SaveBatch inserts multiple backlog rows
func (r *GormPendingDeliveryRepository) SaveBatch(ctx context.Context, entries []*trade.PendingDelivery) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(entries).Error
}

// Delete deletes a backlog row
func (r *GormPendingDeliveryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&trade.PendingDelivery{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByClientID counts backlog rows of a client
func (r *GormPendingDeliveryRepository) CountByClientID(ctx context.Context, clientID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&trade.PendingDelivery{}).
		Where("client_id = ?", clientID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPendingDeliveryRepository implements PendingDeliveryRepository
var _ trade.PendingDeliveryRepository = (*GormPendingDeliveryRepository)(nil)
