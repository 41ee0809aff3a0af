// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"

	"gorm.io/gorm"
)

// GormBacklogMetricsProvider implements BacklogMetricsProvider using GORM.
// It queries the orders and pending_deliveries tables directly for
// aggregated counts.
type GormBacklogMetricsProvider struct {
	db *gorm.DB
}

// NewGormBacklogMetricsProvider creates a new GormBacklogMetricsProvider.
func NewGormBacklogMetricsProvider(db *gorm.DB) *GormBacklogMetricsProvider {
	return &GormBacklogMetricsProvider{db: db}
}

// GetPendingOrderCount returns the number of orders awaiting a fulfillment pass.
func (p *GormBacklogMetricsProvider) GetPendingOrderCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("orders").
		Where("status = ?", "pending").
		Count(&count).Error

	return count, err
}

// GetBacklogRowCount returns the total number of outstanding backlog rows.
func (p *GormBacklogMetricsProvider) GetBacklogRowCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("pending_deliveries").
		Count(&count).Error

	return count, err
}

// GetBacklogClientCount returns the number of clients with at least one backlog row.
func (p *GormBacklogMetricsProvider) GetBacklogClientCount(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).
		Table("pending_deliveries").
		Distinct("client_id").
		Count(&count).Error

	return count, err
}

// Ensure GormBacklogMetricsProvider implements BacklogMetricsProvider
var _ BacklogMetricsProvider = (*GormBacklogMetricsProvider)(nil)
