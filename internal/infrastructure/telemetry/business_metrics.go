// Package telemetry provides OpenTelemetry integration for metrics collection.
package telemetry

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// BusinessMetrics provides business metrics for the shop backend.
// It tracks order intake, fulfillment outcomes, document generation and the
// size of the pending-delivery backlog.
type BusinessMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	// Counter metrics (monotonically increasing)
	orderCreatedTotal      *Counter
	orderAmountTotal       *Counter
	orderProcessedTotal    *Counter
	shortfallRecordedTotal *Counter
	documentGeneratedTotal *Counter

	// Gauge metrics (point-in-time values)
	pendingOrderCount  *Gauge
	backlogRowCount    *Gauge
	backlogClientCount *Gauge

	// Periodic collector
	stopChan    chan struct{}
	stopOnce    sync.Once
	collectOnce sync.Once

	// Data provider for periodic collection
	backlogProvider BacklogMetricsProvider
}

// BacklogMetricsProvider provides fulfillment backlog data for periodic
// metrics collection. The interface keeps the telemetry layer from depending
// on the trade domain directly.
type BacklogMetricsProvider interface {
	// GetPendingOrderCount returns the number of orders awaiting a fulfillment pass
	GetPendingOrderCount(ctx context.Context) (int64, error)

	// GetBacklogRowCount returns the total number of outstanding backlog rows
	GetBacklogRowCount(ctx context.Context) (int64, error)

	// GetBacklogClientCount returns the number of clients with at least one backlog row
	GetBacklogClientCount(ctx context.Context) (int64, error)
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter           metric.Meter
	Logger          *zap.Logger
	CollectInterval time.Duration // Default: 5 minutes
	BacklogProvider BacklogMetricsProvider
}

// NewBusinessMetrics creates a new BusinessMetrics instance.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bm := &BusinessMetrics{
		meter:           cfg.Meter,
		logger:          logger,
		stopChan:        make(chan struct{}),
		backlogProvider: cfg.BacklogProvider,
	}

	// Initialize counter metrics
	var err error

	bm.orderCreatedTotal, err = NewCounter(
		cfg.Meter,
		"shop_order_created_total",
		"Total number of orders created",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderAmountTotal, err = NewCounter(
		cfg.Meter,
		"shop_order_amount_total",
		"Total order amount in rappen",
		"{rappen}",
	)
	if err != nil {
		return nil, err
	}

	bm.orderProcessedTotal, err = NewCounter(
		cfg.Meter,
		"shop_order_processed_total",
		"Total number of fulfillment passes, labeled by resulting status",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.shortfallRecordedTotal, err = NewCounter(
		cfg.Meter,
		"shop_shortfall_recorded_total",
		"Total number of backlog rows written by fulfillment passes",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	bm.documentGeneratedTotal, err = NewCounter(
		cfg.Meter,
		"shop_document_generated_total",
		"Total number of PDF documents generated, labeled by type and outcome",
		"{documents}",
	)
	if err != nil {
		return nil, err
	}

	// Gauge metrics
	bm.pendingOrderCount, err = NewGauge(
		cfg.Meter,
		"shop_pending_order_count",
		"Number of orders awaiting a fulfillment pass",
		"{orders}",
	)
	if err != nil {
		return nil, err
	}

	bm.backlogRowCount, err = NewGauge(
		cfg.Meter,
		"shop_backlog_row_count",
		"Number of outstanding pending-delivery rows",
		"{rows}",
	)
	if err != nil {
		return nil, err
	}

	bm.backlogClientCount, err = NewGauge(
		cfg.Meter,
		"shop_backlog_client_count",
		"Number of clients with outstanding deliveries",
		"{clients}",
	)
	if err != nil {
		return nil, err
	}

	return bm, nil
}

// =============================================================================
// Order Metrics
// =============================================================================

// RecordOrderCreated records an order creation event.
// This should be called from the application layer when an order is created.
func (bm *BusinessMetrics) RecordOrderCreated(ctx context.Context, clientID string) {
	bm.orderCreatedTotal.Inc(ctx,
		AttrClientID.String(clientID),
	)
}

// RecordOrderAmount records the order amount.
// Amount should be in the smallest currency unit (rappen).
func (bm *BusinessMetrics) RecordOrderAmount(ctx context.Context, clientID string, amountRappen int64) {
	bm.orderAmountTotal.Add(ctx, amountRappen,
		AttrClientID.String(clientID),
	)
}

// RecordOrderWithAmount is a convenience method that records both order count and amount.
func (bm *BusinessMetrics) RecordOrderWithAmount(ctx context.Context, clientID string, amount decimal.Decimal) {
	bm.RecordOrderCreated(ctx, clientID)

	// Convert to rappen (multiply by 100)
	amountRappen := amount.Mul(decimal.NewFromInt(100)).IntPart()
	bm.RecordOrderAmount(ctx, clientID, amountRappen)
}

// =============================================================================
// Fulfillment Metrics
// =============================================================================

// RecordOrderProcessed records the outcome of a fulfillment pass.
func (bm *BusinessMetrics) RecordOrderProcessed(ctx context.Context, resultStatus string, shortfallCount int) {
	bm.orderProcessedTotal.Inc(ctx,
		AttrOrderStatus.String(resultStatus),
	)
	if shortfallCount > 0 {
		bm.shortfallRecordedTotal.Add(ctx, int64(shortfallCount),
			AttrOrderStatus.String(resultStatus),
		)
	}
}

// =============================================================================
// Document Metrics
// =============================================================================

// DocumentOutcome represents the result of a document generation for metrics labeling.
type DocumentOutcome string

const (
	DocumentOutcomeCompleted DocumentOutcome = "completed"
	DocumentOutcomeFailed    DocumentOutcome = "failed"
)

// RecordDocumentGenerated records a PDF generation run.
func (bm *BusinessMetrics) RecordDocumentGenerated(ctx context.Context, documentType string, outcome DocumentOutcome) {
	bm.documentGeneratedTotal.Inc(ctx,
		AttrDocumentType.String(documentType),
		AttrDocumentOutcome.String(string(outcome)),
	)
}

// =============================================================================
// Backlog Gauges
// =============================================================================

// RecordPendingOrderCount records the number of orders awaiting processing.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordPendingOrderCount(ctx context.Context, count int64) {
	bm.pendingOrderCount.Record(ctx, count)
}

// RecordBacklogSize records the current size of the pending-delivery backlog.
// This is a gauge metric that should be updated periodically.
func (bm *BusinessMetrics) RecordBacklogSize(ctx context.Context, rows, clients int64) {
	bm.backlogRowCount.Record(ctx, rows)
	bm.backlogClientCount.Record(ctx, clients)
}

// =============================================================================
// Periodic Collection
// =============================================================================

// StartPeriodicCollection starts periodic collection of gauge metrics.
// It collects backlog metrics every interval (default: 5 minutes).
// This is non-blocking - use Stop() to stop collection.
func (bm *BusinessMetrics) StartPeriodicCollection(ctx context.Context, interval time.Duration) {
	bm.collectOnce.Do(func() {
		if interval <= 0 {
			interval = 5 * time.Minute
		}

		go bm.runPeriodicCollection(ctx, interval)
	})
}

// runPeriodicCollection runs the periodic collection loop.
func (bm *BusinessMetrics) runPeriodicCollection(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Collect immediately on start
	bm.collectBacklogMetrics(ctx)

	for {
		select {
		case <-bm.stopChan:
			bm.logger.Info("Stopping periodic business metrics collection")
			return
		case <-ctx.Done():
			bm.logger.Info("Context cancelled, stopping periodic business metrics collection")
			return
		case <-ticker.C:
			bm.collectBacklogMetrics(ctx)
		}
	}
}

// collectBacklogMetrics collects the backlog gauge metrics.
func (bm *BusinessMetrics) collectBacklogMetrics(ctx context.Context) {
	if bm.backlogProvider == nil {
		bm.logger.Debug("No backlog provider configured, skipping backlog metrics collection")
		return
	}

	pendingOrders, err := bm.backlogProvider.GetPendingOrderCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get pending order count", zap.Error(err))
	} else {
		bm.RecordPendingOrderCount(ctx, pendingOrders)
	}

	rows, err := bm.backlogProvider.GetBacklogRowCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get backlog row count", zap.Error(err))
		return
	}

	clients, err := bm.backlogProvider.GetBacklogClientCount(ctx)
	if err != nil {
		bm.logger.Warn("Failed to get backlog client count", zap.Error(err))
		return
	}

	bm.RecordBacklogSize(ctx, rows, clients)
}

// Stop stops the periodic collection.
func (bm *BusinessMetrics) Stop() {
	bm.stopOnce.Do(func() {
		close(bm.stopChan)
	})
}

// =============================================================================
// Error Types
// =============================================================================

// MetricsError represents an error in metrics operations.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewBusinessMetrics", Err: "meter cannot be nil"}
