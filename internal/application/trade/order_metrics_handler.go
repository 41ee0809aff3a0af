package trade

import (
	"context"
	"fmt"

	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// OrderMetricsRecorder receives business-level order counters. The telemetry
// package provides the production implementation.
type OrderMetricsRecorder interface {
	RecordOrderCreated(ctx context.Context, clientID string)
	RecordOrderProcessed(ctx context.Context, resultStatus string, shortfallCount int)
}

// OrderMetricsHandler consumes order lifecycle events and forwards them to
// the metrics recorder. Metric recording never fails the event, so redelivery
// of a failed batch cannot double-count already recorded orders.
type OrderMetricsHandler struct {
	metrics OrderMetricsRecorder
	logger  *zap.Logger
}

// NewOrderMetricsHandler creates a new handler for order lifecycle events.
func NewOrderMetricsHandler(metrics OrderMetricsRecorder, logger *zap.Logger) *OrderMetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderMetricsHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderMetricsHandler) EventTypes() []string {
	return []string{
		trade.EventTypeOrderCreated,
		trade.EventTypeOrderProcessed,
	}
}

// Handle records one counter per order lifecycle event
func (h *OrderMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *trade.OrderCreatedEvent:
		h.metrics.RecordOrderCreated(ctx, e.ClientID)
		h.logger.Debug("recorded order created metric",
			zap.String("orderNumber", e.OrderNumber),
			zap.String("clientId", e.ClientID),
		)
	case *trade.OrderProcessedEvent:
		h.metrics.RecordOrderProcessed(ctx, string(e.Status), e.ShortfallCount)
		h.logger.Debug("recorded order processed metric",
			zap.String("orderNumber", e.OrderNumber),
			zap.String("status", string(e.Status)),
			zap.Int("shortfallCount", e.ShortfallCount),
		)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	return nil
}

// Ensure OrderMetricsHandler implements shared.EventHandler
var _ shared.EventHandler = (*OrderMetricsHandler)(nil)
