package trade

import (
	"context"

	"github.com/promoshop/backend/internal/domain/shared"
	"github.com/promoshop/backend/internal/domain/trade"
	"github.com/promoshop/backend/internal/infrastructure/telemetry"
)

// FulfillmentService runs the fulfillment workflow: it reconciles an order
// against the admin's declared delivered quantities and records shortfalls
// in the pending-delivery backlog. All mutations of one pass happen in a
// single transaction; a failed pass leaves the order untouched.
type FulfillmentService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewFulfillmentService creates a new FulfillmentService
func NewFulfillmentService(scope TransactionScope) *FulfillmentService {
	return &FulfillmentService{
		scope: scope,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *FulfillmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// ProcessOrder applies the admin's fulfillment declaration to an order.
// Within one transaction it updates every item's delivery status, derives
// the order status, stamps the processing date and appends one backlog row
// per shortfall. An order belonging to a different client is reported as
// not found. The operation is not idempotent: repeating it appends the
// backlog rows again.
func (s *FulfillmentService) ProcessOrder(ctx context.Context, orderNumber string, req ProcessOrderRequest) (*ProcessOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "process_order")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderNumber, orderNumber,
		telemetry.SpanAttrClientID, req.ClientID,
	)

	declared := make([]trade.DeclaredDelivery, len(req.DeliveredItems))
	for i, item := range req.DeliveredItems {
		declared[i] = trade.DeclaredDelivery{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	var (
		processed *trade.Order
		entries   []*trade.PendingDelivery
		err       error
	)

	labels := telemetry.TradeOperationLabels(telemetry.OperationProcessOrder, req.ClientID)
	telemetry.WithProfilingLabels(ctx, labels, func(c context.Context) {
		err = s.scope.Execute(c, func(repos TransactionalRepositories) error {
			order, err := repos.OrderRepo().FindByOrderNumber(c, orderNumber)
			if err != nil {
				return err
			}
			if order.ClientID != req.ClientID {
				return shared.ErrNotFound
			}

			shortfalls, err := order.Process(declared)
			if err != nil {
				return err
			}

			if err := repos.OrderRepo().Save(c, order); err != nil {
				return err
			}

			if len(shortfalls) > 0 {
				entries = make([]*trade.PendingDelivery, len(shortfalls))
				for i, shortfall := range shortfalls {
					entry, err := trade.NewPendingDeliveryFromShortfall(order.ClientID, shortfall)
					if err != nil {
						return err
					}
					entries[i] = entry
				}
				if err := repos.PendingDeliveryRepo().SaveBatch(c, entries); err != nil {
					return err
				}
			}

			processed = order
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderStatus, string(processed.Status),
		"shortfall_count", len(entries),
	)

	s.publishEvents(ctx, processed, entries)

	return &ProcessOrderResponse{
		OrderID:        processed.OrderNumber,
		Status:         string(processed.Status),
		ShortfallCount: len(entries),
	}, nil
}

func (s *FulfillmentService) publishEvents(ctx context.Context, order *trade.Order, entries []*trade.PendingDelivery) {
	if s.eventPublisher == nil {
		return
	}

	events := make([]shared.DomainEvent, 0, len(order.GetDomainEvents())+len(entries))
	events = append(events, order.GetDomainEvents()...)
	for _, entry := range entries {
		events = append(events, entry.GetDomainEvents()...)
	}
	if len(events) == 0 {
		return
	}

	// Event delivery is best effort; the transaction already committed.
	_ = s.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
	for _, entry := range entries {
		entry.ClearDomainEvents()
	}
}
