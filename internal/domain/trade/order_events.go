package trade

import (
	"github.com/google/uuid"
	"github.com/promoshop/backend/internal/domain/shared"
)

// Aggregate type constants
const (
	AggregateTypeOrder           = "Order"
	AggregateTypePendingDelivery = "PendingDelivery"
)

// Event type constants
const (
	EventTypeOrderCreated            = "OrderCreated"
	EventTypeOrderProcessed          = "OrderProcessed"
	EventTypePendingDeliveryRecorded = "PendingDeliveryRecorded"
)

// OrderCreatedEvent is published when a new order is placed
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	ClientID    string    `json:"client_id"`
	ItemCount   int       `json:"item_count"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(order *Order) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		ClientID:        order.ClientID,
		ItemCount:       len(order.Items),
	}
}

// OrderProcessedEvent is published when a fulfillment pass completes
type OrderProcessedEvent struct {
	shared.BaseDomainEvent
	OrderID        uuid.UUID   `json:"order_id"`
	OrderNumber    string      `json:"order_number"`
	ClientID       string      `json:"client_id"`
	Status         OrderStatus `json:"status"`
	ShortfallCount int         `json:"shortfall_count"`
}

// NewOrderProcessedEvent creates a new OrderProcessedEvent
func NewOrderProcessedEvent(order *Order, shortfalls []Shortfall) *OrderProcessedEvent {
	return &OrderProcessedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderProcessed, AggregateTypeOrder, order.ID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		ClientID:        order.ClientID,
		Status:          order.Status,
		ShortfallCount:  len(shortfalls),
	}
}

// PendingDeliveryRecordedEvent is published when a backlog row is created
type PendingDeliveryRecordedEvent struct {
	shared.BaseDomainEvent
	EntryID     uuid.UUID `json:"entry_id"`
	ClientID    string    `json:"client_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
}

// NewPendingDeliveryRecordedEvent creates a new PendingDeliveryRecordedEvent
func NewPendingDeliveryRecordedEvent(entry *PendingDelivery) *PendingDeliveryRecordedEvent {
	return &PendingDeliveryRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePendingDeliveryRecorded, AggregateTypePendingDelivery, entry.ID),
		EntryID:         entry.ID,
		ClientID:        entry.ClientID,
		ProductID:       entry.ProductID,
		ProductName:     entry.ProductName,
		Quantity:        entry.Quantity,
	}
}
