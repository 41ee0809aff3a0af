package event

import (
	"github.com/promoshop/backend/internal/domain/catalog"
	"github.com/promoshop/backend/internal/domain/partner"
	"github.com/promoshop/backend/internal/domain/printing"
	"github.com/promoshop/backend/internal/domain/trade"
)

// RegisterAllEvents registers all domain event types with the serializer
// so they can be deserialized from their JSON payloads. Every type is at
// its first schema version; RegisterVersioned takes over for a type the
// moment its payload shape changes.
func RegisterAllEvents(serializer Serializer) {
	// Trade domain - Order events
	serializer.Register(trade.EventTypeOrderCreated, &trade.OrderCreatedEvent{})
	serializer.Register(trade.EventTypeOrderProcessed, &trade.OrderProcessedEvent{})
	serializer.Register(trade.EventTypePendingDeliveryRecorded, &trade.PendingDeliveryRecordedEvent{})

	// Catalog domain - Product events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})

	// Partner domain - Client profile events
	serializer.Register(partner.EventTypeClientProfileCreated, &partner.ClientProfileCreatedEvent{})
	serializer.Register(partner.EventTypeClientProfileUpdated, &partner.ClientProfileUpdatedEvent{})

	// Printing domain - Document events
	serializer.Register(printing.EventTypeDocumentRequested, &printing.DocumentRequestedEvent{})
	serializer.Register(printing.EventTypeDocumentGenerated, &printing.DocumentGeneratedEvent{})
	serializer.Register(printing.EventTypeDocumentFailed, &printing.DocumentFailedEvent{})
}
