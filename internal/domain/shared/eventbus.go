package shared

import "context"

// EventHandler consumes domain events delivered by a bus.
type EventHandler interface {
	Handle(ctx context.Context, event DomainEvent) error
	// EventTypes lists the event types the handler wants.
	// An empty slice subscribes to everything.
	EventTypes() []string
}

// EventPublisher publishes domain events after a state change commits.
type EventPublisher interface {
	Publish(ctx context.Context, events ...DomainEvent) error
}

// EventSubscriber manages handler registrations.
type EventSubscriber interface {
	// Subscribe registers a handler for the given event types,
	// or for all events when none are given.
	Subscribe(handler EventHandler, eventTypes ...string)
	Unsubscribe(handler EventHandler)
}

// EventBus is a publisher plus subscriber with a managed lifecycle.
type EventBus interface {
	EventPublisher
	EventSubscriber
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// OutboxEventSaver persists domain events into the outbox table inside
// the caller's transaction, so events commit or roll back together with
// the state change that produced them. txProvider is a *gorm.DB transaction.
type OutboxEventSaver interface {
	SaveEvents(ctx context.Context, txProvider interface{}, events ...DomainEvent) error
}
