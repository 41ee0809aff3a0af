package shared

import (
	"time"

	"github.com/google/uuid"
)

// DomainEvent represents an event that occurred in the domain
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OccurredAt() time.Time
	AggregateID() uuid.UUID
	AggregateType() string
}

// BaseDomainEvent provides common fields for all domain events
type BaseDomainEvent struct {
	ID        uuid.UUID `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	AggID     uuid.UUID `json:"aggregate_id"`
	AggType   string    `json:"aggregate_type"`
	Version   int       `json:"schema_version,omitempty"`
}

// EventID returns the unique event identifier
func (e *BaseDomainEvent) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *BaseDomainEvent) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *BaseDomainEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the aggregate that produced this event
func (e *BaseDomainEvent) AggregateID() uuid.UUID {
	return e.AggID
}

// AggregateType returns the type of the aggregate
func (e *BaseDomainEvent) AggregateType() string {
	return e.AggType
}

// SchemaVersion returns the schema version of the event's payload.
// Events written before versioning existed carry no version and count
// as version 1.
func (e *BaseDomainEvent) SchemaVersion() int {
	if e.Version < 1 {
		return 1
	}
	return e.Version
}

// NewBaseDomainEvent creates a new base domain event at schema version 1
func NewBaseDomainEvent(eventType, aggType string, aggID uuid.UUID) BaseDomainEvent {
	return NewVersionedBaseDomainEvent(eventType, aggType, aggID, 1)
}

// NewVersionedBaseDomainEvent creates a base domain event with an explicit
// schema version. Versions below 1 are clamped to 1.
func NewVersionedBaseDomainEvent(eventType, aggType string, aggID uuid.UUID, schemaVersion int) BaseDomainEvent {
	if schemaVersion < 1 {
		schemaVersion = 1
	}
	return BaseDomainEvent{
		ID:        uuid.New(),
		Type:      eventType,
		Timestamp: time.Now(),
		AggID:     aggID,
		AggType:   aggType,
		Version:   schemaVersion,
	}
}
