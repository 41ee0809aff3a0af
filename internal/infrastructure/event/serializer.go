package event

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sync"

	"github.com/promoshop/backend/internal/domain/shared"
)

// Serializer is the codec contract the outbox publisher and processor
// depend on. Both the flat EventSerializer and the VersionedSerializer
// satisfy it, so the relay code never cares whether stored payloads get
// schema upgrades on the way out.
type Serializer interface {
	Register(eventType string, eventInstance shared.DomainEvent)
	Serialize(event shared.DomainEvent) ([]byte, error)
	Deserialize(eventType string, data []byte) (shared.DomainEvent, error)
	IsRegistered(eventType string) bool
	RegisteredTypes() []string
}

// EventSerializer round-trips domain events through JSON. Deserialization
// needs the concrete Go type, so every event type is registered up front
// with a sample instance.
type EventSerializer struct {
	mu       sync.RWMutex
	registry map[string]reflect.Type
}

func NewEventSerializer() *EventSerializer {
	return &EventSerializer{
		registry: make(map[string]reflect.Type),
	}
}

// Register maps an event type string to the struct behind eventInstance.
// The string must match what EventType() returns on the event.
func (s *EventSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.registry[eventType] = t
}

func (s *EventSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize unmarshals data into a new instance of the registered type.
func (s *EventSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	s.mu.RLock()
	t, ok := s.registry[eventType]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	eventPtr := reflect.New(t).Interface()
	if err := json.Unmarshal(data, eventPtr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}

func (s *EventSerializer) IsRegistered(eventType string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.registry[eventType]
	return ok
}

func (s *EventSerializer) RegisteredTypes() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	types := make([]string, 0, len(s.registry))
	for t := range s.registry {
		types = append(types, t)
	}
	return types
}

var _ Serializer = (*EventSerializer)(nil)
