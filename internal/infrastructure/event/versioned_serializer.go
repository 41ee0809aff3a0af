package event

import (
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/promoshop/backend/internal/domain/shared"
)

// VersionedSerializer is an EventSerializer that understands schema
// versions. Old payloads are run through the registry's upgrader chain
// before they are unmarshaled, so handlers only ever see the current shape.
type VersionedSerializer struct {
	versionRegistry *VersionRegistry
	logger          *zap.Logger
}

func NewVersionedSerializer(logger *zap.Logger) *VersionedSerializer {
	return &VersionedSerializer{
		versionRegistry: NewVersionRegistry(),
		logger:          logger,
	}
}

// Register registers a single-version event type. Mirrors the plain
// EventSerializer so the two are interchangeable at call sites.
func (s *VersionedSerializer) Register(eventType string, eventInstance shared.DomainEvent) {
	s.versionRegistry.RegisterSimpleEvent(eventType, eventInstance)
}

// RegisterVersioned registers an event type with its full version history
// and the upgraders connecting consecutive versions.
func (s *VersionedSerializer) RegisterVersioned(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	return s.versionRegistry.RegisterVersionedEvent(eventType, currentVersion, versions, upgraders...)
}

// Serialize marshals the event to JSON. The schema_version field rides
// along because BaseDomainEvent carries it.
func (s *VersionedSerializer) Serialize(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// SerializeWithVersion is an alias for Serialize, kept for symmetry with
// DeserializeToVersion.
func (s *VersionedSerializer) SerializeWithVersion(event shared.DomainEvent) ([]byte, error) {
	return json.Marshal(event)
}

// Deserialize unmarshals a payload into the current version of the event
// type, upgrading it first when the stored schema is older.
func (s *VersionedSerializer) Deserialize(eventType string, data []byte) (shared.DomainEvent, error) {
	config, ok := s.versionRegistry.GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	version := ExtractVersion(data)

	payload := data
	if version < config.CurrentVersion {
		s.logVersionUpgrade(eventType, version, config.CurrentVersion)
		var err error
		payload, _, err = s.versionRegistry.UpgradePayload(eventType, data, version)
		if err != nil {
			return nil, fmt.Errorf("failed to upgrade event: %w", err)
		}
	}

	return s.materialize(config, config.CurrentVersion, eventType, payload)
}

// DeserializeToVersion unmarshals a payload into a specific version of the
// event type, upgrading only as far as targetVersion. Downgrades are not
// supported.
func (s *VersionedSerializer) DeserializeToVersion(eventType string, data []byte, targetVersion int) (shared.DomainEvent, error) {
	config, ok := s.versionRegistry.GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	version := ExtractVersion(data)
	if version > targetVersion {
		return nil, fmt.Errorf("cannot downgrade event from version %d to %d", version, targetVersion)
	}

	payload := data
	for v := version; v < targetVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
		var err error
		payload, err = upgrader.Upgrade(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
	}

	return s.materialize(config, targetVersion, eventType, payload)
}

// materialize builds a fresh instance of the registered struct for the
// given version and unmarshals the payload into it.
func (s *VersionedSerializer) materialize(config *VersionedEventConfig, version int, eventType string, payload []byte) (shared.DomainEvent, error) {
	eventInstance, ok := config.Versions[version]
	if !ok {
		return nil, fmt.Errorf("no event type registered for version %d of %s", version, eventType)
	}

	t := reflect.TypeOf(eventInstance)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	eventPtr := reflect.New(t).Interface()

	if err := json.Unmarshal(payload, eventPtr); err != nil {
		return nil, fmt.Errorf("failed to unmarshal event: %w", err)
	}

	event, ok := eventPtr.(shared.DomainEvent)
	if !ok {
		return nil, fmt.Errorf("deserialized object does not implement DomainEvent")
	}
	return event, nil
}

func (s *VersionedSerializer) IsRegistered(eventType string) bool {
	return s.versionRegistry.IsRegistered(eventType)
}

func (s *VersionedSerializer) RegisteredTypes() []string {
	return s.versionRegistry.RegisteredTypes()
}

func (s *VersionedSerializer) GetCurrentVersion(eventType string) (int, bool) {
	return s.versionRegistry.GetCurrentVersion(eventType)
}

// GetVersionRegistry exposes the underlying registry, mainly for batch
// migration tooling.
func (s *VersionedSerializer) GetVersionRegistry() *VersionRegistry {
	return s.versionRegistry
}

func (s *VersionedSerializer) logVersionUpgrade(eventType string, from, to int) {
	if s.logger != nil {
		s.logger.Debug("upgrading event version",
			zap.String("event_type", eventType),
			zap.Int("from_version", from),
			zap.Int("to_version", to),
		)
	}
}

// UpgradePayloadOnly upgrades a raw payload to the current schema without
// unmarshaling it into a struct.
func (s *VersionedSerializer) UpgradePayloadOnly(eventType string, data []byte) ([]byte, int, error) {
	version := ExtractVersion(data)
	return s.versionRegistry.UpgradePayload(eventType, data, version)
}

func (s *VersionedSerializer) GetEventVersion(data []byte) int {
	return ExtractVersion(data)
}

var _ Serializer = (*VersionedSerializer)(nil)
