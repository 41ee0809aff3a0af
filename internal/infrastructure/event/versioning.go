package event

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/promoshop/backend/internal/domain/shared"
)

// EventUpgrader rewrites a stored payload from one schema version to the
// next. An upgrader covers exactly one step, chains are built in the
// registry.
type EventUpgrader interface {
	SourceVersion() int
	TargetVersion() int
	Upgrade(payload []byte) ([]byte, error)
}

// VersionedEventConfig describes one event type: its latest schema version,
// a sample instance per version and the upgraders connecting them.
type VersionedEventConfig struct {
	EventType      string
	CurrentVersion int
	Upgraders      map[int]EventUpgrader
	Versions       map[int]shared.DomainEvent
}

// VersionRegistry tracks schema versions per event type. Payloads read from
// the outbox or an event store may be several versions old, the registry
// knows how to bring them up to date.
type VersionRegistry struct {
	mu      sync.RWMutex
	configs map[string]*VersionedEventConfig
}

func NewVersionRegistry() *VersionRegistry {
	return &VersionRegistry{
		configs: make(map[string]*VersionedEventConfig),
	}
}

// RegisterVersionedEvent registers an event type together with an instance
// per known version and the upgraders between consecutive versions. The
// chain has to be complete: every version below the current one needs an
// upgrader to the next.
func (r *VersionRegistry) RegisterVersionedEvent(
	eventType string,
	currentVersion int,
	versions map[int]shared.DomainEvent,
	upgraders ...EventUpgrader,
) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	upgraderMap := make(map[int]EventUpgrader)
	for _, u := range upgraders {
		if u.TargetVersion() != u.SourceVersion()+1 {
			return fmt.Errorf("upgrader must be sequential: got %d -> %d", u.SourceVersion(), u.TargetVersion())
		}
		upgraderMap[u.SourceVersion()] = u
	}

	for v := 1; v < currentVersion; v++ {
		if _, ok := upgraderMap[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
	}

	if _, ok := versions[currentVersion]; !ok {
		return fmt.Errorf("versions map must include current version %d for event type %s", currentVersion, eventType)
	}

	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		Upgraders:      upgraderMap,
		Versions:       versions,
	}
	return nil
}

// RegisterSimpleEvent registers an event type that only ever had one schema.
func (r *VersionRegistry) RegisterSimpleEvent(eventType string, eventInstance shared.DomainEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.configs[eventType] = &VersionedEventConfig{
		EventType:      eventType,
		CurrentVersion: 1,
		Upgraders:      make(map[int]EventUpgrader),
		Versions: map[int]shared.DomainEvent{
			1: eventInstance,
		},
	}
}

func (r *VersionRegistry) GetConfig(eventType string) (*VersionedEventConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	return config, ok
}

func (r *VersionRegistry) GetCurrentVersion(eventType string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	config, ok := r.configs[eventType]
	if !ok {
		return 0, false
	}
	return config.CurrentVersion, true
}

func (r *VersionRegistry) IsRegistered(eventType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.configs[eventType]
	return ok
}

func (r *VersionRegistry) RegisteredTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.configs))
	for t := range r.configs {
		types = append(types, t)
	}
	return types
}

// UpgradePayload walks the upgrader chain from fromVersion to the current
// version and returns the rewritten payload together with the version it
// ended up at. A payload already at or above the current version passes
// through untouched.
func (r *VersionRegistry) UpgradePayload(eventType string, payload []byte, fromVersion int) ([]byte, int, error) {
	r.mu.RLock()
	config, ok := r.configs[eventType]
	r.mu.RUnlock()

	if !ok {
		return nil, 0, fmt.Errorf("unknown event type: %s", eventType)
	}

	if fromVersion >= config.CurrentVersion {
		return payload, config.CurrentVersion, nil
	}

	current := payload
	var err error
	for v := fromVersion; v < config.CurrentVersion; v++ {
		upgrader, ok := config.Upgraders[v]
		if !ok {
			return nil, 0, fmt.Errorf("missing upgrader for version %d -> %d for event type %s", v, v+1, eventType)
		}
		current, err = upgrader.Upgrade(current)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to upgrade from v%d to v%d: %w", v, v+1, err)
		}
	}

	return current, config.CurrentVersion, nil
}

type eventVersionProbe struct {
	SchemaVersion int `json:"schema_version"`
}

// ExtractVersion reads the schema_version field from a raw payload.
// Payloads written before versioning existed have no field, those count as
// version 1. Unparseable input also falls back to 1.
func ExtractVersion(payload []byte) int {
	var probe eventVersionProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return 1
	}
	if probe.SchemaVersion == 0 {
		return 1
	}
	return probe.SchemaVersion
}

// BaseEventUpgrader implements EventUpgrader on top of a map transform:
// the payload is unmarshaled to a map, handed to the transform, stamped
// with the target version and marshaled back.
type BaseEventUpgrader struct {
	sourceVersion int
	targetVersion int
	transformFunc func(data map[string]any) (map[string]any, error)
}

func NewBaseEventUpgrader(source, target int, transform func(data map[string]any) (map[string]any, error)) *BaseEventUpgrader {
	return &BaseEventUpgrader{
		sourceVersion: source,
		targetVersion: target,
		transformFunc: transform,
	}
}

func (u *BaseEventUpgrader) SourceVersion() int {
	return u.sourceVersion
}

func (u *BaseEventUpgrader) TargetVersion() int {
	return u.targetVersion
}

func (u *BaseEventUpgrader) Upgrade(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	transformed, err := u.transformFunc(data)
	if err != nil {
		return nil, fmt.Errorf("transform failed: %w", err)
	}

	transformed["schema_version"] = u.targetVersion

	result, err := json.Marshal(transformed)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transformed payload: %w", err)
	}
	return result, nil
}

var _ EventUpgrader = (*BaseEventUpgrader)(nil)
