package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// MigrationResult summarizes one batch upgrade run.
type MigrationResult struct {
	EventType      string
	TotalProcessed int
	Upgraded       int
	AlreadyCurrent int
	Failed         int
	FailedPayloads []FailedMigration
	StartedAt      time.Time
	CompletedAt    time.Time
	FromVersion    int
	ToVersion      int
}

// FailedMigration records a payload that could not be upgraded.
type FailedMigration struct {
	Payload []byte
	Error   string
	Version int
}

// Duration returns how long the batch run took.
func (r *MigrationResult) Duration() time.Duration {
	return r.CompletedAt.Sub(r.StartedAt)
}

// EventMigrator upgrades stored event payloads to the current schema version.
// It is intended for batch maintenance over outbox rows or archived events.
type EventMigrator struct {
	serializer *VersionedSerializer
	logger     *zap.Logger
}

// NewEventMigrator creates a migrator backed by the given serializer.
func NewEventMigrator(serializer *VersionedSerializer, logger *zap.Logger) *EventMigrator {
	return &EventMigrator{
		serializer: serializer,
		logger:     logger,
	}
}

// MigratePayload upgrades a single payload to the current schema, returning
// the rewritten bytes and the version they ended up at. Payloads already
// current pass through untouched.
func (m *EventMigrator) MigratePayload(eventType string, payload []byte) ([]byte, int, error) {
	return m.serializer.UpgradePayloadOnly(eventType, payload)
}

// MigratePayloads upgrades a batch of payloads of a single event type.
// Payloads already at the current version are counted but left alone. The run
// stops early when ctx is cancelled, returning the partial result alongside
// the context error.
func (m *EventMigrator) MigratePayloads(ctx context.Context, eventType string, payloads [][]byte) (*MigrationResult, error) {
	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	result := &MigrationResult{
		EventType:      eventType,
		ToVersion:      currentVersion,
		StartedAt:      time.Now(),
		FailedPayloads: make([]FailedMigration, 0),
	}

	for _, payload := range payloads {
		if ctx.Err() != nil {
			result.CompletedAt = time.Now()
			return result, ctx.Err()
		}
		m.migrateOne(result, eventType, currentVersion, payload)
	}

	result.CompletedAt = time.Now()
	return result, nil
}

func (m *EventMigrator) migrateOne(result *MigrationResult, eventType string, currentVersion int, payload []byte) {
	result.TotalProcessed++

	version := ExtractVersion(payload)
	if result.FromVersion == 0 || version < result.FromVersion {
		result.FromVersion = version
	}

	switch {
	case version >= currentVersion:
		result.AlreadyCurrent++
	default:
		if _, _, err := m.serializer.UpgradePayloadOnly(eventType, payload); err != nil {
			result.Failed++
			result.FailedPayloads = append(result.FailedPayloads, FailedMigration{
				Payload: payload,
				Error:   err.Error(),
				Version: version,
			})
			return
		}
		result.Upgraded++
	}
}

// ValidateUpgradeChain checks that every version step from 1 to current has a
// registered upgrader, so no stored payload can get stranded mid-chain.
func (m *EventMigrator) ValidateUpgradeChain(eventType string) error {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	for v := 1; v < config.CurrentVersion; v++ {
		if _, ok := config.Upgraders[v]; !ok {
			return fmt.Errorf("missing upgrader for version %d -> %d", v, v+1)
		}
	}

	return nil
}

// EventVersionAnalysis describes the version spread inside a payload set.
type EventVersionAnalysis struct {
	EventType      string
	CurrentVersion int
	VersionCounts  map[int]int
	OldestVersion  int
	NewestVersion  int
	TotalEvents    int
	NeedsMigration int
	UpToDate       int
}

// AnalyzePayloads inspects a batch without modifying anything, reporting how
// many payloads sit at each version and how many would need an upgrade.
func (m *EventMigrator) AnalyzePayloads(eventType string, payloads [][]byte) (*EventVersionAnalysis, error) {
	currentVersion, ok := m.serializer.GetCurrentVersion(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	analysis := &EventVersionAnalysis{
		EventType:      eventType,
		CurrentVersion: currentVersion,
		VersionCounts:  make(map[int]int),
		OldestVersion:  -1,
		NewestVersion:  -1,
		TotalEvents:    len(payloads),
	}

	for _, payload := range payloads {
		analysis.tally(ExtractVersion(payload), currentVersion)
	}

	return analysis, nil
}

func (a *EventVersionAnalysis) tally(version, currentVersion int) {
	a.VersionCounts[version]++

	if a.OldestVersion == -1 || version < a.OldestVersion {
		a.OldestVersion = version
	}
	if version > a.NewestVersion {
		a.NewestVersion = version
	}

	if version < currentVersion {
		a.NeedsMigration++
	} else {
		a.UpToDate++
	}
}

// MigrationPlan lists the upgrade steps needed to bring payloads from one
// version to the current one.
type MigrationPlan struct {
	EventType        string
	FromVersion      int
	ToVersion        int
	UpgradeSteps     []UpgradeStep
	EstimatedPayload int
}

// UpgradeStep is one hop in a migration plan.
type UpgradeStep struct {
	FromVersion int
	ToVersion   int
	HasUpgrader bool
}

// CreateMigrationPlan builds the step list for an event type starting at
// fromVersion. A fromVersion at or past the current version yields an empty
// plan.
func (m *EventMigrator) CreateMigrationPlan(eventType string, fromVersion int) (*MigrationPlan, error) {
	config, ok := m.serializer.GetVersionRegistry().GetConfig(eventType)
	if !ok {
		return nil, fmt.Errorf("unknown event type: %s", eventType)
	}

	plan := &MigrationPlan{
		EventType:    eventType,
		FromVersion:  fromVersion,
		ToVersion:    config.CurrentVersion,
		UpgradeSteps: []UpgradeStep{},
	}

	for v := fromVersion; v < config.CurrentVersion; v++ {
		_, hasUpgrader := config.Upgraders[v]
		plan.UpgradeSteps = append(plan.UpgradeSteps, UpgradeStep{
			FromVersion: v,
			ToVersion:   v + 1,
			HasUpgrader: hasUpgrader,
		})
	}

	return plan, nil
}

// IsValid reports whether every step in the plan has an upgrader.
func (p *MigrationPlan) IsValid() bool {
	for _, step := range p.UpgradeSteps {
		if !step.HasUpgrader {
			return false
		}
	}
	return true
}

// CommonUpgraders builds upgraders for the usual schema edits so event types
// do not have to hand-roll the map juggling.
type CommonUpgraders struct{}

// AddField sets a new field to a default value.
func (CommonUpgraders) AddField(sourceVersion int, fieldName string, defaultValue any) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		data[fieldName] = defaultValue
		return data, nil
	})
}

// RemoveField drops a field.
func (CommonUpgraders) RemoveField(sourceVersion int, fieldName string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		delete(data, fieldName)
		return data, nil
	})
}

// RenameField moves a value to a new key, leaving absent fields alone.
func (CommonUpgraders) RenameField(sourceVersion int, oldName, newName string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[oldName]; ok {
			data[newName] = val
			delete(data, oldName)
		}
		return data, nil
	})
}

// TransformField rewrites a field value in place.
func (CommonUpgraders) TransformField(sourceVersion int, fieldName string, transform func(any) any) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = transform(val)
		}
		return data, nil
	})
}

// WrapInObject nests a field value under wrapperKey.
func (CommonUpgraders) WrapInObject(sourceVersion int, fieldName, wrapperKey string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			data[fieldName] = map[string]any{wrapperKey: val}
		}
		return data, nil
	})
}

// UnwrapFromObject lifts a nested value back out of its wrapper object.
func (CommonUpgraders) UnwrapFromObject(sourceVersion int, fieldName, wrapperKey string) *BaseEventUpgrader {
	return NewBaseEventUpgrader(sourceVersion, sourceVersion+1, func(data map[string]any) (map[string]any, error) {
		if val, ok := data[fieldName]; ok {
			if obj, ok := val.(map[string]any); ok {
				if unwrapped, ok := obj[wrapperKey]; ok {
					data[fieldName] = unwrapped
				}
			}
		}
		return data, nil
	})
}

// CopyPayload deep-copies a JSON payload via decode and re-encode.
func CopyPayload(payload []byte) ([]byte, error) {
	var data map[string]any
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, err
	}
	return json.Marshal(data)
}

// MigrationStats aggregates per-event-type upgrade counters across runs.
type MigrationStats struct {
	mu    sync.RWMutex
	stats map[string]*EventMigrationStats
}

// EventMigrationStats holds the counters for one event type.
type EventMigrationStats struct {
	EventType           string
	TotalMigrated       int64
	TotalFailed         int64
	LastMigratedAt      time.Time
	AverageDurationMs   float64
	MigrationsByVersion map[string]int64 // "v1->v2" => count
}

// NewMigrationStats creates an empty tracker.
func NewMigrationStats() *MigrationStats {
	return &MigrationStats{
		stats: make(map[string]*EventMigrationStats),
	}
}

// RecordMigration counts one upgrade attempt. Successful runs update the
// rolling average duration; failures only bump the failure counter.
func (s *MigrationStats) RecordMigration(eventType string, fromVersion, toVersion int, durationMs float64, success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := s.stats[eventType]
	if stats == nil {
		stats = &EventMigrationStats{
			EventType:           eventType,
			MigrationsByVersion: make(map[string]int64),
		}
		s.stats[eventType] = stats
	}

	if success {
		stats.TotalMigrated++
		stats.LastMigratedAt = time.Now()
		n := float64(stats.TotalMigrated)
		stats.AverageDurationMs = stats.AverageDurationMs*(n-1)/n + durationMs/n
	} else {
		stats.TotalFailed++
	}

	stats.MigrationsByVersion[fmt.Sprintf("v%d->v%d", fromVersion, toVersion)]++
}

// GetStats returns a copy of the counters for an event type.
func (s *MigrationStats) GetStats(eventType string) (*EventMigrationStats, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[eventType]
	if !ok {
		return nil, false
	}
	statsCopy := *stats
	statsCopy.MigrationsByVersion = make(map[string]int64)
	for k, v := range stats.MigrationsByVersion {
		statsCopy.MigrationsByVersion[k] = v
	}
	return &statsCopy, true
}
