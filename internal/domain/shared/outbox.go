package shared

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// OutboxStatus tracks an entry through the relay lifecycle. Entries
// move PENDING -> PROCESSING -> SENT, detour through FAILED while they
// still have retry budget, and end in DEAD when it runs out.
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "PENDING"
	OutboxStatusProcessing OutboxStatus = "PROCESSING"
	OutboxStatusSent       OutboxStatus = "SENT"
	OutboxStatusFailed     OutboxStatus = "FAILED"
	OutboxStatusDead       OutboxStatus = "DEAD"
)

const (
	DefaultMaxRetries  = 5
	DefaultBaseBackoff = time.Second
)

// OutboxEntry is one serialized domain event awaiting delivery. It is
// written in the same transaction as the aggregate change that raised
// the event.
type OutboxEntry struct {
	ID            uuid.UUID    `gorm:"type:uuid;primaryKey"`
	EventID       uuid.UUID    `gorm:"type:uuid;not null;uniqueIndex"`
	EventType     string       `gorm:"type:varchar(255);not null"`
	AggregateID   uuid.UUID    `gorm:"type:uuid;not null"`
	AggregateType string       `gorm:"type:varchar(255);not null"`
	Payload       []byte       `gorm:"type:jsonb;not null"`
	Status        OutboxStatus `gorm:"type:varchar(20);default:PENDING;index:idx_outbox_status_created,priority:1"`
	RetryCount    int          `gorm:"default:0"`
	MaxRetries    int          `gorm:"default:5"`
	LastError     string       `gorm:"type:text"`
	NextRetryAt   *time.Time   `gorm:"index:idx_outbox_next_retry"`
	ProcessedAt   *time.Time
	CreatedAt     time.Time `gorm:"not null;index:idx_outbox_status_created,priority:2"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (OutboxEntry) TableName() string {
	return "outbox_events"
}

// NewOutboxEntry wraps a serialized domain event in a pending entry.
func NewOutboxEntry(event DomainEvent, payload []byte) *OutboxEntry {
	now := time.Now()
	return &OutboxEntry{
		ID:            uuid.New(),
		EventID:       event.EventID(),
		EventType:     event.EventType(),
		AggregateID:   event.AggregateID(),
		AggregateType: event.AggregateType(),
		Payload:       payload,
		Status:        OutboxStatusPending,
		MaxRetries:    DefaultMaxRetries,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// CanRetry reports whether the entry failed with retry budget left.
func (e *OutboxEntry) CanRetry() bool {
	return e.Status == OutboxStatusFailed && e.RetryCount < e.MaxRetries
}

// MarkProcessing claims the entry for delivery. Only pending and
// failed entries can be claimed.
func (e *OutboxEntry) MarkProcessing() error {
	if e.Status != OutboxStatusPending && e.Status != OutboxStatusFailed {
		return errors.New("can only mark pending or failed entries as processing")
	}
	e.Status = OutboxStatusProcessing
	e.UpdatedAt = time.Now()
	return nil
}

// MarkSent records a successful delivery.
func (e *OutboxEntry) MarkSent() {
	now := time.Now()
	e.Status = OutboxStatusSent
	e.ProcessedAt = &now
	e.UpdatedAt = now
}

// MarkFailed records a delivery failure. The next attempt is scheduled
// with exponential backoff (1s, 2s, 4s, ...); once the retry budget is
// spent the entry goes to the dead letter queue.
func (e *OutboxEntry) MarkFailed(errMsg string) {
	e.RetryCount++
	e.LastError = errMsg
	e.UpdatedAt = time.Now()

	if e.RetryCount >= e.MaxRetries {
		e.Status = OutboxStatusDead
		return
	}

	e.Status = OutboxStatusFailed
	backoff := DefaultBaseBackoff * time.Duration(1<<uint(e.RetryCount-1))
	nextRetry := time.Now().Add(backoff)
	e.NextRetryAt = &nextRetry
}

// ResetForRetry requeues a dead letter entry with a fresh retry
// budget. Used by the operator endpoints.
func (e *OutboxEntry) ResetForRetry() error {
	if e.Status != OutboxStatusDead {
		return errors.New("can only retry dead letter entries")
	}
	e.Status = OutboxStatusPending
	e.RetryCount = 0
	e.LastError = ""
	e.NextRetryAt = nil
	e.UpdatedAt = time.Now()
	return nil
}

func (e *OutboxEntry) IsDead() bool {
	return e.Status == OutboxStatusDead
}

// OutboxRepository is the persistence port for outbox entries.
type OutboxRepository interface {
	Save(ctx context.Context, entries ...*OutboxEntry) error
	// FindPending returns the oldest pending entries first.
	FindPending(ctx context.Context, limit int) ([]*OutboxEntry, error)
	// FindRetryable returns failed entries whose next retry is due.
	FindRetryable(ctx context.Context, before time.Time, limit int) ([]*OutboxEntry, error)
	// FindDead pages through the dead letter queue.
	FindDead(ctx context.Context, page, pageSize int) ([]*OutboxEntry, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*OutboxEntry, error)
	// MarkProcessing atomically claims the given entries and returns
	// the ones actually claimed.
	MarkProcessing(ctx context.Context, ids []uuid.UUID) ([]*OutboxEntry, error)
	Update(ctx context.Context, entry *OutboxEntry) error
	// DeleteOlderThan prunes sent entries processed before the cutoff.
	DeleteOlderThan(ctx context.Context, before time.Time) (int64, error)
	CountByStatus(ctx context.Context) (map[OutboxStatus]int64, error)
}
