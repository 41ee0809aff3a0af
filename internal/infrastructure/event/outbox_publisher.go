package event

import (
	"context"
	"fmt"

	"github.com/promoshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// OutboxPublisher converts domain events into outbox rows inside the
// caller's transaction, so an order that commits always commits its
// events with it.
type OutboxPublisher struct {
	serializer Serializer
}

func NewOutboxPublisher(serializer Serializer) *OutboxPublisher {
	return &OutboxPublisher{serializer: serializer}
}

// PublishWithTx serializes each event and stores it through the given
// transaction. Nothing is written when the event list is empty.
func (p *OutboxPublisher) PublishWithTx(ctx context.Context, tx *gorm.DB, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	entries := make([]*shared.OutboxEntry, 0, len(events))
	for _, evt := range events {
		payload, err := p.serializer.Serialize(evt)
		if err != nil {
			return err
		}
		entries = append(entries, shared.NewOutboxEntry(evt, payload))
	}

	return NewGormOutboxRepository(tx).Save(ctx, entries...)
}

// SaveEvents implements shared.OutboxEventSaver. The repository layer
// hands us its transaction as an opaque value to keep the domain free
// of gorm imports.
func (p *OutboxPublisher) SaveEvents(ctx context.Context, txProvider interface{}, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("txProvider must be a *gorm.DB, got %T", txProvider)
	}
	return p.PublishWithTx(ctx, tx, events...)
}

var _ shared.OutboxEventSaver = (*OutboxPublisher)(nil)
