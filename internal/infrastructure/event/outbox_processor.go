package event

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promoshop/backend/internal/domain/shared"
)

// OutboxProcessorConfig tunes the background relay that drains the outbox
// table into the event bus.
type OutboxProcessorConfig struct {
	BatchSize        int
	PollInterval     time.Duration
	CleanupEnabled   bool
	CleanupRetention time.Duration
	CleanupInterval  time.Duration
}

func DefaultOutboxProcessorConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:        100,
		PollInterval:     5 * time.Second,
		CleanupEnabled:   true,
		CleanupRetention: 7 * 24 * time.Hour,
		CleanupInterval:  1 * time.Hour,
	}
}

// OutboxProcessor polls the outbox for pending and retryable entries,
// republishes them on the event bus and prunes sent entries after the
// retention window. Entries are claimed atomically so multiple instances
// can run against the same table.
type OutboxProcessor struct {
	repo       shared.OutboxRepository
	eventBus   shared.EventBus
	serializer Serializer
	migrator   *EventMigrator
	config     OutboxProcessorConfig
	logger     *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewOutboxProcessor(
	repo shared.OutboxRepository,
	eventBus shared.EventBus,
	serializer Serializer,
	config OutboxProcessorConfig,
	logger *zap.Logger,
) *OutboxProcessor {
	p := &OutboxProcessor{
		repo:       repo,
		eventBus:   eventBus,
		serializer: serializer,
		config:     config,
		logger:     logger,
	}
	if versioned, ok := serializer.(*VersionedSerializer); ok {
		p.migrator = NewEventMigrator(versioned, logger)
	}
	return p
}

// Start launches the polling goroutine, and the cleanup goroutine when
// cleanup is enabled. It returns immediately.
func (p *OutboxProcessor) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.runTicker(ctx, p.config.PollInterval, p.drainOnce)

	if p.config.CleanupEnabled {
		p.wg.Add(1)
		go p.runTicker(ctx, p.config.CleanupInterval, p.pruneSent)
	}

	p.logger.Info("outbox processor started",
		zap.Int("batch_size", p.config.BatchSize),
		zap.Duration("poll_interval", p.config.PollInterval),
	)
	return nil
}

// Stop cancels the loops and waits for in-flight work, bounded by ctx.
func (p *OutboxProcessor) Stop(ctx context.Context) error {
	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("outbox processor stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *OutboxProcessor) runTicker(ctx context.Context, interval time.Duration, fn func(context.Context)) {
	defer p.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn(ctx)
		}
	}
}

// drainOnce relays one batch of pending entries, then one batch of entries
// whose retry backoff has elapsed.
func (p *OutboxProcessor) drainOnce(ctx context.Context) {
	pending, err := p.repo.FindPending(ctx, p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find pending entries", zap.Error(err))
		return
	}
	p.relay(ctx, pending)

	retryable, err := p.repo.FindRetryable(ctx, time.Now(), p.config.BatchSize)
	if err != nil {
		p.logger.Error("failed to find retryable entries", zap.Error(err))
		return
	}
	p.relay(ctx, retryable)
}

func (p *OutboxProcessor) relay(ctx context.Context, entries []*shared.OutboxEntry) {
	if len(entries) == 0 {
		return
	}

	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}

	// MarkProcessing claims entries with a conditional update, so an entry
	// grabbed by a concurrent instance simply drops out of the result.
	claimed, err := p.repo.MarkProcessing(ctx, ids)
	if err != nil {
		p.logger.Error("failed to mark entries as processing", zap.Error(err))
		return
	}

	for _, entry := range claimed {
		p.relayEntry(ctx, entry)
	}
}

func (p *OutboxProcessor) relayEntry(ctx context.Context, entry *shared.OutboxEntry) {
	if p.migrator != nil {
		p.freshenPayload(ctx, entry)
	}

	evt, err := p.serializer.Deserialize(entry.EventType, entry.Payload)
	if err != nil {
		p.logger.Error("failed to deserialize event",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Error(err),
		)
		p.recordFailure(ctx, entry, err)
		return
	}

	if err := p.eventBus.Publish(ctx, evt); err != nil {
		p.logger.Error("failed to publish event",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Error(err),
		)
		p.recordFailure(ctx, entry, err)
		return
	}

	entry.MarkSent()
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to mark entry as sent",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
		return
	}
	p.logger.Debug("event relayed",
		zap.String("event_id", entry.EventID.String()),
		zap.String("event_type", entry.EventType),
	)
}

// freshenPayload rewrites a stored payload whose schema is older than the
// current one, so retries and dead-letter inspection always show the shape
// handlers expect. An upgrade failure leaves the payload alone; the relay
// below produces the real error path then.
func (p *OutboxProcessor) freshenPayload(ctx context.Context, entry *shared.OutboxEntry) {
	upgraded, version, err := p.migrator.MigratePayload(entry.EventType, entry.Payload)
	if err != nil {
		p.logger.Warn("failed to upgrade stored payload",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.Error(err),
		)
		return
	}
	if version == ExtractVersion(entry.Payload) {
		return
	}

	entry.Payload = upgraded
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to persist upgraded payload",
			zap.String("event_id", entry.EventID.String()),
			zap.Error(err),
		)
	}
}

// recordFailure bumps the retry counter and persists the entry. Once the
// retry budget is exhausted the entry parks in the dead letter state, where
// it waits for manual retry or inspection.
func (p *OutboxProcessor) recordFailure(ctx context.Context, entry *shared.OutboxEntry, cause error) {
	entry.MarkFailed(cause.Error())
	if entry.IsDead() {
		p.logger.Warn("event moved to dead letter queue",
			zap.String("event_id", entry.EventID.String()),
			zap.String("event_type", entry.EventType),
			zap.String("aggregate_type", entry.AggregateType),
			zap.String("aggregate_id", entry.AggregateID.String()),
			zap.Int("retry_count", entry.RetryCount),
			zap.String("last_error", entry.LastError),
		)
	}
	if err := p.repo.Update(ctx, entry); err != nil {
		p.logger.Error("failed to update entry", zap.Error(err))
	}
}

// pruneSent deletes entries that finished before the retention cutoff.
func (p *OutboxProcessor) pruneSent(ctx context.Context) {
	cutoff := time.Now().Add(-p.config.CleanupRetention)
	deleted, err := p.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		p.logger.Error("failed to cleanup old entries", zap.Error(err))
		return
	}
	if deleted > 0 {
		p.logger.Info("cleaned up old outbox entries",
			zap.Int64("deleted", deleted),
			zap.Time("cutoff", cutoff),
		)
	}
}
