package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed event IDs so bus subscribers can
// drop redeliveries.
type IdempotencyStore interface {
	// MarkProcessed records an event ID with a TTL. It returns true when
	// the ID was newly recorded, false when it was already present.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether an event ID has been recorded.
	IsProcessed(ctx context.Context, eventID string) (bool, error)

	Close() error
}

// IdempotencyConfig tunes duplicate-event suppression.
type IdempotencyConfig struct {
	// TTL is how long a processed event ID is remembered. After it
	// expires the same ID would be processed again.
	TTL time.Duration

	// Enabled turns the duplicate check on or off.
	Enabled bool
}

// DefaultIdempotencyConfig remembers event IDs for 24 hours.
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
