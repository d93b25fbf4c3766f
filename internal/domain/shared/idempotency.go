package shared

import (
	"context"
	"time"
)

// IdempotencyStore stores request keys to prevent duplicate writes.
// Two concurrent submissions of the same payment carry the same key;
// only the first caller to claim it proceeds.
type IdempotencyStore interface {
	// MarkProcessed claims a key with a TTL. Returns true if the key was
	// newly claimed, false if another request already holds it.
	MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// IsProcessed reports whether a key has already been claimed.
	IsProcessed(ctx context.Context, key string) (bool, error)

	// Close releases store resources.
	Close() error
}

// IdempotencyConfig holds configuration for idempotency handling
type IdempotencyConfig struct {
	// TTL is the time-to-live for claimed keys. After it expires the
	// same key can be submitted again.
	TTL time.Duration

	// Enabled determines whether idempotency checking is enabled
	Enabled bool
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		TTL:     24 * time.Hour,
		Enabled: true,
	}
}
