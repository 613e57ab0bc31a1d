package cache

import (
	"context"
	"time"
)

// Cache is the Redis-backed cache and event-mirror interface used by the
// analytics and notification layers.
type Cache interface {
	// Get retrieves a value by key.
	Get(ctx context.Context, key string) (string, error)

	// Set stores a value with a TTL. A zero TTL means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes a key.
	Delete(ctx context.Context, key string) error

	// GetJSON retrieves and unmarshals JSON data.
	GetJSON(ctx context.Context, key string, dest interface{}) error

	// SetJSON marshals and stores JSON data.
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// PublishJSON marshals value and publishes it on a pub/sub channel so
	// other service instances can mirror events.
	PublishJSON(ctx context.Context, channel string, value interface{}) error

	// Ping verifies the connection is alive.
	Ping(ctx context.Context) error

	// Close closes the connection.
	Close() error
}

// Key prefixes and channels. Shared with any sibling instance reading the
// same Redis, so they never change casually.
const (
	DashboardStatsKey = "fds:analytics:dashboard"
	TrendsKeyPrefix   = "fds:analytics:trends:"

	FraudEventChannel = "fds:events:fraud"
)

// ErrCacheKeyNotFound is returned when a key does not exist.
type ErrCacheKeyNotFound struct {
	Key string
}

func (e ErrCacheKeyNotFound) Error() string {
	return "cache key not found: " + e.Key
}
