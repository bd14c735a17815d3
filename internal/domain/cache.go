package domain

import (
	"context"
	"time"
)

// NoExpiry marks cache entries that never expire (validation verdicts).
const NoExpiry time.Duration = 0

// CacheStore is a key-value store with per-entry TTL. Implementations must
// fail soft: a backend outage reads as a miss and drops writes silently, it
// never propagates an error to the caller.
type CacheStore interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}
