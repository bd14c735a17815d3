// Package cache provides the key-value stores backing ranking results and
// validation verdicts: a bounded in-process store and an optional shared
// Redis store. Both fail soft and report hit/miss signals.
package cache

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// MemoryStore is an in-process cache with LRU eviction and per-entry TTL.
type MemoryStore struct {
	entries   *lru.Cache[string, memoryEntry]
	collector *metrics.Collector
	now       func() time.Time
}

// NewMemoryStore creates a store holding at most size entries.
func NewMemoryStore(size int, collector *metrics.Collector) (*MemoryStore, error) {
	entries, err := lru.New[string, memoryEntry](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{
		entries:   entries,
		collector: collector,
		now:       time.Now,
	}, nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool) {
	entry, ok := s.entries.Get(key)
	if ok && entry.expired(s.now()) {
		s.entries.Remove(key)
		ok = false
	}
	if !ok {
		s.collector.CacheMiss()
		return "", false
	}
	s.collector.CacheHit()
	return entry.value, true
}

func (s *MemoryStore) Set(_ context.Context, key, value string, ttl time.Duration) {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}
	s.entries.Add(key, entry)
}

// Len reports the number of live entries, expired ones included until read.
func (s *MemoryStore) Len() int {
	return s.entries.Len()
}
