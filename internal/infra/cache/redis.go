package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kaushik-07/BrandRanker/internal/metrics"
)

// RedisStore is a shared cache over Redis GET/SETEX semantics. Connectivity
// failures degrade to cache misses on read and dropped writes; they are
// logged but never returned to the caller.
type RedisStore struct {
	client    *redis.Client
	collector *metrics.Collector
	logger    *slog.Logger
}

// NewRedisStore wraps an already-constructed Redis client.
func NewRedisStore(client *redis.Client, collector *metrics.Collector, logger *slog.Logger) *RedisStore {
	return &RedisStore{
		client:    client,
		collector: collector,
		logger:    logger,
	}
}

// NewRedisClient builds the Redis client from connection parameters.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func (s *RedisStore) Get(ctx context.Context, key string) (string, bool) {
	value, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("redis get failed, treating as miss",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		s.collector.CacheMiss()
		return "", false
	}
	s.collector.CacheHit()
	return value, true
}

func (s *RedisStore) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("redis set failed, dropping write",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}

// Ping reports whether the Redis backend is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
