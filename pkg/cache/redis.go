package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisStore implements Store on a Redis backend. Backend failures degrade
// to always-miss behavior instead of failing the request.
type RedisStore struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisStore creates a Redis-backed store.
// If logger is nil, a no-op logger is used.
func NewRedisStore(client *redis.Client, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, logger: logger.Named("cache")}
}

// Get implements Store.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		s.logger.Warn("cache get failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
		return nil, false
	}
	return raw, true
}

// Set implements Store. Errors are logged and swallowed; the cache is
// advisory.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		s.logger.Warn("cache set failed",
			zap.String("key", key),
			zap.Error(err))
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
