package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// unreachableRedisClient connects to a port nothing listens on, so every
// command fails at dial time.
func unreachableRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestRedisStore_GetDegradesToMissWhenBackendUnavailable(t *testing.T) {
	store := NewRedisStore(unreachableRedisClient(), zap.NewNop())

	if _, ok := store.Get(context.Background(), "k"); ok {
		t.Error("expected a miss when the backend is unreachable")
	}
}

func TestRedisStore_SetSwallowsBackendFailure(t *testing.T) {
	store := NewRedisStore(unreachableRedisClient(), zap.NewNop())

	if err := store.Set(context.Background(), "k", []byte("v"), time.Minute); err != nil {
		t.Errorf("expected nil from Set with an unreachable backend, got %v", err)
	}
}

func TestRedisStore_GetJSONMissWhenBackendUnavailable(t *testing.T) {
	store := NewRedisStore(unreachableRedisClient(), zap.NewNop())

	var out string
	if GetJSON(context.Background(), store, "k", &out) {
		t.Error("expected GetJSON to report a miss when the backend is unreachable")
	}
}
