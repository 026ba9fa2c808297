package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

// MemoryStore implements Store with an in-process map. It backs redis-less
// deployments and tests. Expired entries are dropped lazily on read.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// NewMemoryStoreWithClock creates an in-memory store with an injected clock,
// so tests can simulate TTL expiry without sleeping.
func NewMemoryStoreWithClock(now func() time.Time) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     now,
	}
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !entry.expiresAt.IsZero() && s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set implements Store. Last write wins on same-key races.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = entry
	s.mu.Unlock()
	return nil
}

// Len reports the number of live entries, expired ones included until read.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
