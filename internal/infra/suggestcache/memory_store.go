package suggestcache

import (
	"context"
	"sync"
	"time"

	"github.com/gotouchgrass/api/internal/domain/verification"
)

type cachedList struct {
	activities []string
	expiresAt  time.Time
}

// MemoryStore is the in-process suggestion cache used for tests/dev and as
// the fallback when no Valkey instance is configured.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]cachedList
}

// NewMemoryStore constructs a cache backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]cachedList)}
}

// Get implements verification.SuggestionStore.
func (s *MemoryStore) Get(_ context.Context, city string) ([]string, bool, error) {
	if city == "" {
		return nil, false, nil
	}
	s.mu.RLock()
	entry, ok := s.entries[city]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if hasExpired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, city)
		s.mu.Unlock()
		return nil, false, nil
	}
	out := make([]string, len(entry.activities))
	copy(out, entry.activities)
	return out, true, nil
}

// Save caches the list with optional TTL.
func (s *MemoryStore) Save(_ context.Context, city string, activities []string, ttl time.Duration) error {
	if city == "" || len(activities) == 0 {
		return nil
	}
	exp := time.Time{}
	if ttl > 0 {
		exp = time.Now().Add(ttl)
	}
	stored := make([]string, len(activities))
	copy(stored, activities)
	s.mu.Lock()
	s.entries[city] = cachedList{activities: stored, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

func hasExpired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(time.Now())
}

var _ verification.SuggestionStore = (*MemoryStore)(nil)
