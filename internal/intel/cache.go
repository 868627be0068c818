package intel

import (
	"sync"
	"time"
)

// Entry is a cached intelligence payload with its lifetime bounds.
type Entry struct {
	Data      *MarketIntelligenceData
	CreatedAt time.Time
	ExpiresAt time.Time
}

// CacheStore is the keyed entry store behind the intelligence service. The
// in-memory implementation below serves a single process; an external
// key-value store can be substituted without touching the service or the
// scoring engine.
type CacheStore interface {
	Get(key string) (*Entry, bool)
	Set(key string, entry *Entry)
	Delete(key string)
	// DeleteExpired removes entries whose ExpiresAt is at or before now and
	// returns the number removed.
	DeleteExpired(now time.Time) int
	Len() int
}

// MemoryStore is a mutex-guarded in-process CacheStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (s *MemoryStore) Get(key string) (*Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	return e, ok
}

func (s *MemoryStore) Set(key string, entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

func (s *MemoryStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *MemoryStore) DeleteExpired(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int
	for key, e := range s.entries {
		if !e.ExpiresAt.After(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
