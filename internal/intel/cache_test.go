package intel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entryAt(created time.Time, ttl time.Duration) *Entry {
	return &Entry{
		Data:      &MarketIntelligenceData{Company: "x"},
		CreatedAt: created,
		ExpiresAt: created.Add(ttl),
	}
}

func TestMemoryStore_SetGetDelete(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	_, ok := s.Get("techcorp")
	assert.False(t, ok)

	s.Set("techcorp", entryAt(now, time.Minute))
	e, ok := s.Get("techcorp")
	require.True(t, ok)
	assert.Equal(t, "x", e.Data.Company)
	assert.Equal(t, 1, s.Len())

	s.Delete("techcorp")
	_, ok = s.Get("techcorp")
	assert.False(t, ok)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_DeleteExpired(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	s.Set("expired-a", entryAt(now.Add(-20*time.Minute), 10*time.Minute))
	s.Set("expired-b", entryAt(now.Add(-11*time.Minute), 10*time.Minute))
	s.Set("fresh", entryAt(now, 10*time.Minute))

	removed := s.DeleteExpired(now)
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, s.Len())

	_, ok := s.Get("fresh")
	assert.True(t, ok)
}

func TestMemoryStore_DeleteExpiredBoundary(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	// An entry expiring exactly now is no longer fresh.
	s.Set("edge", entryAt(now.Add(-10*time.Minute), 10*time.Minute))
	assert.Equal(t, 1, s.DeleteExpired(now))
}
