package store

import (
	"errors"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"

	"github.com/i474232898/forecast-board/internal/weather"
)

var (
	// ErrNotFound is returned when no fresh snapshot is cached for a location.
	ErrNotFound = errors.New("no forecast cached for location")
)

type entry struct {
	snapshot weather.Snapshot
	storedAt time.Time
}

// MemoryStore is a concurrency-safe in-memory forecast cache.
type MemoryStore struct {
	mu    sync.RWMutex
	clock clock.Clock

	// key: location key
	data map[string]*entry

	// retention configuration
	maxEntries int           // max number of cached locations
	maxAge     time.Duration // snapshots older than this are treated as missing
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxEntries or maxAge is <= 0, it is treated as unlimited.
func NewMemoryStore(maxEntries int, maxAge time.Duration) *MemoryStore {
	return NewMemoryStoreWithClock(maxEntries, maxAge, clock.NewClock())
}

// NewMemoryStoreWithClock is NewMemoryStore with an explicit clock.
func NewMemoryStoreWithClock(maxEntries int, maxAge time.Duration, c clock.Clock) *MemoryStore {
	return &MemoryStore{
		clock:      c,
		data:       make(map[string]*entry),
		maxEntries: maxEntries,
		maxAge:     maxAge,
	}
}

// SaveSnapshot replaces the cached snapshot for its location and enforces
// retention.
func (s *MemoryStore) SaveSnapshot(snapshot weather.Snapshot) {
	key := snapshot.Location.Key()
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[key] = &entry{snapshot: snapshot, storedAt: now}

	// Enforce retention by age.
	if s.maxAge > 0 {
		cutoff := now.Add(-s.maxAge)
		for k, e := range s.data {
			if e.storedAt.Before(cutoff) {
				delete(s.data, k)
			}
		}
	}

	// Enforce retention by count, evicting the oldest first.
	for s.maxEntries > 0 && len(s.data) > s.maxEntries {
		oldestKey := ""
		var oldest time.Time
		for k, e := range s.data {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = k
				oldest = e.storedAt
			}
		}
		delete(s.data, oldestKey)
	}
}

// GetLatest returns the cached snapshot for a location if it is still fresh.
func (s *MemoryStore) GetLatest(loc weather.Location) (weather.Snapshot, error) {
	key := loc.Key()

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.data[key]
	if !ok {
		return weather.Snapshot{}, ErrNotFound
	}
	if s.maxAge > 0 && s.clock.Since(e.storedAt) > s.maxAge {
		return weather.Snapshot{}, ErrNotFound
	}
	return e.snapshot, nil
}

// Len returns the number of cached locations.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
