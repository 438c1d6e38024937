package locationstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/yanqian/seven-day-fit/internal/domain/location"
)

type cachedResolution struct {
	resolution location.Resolution
	expiresAt  time.Time
}

// MemoryStore keeps resolutions and trending counters in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	resolutions map[string]cachedResolution
	counts      map[string]int64
	labels      map[string]string
	now         func() time.Time
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		resolutions: make(map[string]cachedResolution),
		counts:      make(map[string]int64),
		labels:      make(map[string]string),
		now:         time.Now,
	}
}

func (s *MemoryStore) GetResolution(_ context.Context, key string) (location.Resolution, bool, error) {
	s.mu.RLock()
	entry, ok := s.resolutions[key]
	s.mu.RUnlock()
	if !ok {
		return location.Resolution{}, false, nil
	}
	if s.expired(entry.expiresAt) {
		s.mu.Lock()
		delete(s.resolutions, key)
		s.mu.Unlock()
		return location.Resolution{}, false, nil
	}
	return entry.resolution, true, nil
}

func (s *MemoryStore) SaveResolution(_ context.Context, key string, res location.Resolution, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.resolutions[key] = cachedResolution{resolution: res, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// IncrementQuery counts one more resolution of canonical. The first display label wins.
func (s *MemoryStore) IncrementQuery(_ context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[canonical]++
	if _, ok := s.labels[canonical]; !ok && display != "" {
		s.labels[canonical] = display
	}
	return nil
}

// TopQueries orders by count, then label.
func (s *MemoryStore) TopQueries(_ context.Context, limit int) ([]location.TrendingQuery, error) {
	s.mu.RLock()
	items := make([]location.TrendingQuery, 0, len(s.counts))
	for canonical, count := range s.counts {
		label := s.labels[canonical]
		if label == "" {
			label = canonical
		}
		items = append(items, location.TrendingQuery{Query: label, Count: count})
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].Count != items[j].Count {
			return items[i].Count > items[j].Count
		}
		return items[i].Query < items[j].Query
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// Sweep drops expired resolutions and reports how many were removed.
func (s *MemoryStore) Sweep(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.resolutions {
		if s.expired(entry.expiresAt) {
			delete(s.resolutions, key)
			removed++
		}
	}
	return removed, nil
}

func (s *MemoryStore) expired(at time.Time) bool {
	return !at.IsZero() && !at.After(s.now())
}

var _ location.Store = (*MemoryStore)(nil)
