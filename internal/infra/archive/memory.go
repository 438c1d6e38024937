package archive

import (
	"context"
	"sync"

	"github.com/yanqian/seven-day-fit/internal/domain/forecast"
)

type blob struct {
	key      string
	data     []byte
	mimeType string
}

// MemoryArchive keeps the most recent payloads in a ring. Useful for local dev.
type MemoryArchive struct {
	mu       sync.RWMutex
	capacity int
	blobs    []blob
}

// NewMemoryArchive keeps at most capacity payloads; non-positive means 64.
func NewMemoryArchive(capacity int) *MemoryArchive {
	if capacity <= 0 {
		capacity = 64
	}
	return &MemoryArchive{capacity: capacity}
}

func (a *MemoryArchive) Put(_ context.Context, key string, data []byte, mimeType string) error {
	copied := append([]byte(nil), data...)
	a.mu.Lock()
	defer a.mu.Unlock()
	a.blobs = append(a.blobs, blob{key: key, data: copied, mimeType: mimeType})
	if len(a.blobs) > a.capacity {
		a.blobs = a.blobs[len(a.blobs)-a.capacity:]
	}
	return nil
}

// Get returns the newest payload stored under key.
func (a *MemoryArchive) Get(key string) ([]byte, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for i := len(a.blobs) - 1; i >= 0; i-- {
		if a.blobs[i].key == key {
			return a.blobs[i].data, true
		}
	}
	return nil, false
}

// Keys lists retained keys, oldest first.
func (a *MemoryArchive) Keys() []string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	keys := make([]string, 0, len(a.blobs))
	for _, b := range a.blobs {
		keys = append(keys, b.key)
	}
	return keys
}

var _ forecast.Archive = (*MemoryArchive)(nil)
