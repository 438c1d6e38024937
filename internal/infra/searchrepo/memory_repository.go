package searchrepo

import (
	"context"
	"sync"

	"github.com/yanqian/seven-day-fit/internal/domain/location"
)

// MemoryRepository keeps the newest records in a bounded slice.
type MemoryRepository struct {
	mu       sync.RWMutex
	nextID   int64
	capacity int
	records  []location.SearchRecord
}

// NewMemoryRepository keeps at most capacity rows; non-positive means 1000.
func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = 1000
	}
	return &MemoryRepository{nextID: 1, capacity: capacity}
}

func (r *MemoryRepository) Insert(_ context.Context, record location.SearchRecord) (location.SearchRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record.ID = r.nextID
	r.nextID++
	r.records = append(r.records, record)
	if overflow := len(r.records) - r.capacity; overflow > 0 {
		r.records = append([]location.SearchRecord(nil), r.records[overflow:]...)
	}
	return record, nil
}

// Recent returns newest first.
func (r *MemoryRepository) Recent(_ context.Context, limit int) ([]location.SearchRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if limit <= 0 || limit > len(r.records) {
		limit = len(r.records)
	}
	out := make([]location.SearchRecord, 0, limit)
	for i := len(r.records) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.records[i])
	}
	return out, nil
}

var _ location.HistoryRepository = (*MemoryRepository)(nil)
