package location

import (
	"context"
	"time"
)

// Store caches resolutions and counts how often places are resolved.
type Store interface {
	GetResolution(ctx context.Context, key string) (Resolution, bool, error)
	SaveResolution(ctx context.Context, key string, res Resolution, ttl time.Duration) error
	IncrementQuery(ctx context.Context, canonical, display string) error
	TopQueries(ctx context.Context, limit int) ([]TrendingQuery, error)
}

// HistoryRepository persists resolution history.
type HistoryRepository interface {
	Insert(ctx context.Context, record SearchRecord) (SearchRecord, error)
	Recent(ctx context.Context, limit int) ([]SearchRecord, error)
}
