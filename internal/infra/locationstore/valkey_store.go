package locationstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/seven-day-fit/internal/domain/location"
)

// ValkeyStore keeps resolutions as JSON strings with EX and trending counts in a sorted set.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store under the given key prefix.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "sdf"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) GetResolution(ctx context.Context, key string) (location.Resolution, bool, error) {
	payload, err := s.client.Do(ctx, s.client.B().Get().Key(s.resolutionKey(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return location.Resolution{}, false, nil
		}
		return location.Resolution{}, false, err
	}
	var res location.Resolution
	if err := json.Unmarshal([]byte(payload), &res); err != nil {
		return location.Resolution{}, false, err
	}
	return res, true, nil
}

func (s *ValkeyStore) SaveResolution(ctx context.Context, key string, res location.Resolution, ttl time.Duration) error {
	payload, err := json.Marshal(res)
	if err != nil {
		return err
	}
	set := s.client.B().Set().Key(s.resolutionKey(key)).Value(string(payload))
	if ttl <= 0 {
		return s.client.Do(ctx, set.Build()).Error()
	}
	if ttl < time.Second {
		ttl = time.Second
	}
	return s.client.Do(ctx, set.Ex(ttl).Build()).Error()
}

func (s *ValkeyStore) IncrementQuery(ctx context.Context, canonical, display string) error {
	if canonical == "" {
		return nil
	}
	incr := s.client.B().Zincrby().Key(s.trendingKey()).Increment(1).Member(canonical).Build()
	if err := s.client.Do(ctx, incr).Error(); err != nil {
		return err
	}
	if display == "" {
		return nil
	}
	// NX keeps the first label ever seen for a place.
	return s.client.Do(ctx, s.client.B().Set().Key(s.labelKey(canonical)).Value(display).Nx().Build()).Error()
}

func (s *ValkeyStore) TopQueries(ctx context.Context, limit int) ([]location.TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	cmd := s.client.B().Zrevrange().Key(s.trendingKey()).Start(0).Stop(int64(limit - 1)).Withscores().Build()
	entries, err := s.client.Do(ctx, cmd).AsZScores()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return []location.TrendingQuery{}, nil
		}
		return nil, err
	}
	out := make([]location.TrendingQuery, 0, len(entries))
	for _, entry := range entries {
		out = append(out, location.TrendingQuery{Query: s.label(ctx, entry.Member), Count: int64(entry.Score)})
	}
	return out, nil
}

// Sweep is a no-op; valkey expires resolution keys on its own.
func (s *ValkeyStore) Sweep(context.Context) (int, error) {
	return 0, nil
}

func (s *ValkeyStore) label(ctx context.Context, canonical string) string {
	display, err := s.client.Do(ctx, s.client.B().Get().Key(s.labelKey(canonical)).Build()).ToString()
	if err != nil || display == "" {
		return canonical
	}
	return display
}

func (s *ValkeyStore) resolutionKey(key string) string {
	return s.prefix + ":" + key
}

func (s *ValkeyStore) trendingKey() string {
	return s.prefix + ":trending"
}

func (s *ValkeyStore) labelKey(canonical string) string {
	return s.prefix + ":label:" + canonical
}

var _ location.Store = (*ValkeyStore)(nil)
