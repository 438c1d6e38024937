package searchrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/seven-day-fit/internal/domain/location"
)

func TestMemoryRepositoryRecentNewestFirst(t *testing.T) {
	repo := NewMemoryRepository(0)
	ctx := context.Background()

	for _, name := range []string{"Oslo", "Lima", "Cairo"} {
		_, err := repo.Insert(ctx, location.SearchRecord{Input: name, DisplayName: name})
		require.NoError(t, err)
	}

	records, err := repo.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "Cairo", records[0].Input)
	require.Equal(t, int64(3), records[0].ID)
	require.Equal(t, "Lima", records[1].Input)
}

func TestMemoryRepositoryCapacity(t *testing.T) {
	repo := NewMemoryRepository(2)
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		_, err := repo.Insert(ctx, location.SearchRecord{Input: name})
		require.NoError(t, err)
	}

	records, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "c", records[0].Input)
	require.Equal(t, "b", records[1].Input)
}
