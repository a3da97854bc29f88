package clickhouse

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"viwo-token-lab/internal/domain"
	"viwo-token-lab/internal/storage"
)

func TestRewardDistributionStore_InsertBulkAndGet(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRewardDistributionStore(conn)
	ctx := context.Background()

	dists := []*domain.RewardDistribution{
		{
			TotalReward:        100,
			CreatorReward:      40,
			SharePool:          15,
			ReportPool:         5,
			LikePool:           8,
			DislikePool:        2,
			CommentPool:        10,
			SharePerAction:     0.5,
			PlatformCommission: 10,
			NFTRoyaltyPool:     10,
		},
		{
			TotalReward:   50,
			CreatorReward: 20,
		},
	}

	err := store.InsertBulk(ctx, "run1", 0, dists)
	require.NoError(t, err)

	got, err := store.GetByRunDay(ctx, "run1", 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Insertion order preserved
	require.Equal(t, 100.0, got[0].TotalReward)
	require.Equal(t, 40.0, got[0].CreatorReward)
	require.Equal(t, 15.0, got[0].SharePool)
	require.Equal(t, 0.5, got[0].SharePerAction)
	require.Equal(t, 50.0, got[1].TotalReward)
}

func TestRewardDistributionStore_AppendSamePage(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRewardDistributionStore(conn)
	ctx := context.Background()

	err := store.InsertBulk(ctx, "run1", 3, []*domain.RewardDistribution{{TotalReward: 1}})
	require.NoError(t, err)

	err = store.InsertBulk(ctx, "run1", 3, []*domain.RewardDistribution{{TotalReward: 2}})
	require.NoError(t, err)

	got, err := store.GetByRunDay(ctx, "run1", 3)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 1.0, got[0].TotalReward)
	require.Equal(t, 2.0, got[1].TotalReward)
}

func TestRewardDistributionStore_PageIsolation(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewRewardDistributionStore(conn)
	ctx := context.Background()

	err := store.InsertBulk(ctx, "run1", 0, []*domain.RewardDistribution{{TotalReward: 1}})
	require.NoError(t, err)
	err = store.InsertBulk(ctx, "run1", 1, []*domain.RewardDistribution{{TotalReward: 2}})
	require.NoError(t, err)
	err = store.InsertBulk(ctx, "run2", 0, []*domain.RewardDistribution{{TotalReward: 3}})
	require.NoError(t, err)

	got, err := store.GetByRunDay(ctx, "run1", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1.0, got[0].TotalReward)

	empty, err := store.GetByRunDay(ctx, "run1", 2)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRewardDistributionStore_InvalidInput(t *testing.T) {
	store := NewRewardDistributionStore(nil)
	ctx := context.Background()

	err := store.InsertBulk(ctx, "", 0, nil)
	require.True(t, errors.Is(err, storage.ErrInvalidInput))

	err = store.InsertBulk(ctx, "run1", -1, nil)
	require.True(t, errors.Is(err, storage.ErrInvalidInput))

	err = store.InsertBulk(ctx, "run1", 0, []*domain.RewardDistribution{nil})
	require.True(t, errors.Is(err, storage.ErrInvalidInput))
}
