package statistic

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/testutil"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// fakeRedis keeps sorted sets in memory with just enough behavior for the
// leaderboard: existence, upsert, increment, reverse range.
func fakeRedis() *testutil.MockRedisClient {
	sets := map[string]map[string]float64{}

	return &testutil.MockRedisClient{
		ExistFunc: func(ctx context.Context, key string) (bool, error) {
			_, ok := sets[key]
			return ok, nil
		},
		ZAddFunc: func(ctx context.Context, key string, z redis.Z) error {
			if sets[key] == nil {
				sets[key] = map[string]float64{}
			}

			sets[key][z.Member.(string)] = z.Score
			return nil
		},
		ZIncrByFunc: func(ctx context.Context, key string, incr int64, member string) error {
			if sets[key] == nil {
				sets[key] = map[string]float64{}
			}

			sets[key][member] += float64(incr)
			return nil
		},
		ZRevRangeWithScoresFunc: func(ctx context.Context, key string, offset, limit int) ([]redis.Z, error) {
			var result []redis.Z
			for member, score := range sets[key] {
				result = append(result, redis.Z{Member: member, Score: score})
			}

			sort.Slice(result, func(i, j int) bool { return result[i].Score > result[j].Score })
			if offset >= len(result) {
				return nil, nil
			}

			end := offset + limit
			if end > len(result) {
				end = len(result)
			}

			return result[offset:end], nil
		},
		ZRevRankFunc: func(ctx context.Context, key string, member string) (uint64, error) {
			var result []redis.Z
			for m, score := range sets[key] {
				result = append(result, redis.Z{Member: m, Score: score})
			}

			sort.Slice(result, func(i, j int) bool { return result[i].Score > result[j].Score })
			for i, z := range result {
				if z.Member.(string) == member {
					return uint64(i), nil
				}
			}

			return 0, redis.Nil
		},
	}
}

func insertXPHistory(t *testing.T, ctx context.Context, userID string, amount int) {
	err := repository.NewXPHistoryRepository().Create(ctx, &entity.XPHistory{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		Amount:        amount,
		ActionType:    entity.ActionTaskCompleted,
		Multiplier:    1,
	})
	require.NoError(t, err)
}

func Test_leaderboard_GetLeaderBoard(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	insertXPHistory(t, ctx, testutil.User1, 40)
	insertXPHistory(t, ctx, testutil.User1, 20)
	insertXPHistory(t, ctx, testutil.User2, 100)

	leaderboard := New(repository.NewXPHistoryRepository(), fakeRedis())
	period := entity.NewLeaderBoardPeriodWeek(time.Now())

	// The first read rebuilds the board from the ledger.
	entries, err := leaderboard.GetLeaderBoard(ctx, period, 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, testutil.User2, entries[0].UserID)
	require.EqualValues(t, 100, entries[0].XP)
	require.Equal(t, testutil.User1, entries[1].UserID)
	require.EqualValues(t, 60, entries[1].XP)

	// Later rewards increment the loaded board in place.
	err = leaderboard.ChangeXPLeaderboard(ctx, 50, time.Now(), testutil.User1)
	require.NoError(t, err)

	entries, err = leaderboard.GetLeaderBoard(ctx, period, 0, 10)
	require.NoError(t, err)
	require.Equal(t, testutil.User1, entries[0].UserID)
	require.EqualValues(t, 110, entries[0].XP)

	rank, err := leaderboard.GetRank(ctx, testutil.User1, period)
	require.NoError(t, err)
	require.EqualValues(t, 1, rank)

	// Pagination past the end is empty, not an error.
	entries, err = leaderboard.GetLeaderBoard(ctx, period, 5, 10)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func Test_leaderboard_ChangeXPLeaderboard_unloadedBoard(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	redisClient := fakeRedis()
	leaderboard := New(repository.NewXPHistoryRepository(), redisClient)

	// Nothing was loaded yet, so the change is dropped and the next read
	// rebuilds from the ledger instead.
	err := leaderboard.ChangeXPLeaderboard(ctx, 50, time.Now(), testutil.User1)
	require.NoError(t, err)

	insertXPHistory(t, ctx, testutil.User1, 30)

	entries, err := leaderboard.GetLeaderBoard(ctx, entity.NewLeaderBoardPeriodWeek(time.Now()), 0, 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.EqualValues(t, 30, entries[0].XP)
}
