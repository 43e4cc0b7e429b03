package statistic

import (
	"context"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/dayflow-labs/backend/pkg/xredis"
	"github.com/redis/go-redis/v9"
)

type Leaderboard interface {
	GetLeaderBoard(
		ctx context.Context,
		period entity.LeaderBoardPeriodType,
		offset, limit int,
	) ([]model.LeaderBoardEntry, error)

	GetRank(ctx context.Context, userID string, period entity.LeaderBoardPeriodType) (uint64, error)

	ChangeXPLeaderboard(ctx context.Context, value int64, rewardedAt time.Time, userID string) error
}

type leaderboard struct {
	xpHistoryRepo repository.XPHistoryRepository
	redisClient   xredis.Client
}

func New(xpHistoryRepo repository.XPHistoryRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{xpHistoryRepo: xpHistoryRepo, redisClient: redisClient}
}

func (l *leaderboard) GetLeaderBoard(
	ctx context.Context,
	period entity.LeaderBoardPeriodType,
	offset, limit int,
) ([]model.LeaderBoardEntry, error) {
	key := redisKeyXPLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return nil, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return nil, err
		}
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	entries := []model.LeaderBoardEntry{}
	for _, z := range results {
		entries = append(entries, model.LeaderBoardEntry{
			UserID: z.Member.(string),
			XP:     int64(z.Score),
		})
	}

	return entries, nil
}

func (l *leaderboard) GetRank(
	ctx context.Context, userID string, period entity.LeaderBoardPeriodType,
) (uint64, error) {
	key := redisKeyXPLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return 0, errorx.Unknown
	}

	// If the key didn't exist in redis, load it from database.
	if !ok {
		if err := l.loadLeaderboardFromDB(ctx, period); err != nil {
			return 0, err
		}
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, userID)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot get rev rank redis: %v", err)
		return 0, nil
	}

	return rank + 1, nil
}

func (l *leaderboard) ChangeXPLeaderboard(
	ctx context.Context, value int64, rewardedAt time.Time, userID string,
) error {
	weekPeriod := entity.NewLeaderBoardPeriodWeek(rewardedAt)
	if err := l.changeLeaderboard(ctx, value, userID, weekPeriod); err != nil {
		return err
	}

	monthPeriod := entity.NewLeaderBoardPeriodMonth(rewardedAt)
	if err := l.changeLeaderboard(ctx, value, userID, monthPeriod); err != nil {
		return err
	}

	return nil
}

func (l *leaderboard) changeLeaderboard(
	ctx context.Context, value int64, userID string, period entity.LeaderBoardPeriodType,
) error {
	key := redisKeyXPLeaderBoard(period)

	ok, err := l.redisClient.Exist(ctx, key)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	// If the key didn't exist in redis, no need to update. The next read
	// rebuilds the whole board from the ledger anyway.
	if !ok {
		return nil
	}

	if err := l.redisClient.ZIncrBy(ctx, key, value, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZIncrBy redis: %v", err)
	}

	return nil
}

func (l *leaderboard) loadLeaderboardFromDB(
	ctx context.Context, period entity.LeaderBoardPeriodType,
) error {
	aggregates, err := l.xpHistoryRepo.Statistic(
		ctx,
		repository.StatisticXPHistoryFilter{
			Start: period.Start(),
			End:   period.End(),
		},
	)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load statistic from database: %v", err)
		return errorx.Unknown
	}

	key := redisKeyXPLeaderBoard(period)
	for _, a := range aggregates {
		err := l.redisClient.ZAdd(ctx, key, redis.Z{Member: a.UserID, Score: float64(a.XP)})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot zadd redis: %v", err)
			return errorx.Unknown
		}
	}

	return nil
}
