package domain

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/dayflow-labs/backend/internal/domain/event"
	"github.com/dayflow-labs/backend/internal/domain/leveling"
	"github.com/dayflow-labs/backend/internal/domain/statistic"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/enum"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/pubsub"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type ProgressionDomain interface {
	AddXP(ctx context.Context, req *model.AddXPRequest) (*model.AddXPResponse, error)
	GetProgressStats(ctx context.Context, req *model.GetProgressStatsRequest) (*model.GetProgressStatsResponse, error)
	GetLeaderBoard(ctx context.Context, req *model.GetLeaderBoardRequest) (*model.GetLeaderBoardResponse, error)
}

type progressionDomain struct {
	userProgressRepo repository.UserProgressRepository
	xpHistoryRepo    repository.XPHistoryRepository
	publisher        pubsub.Publisher
	leaderboard      statistic.Leaderboard
}

func NewProgressionDomain(
	userProgressRepo repository.UserProgressRepository,
	xpHistoryRepo repository.XPHistoryRepository,
	publisher pubsub.Publisher,
	leaderboard statistic.Leaderboard,
) *progressionDomain {
	return &progressionDomain{
		userProgressRepo: userProgressRepo,
		xpHistoryRepo:    xpHistoryRepo,
		publisher:        publisher,
		leaderboard:      leaderboard,
	}
}

func (d *progressionDomain) AddXP(
	ctx context.Context, req *model.AddXPRequest,
) (*model.AddXPResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous reward")
	}

	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be positive")
	}

	actionType, err := enum.ToEnum[entity.XPActionType](req.ActionType)
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid action type %s", req.ActionType)
	}

	multiplier := req.Multiplier
	if multiplier == 0 {
		multiplier = 1.0
	}

	if multiplier < 0 {
		return nil, errorx.New(errorx.BadRequest, "Multiplier must be positive")
	}

	finalAmount := int(math.Floor(float64(req.Amount) * multiplier))

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	// Duplicate delivery of the same external event is not an error, it is a
	// silent no-op. The check runs inside the transaction; the unique index
	// on the ledger backstops the race between two replicas passing it at
	// the same time.
	if req.EventID != "" {
		_, err := d.xpHistoryRepo.GetByEvent(ctx, userID, req.EventID, actionType)
		if err == nil {
			xcontext.Logger(ctx).Debugf(
				"Ignored duplicate reward %s/%s for user %s", req.EventID, actionType, userID)
			progress, err := d.userProgressRepo.Get(ctx, userID)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot get progress after replay: %v", err)
				return nil, errorx.Unknown
			}

			return &model.AddXPResponse{XP: progress.XP, Level: progress.Level}, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot check reward idempotency: %v", err)
			return nil, errorx.Unknown
		}
	}

	progress, err := d.userProgressRepo.GetForUpdate(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
			return nil, errorx.Unknown
		}

		progress = &entity.UserProgress{UserID: userID, XP: 0, Level: 1}
		if err := d.userProgressRepo.Create(ctx, progress); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create user progress: %v", err)
			return nil, errorx.Unknown
		}
	}

	oldLevel := progress.Level
	newXP := progress.XP + finalAmount
	newLevel := leveling.LevelFor(newXP)

	if err := d.userProgressRepo.UpdateXP(ctx, userID, newXP, newLevel); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update user progress: %v", err)
		return nil, errorx.Unknown
	}

	history := &entity.XPHistory{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64()},
		UserID:        userID,
		Amount:        finalAmount,
		ActionType:    actionType,
		Multiplier:    multiplier,
	}
	if req.EventID != "" {
		history.ExternalEventID = sql.NullString{Valid: true, String: req.EventID}
	}

	if err := d.xpHistoryRepo.Create(ctx, history); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot append to the xp ledger: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	// Everything below is fire-and-forget observability. It must never undo
	// or fail the committed reward.
	d.emitRewardEvent(ctx, userID, finalAmount, string(actionType), oldLevel, newLevel, newXP)
	if d.leaderboard != nil {
		if err := d.leaderboard.ChangeXPLeaderboard(ctx, int64(finalAmount), time.Now(), userID); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update the xp leaderboard: %v", err)
		}
	}

	return &model.AddXPResponse{XP: newXP, Level: newLevel, LeveledUp: newLevel > oldLevel}, nil
}

func (d *progressionDomain) emitRewardEvent(
	ctx context.Context, userID string, amount int, actionType string, oldLevel, newLevel, xp int,
) {
	var ev event.Event
	if newLevel > oldLevel {
		ev = &event.LevelUpEvent{
			UserID:     userID,
			Amount:     amount,
			ActionType: actionType,
			OldLevel:   oldLevel,
			NewLevel:   newLevel,
		}
	} else {
		ev = &event.XPGainedEvent{
			UserID:     userID,
			Amount:     amount,
			ActionType: actionType,
			XP:         xp,
			Level:      newLevel,
		}
	}

	if err := publishEvent(ctx, d.publisher, userID, ev); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish %s event: %v", ev.Op(), err)
	}
}

func (d *progressionDomain) GetProgressStats(
	ctx context.Context, req *model.GetProgressStatsRequest,
) (*model.GetProgressStatsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	progress, err := d.userProgressRepo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
			return nil, errorx.Unknown
		}

		// No reward happened yet. The aggregate will be created lazily by the
		// first AddXP, so this read just reports the starting point.
		progress = &entity.UserProgress{UserID: userID, XP: 0, Level: 1}
	}

	return &model.GetProgressStatsResponse{
		Progress: model.UserProgress{
			UserID:          userID,
			XP:              progress.XP,
			Level:           progress.Level,
			XPToNextLevel:   leveling.XPToNext(progress.XP),
			ProgressPercent: leveling.ProgressPercent(progress.XP),
			CurrentStreak:   progress.CurrentStreak,
			LongestStreak:   progress.LongestStreak,
			TotalActions:    progress.TotalActions,
		},
	}, nil
}

func (d *progressionDomain) GetLeaderBoard(
	ctx context.Context, req *model.GetLeaderBoardRequest,
) (*model.GetLeaderBoardResponse, error) {
	if d.leaderboard == nil {
		return nil, errorx.New(errorx.Unavailable, "Leaderboard is not enabled")
	}

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	period, err := entity.ToLeaderBoardPeriod(req.Period, time.Now())
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid period %s", req.Period)
	}

	entries, err := d.leaderboard.GetLeaderBoard(ctx, period, req.Offset, req.Limit)
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderBoardResponse{Entries: entries}, nil
}
