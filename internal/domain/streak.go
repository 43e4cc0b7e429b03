package domain

import (
	"context"
	"errors"
	"time"

	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/dateutil"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/pkg/math"
	"gorm.io/gorm"
)

type StreakDomain interface {
	CheckAndUpdateStreak(ctx context.Context, req *model.CheckStreakRequest) (*model.CheckStreakResponse, error)
}

type streakDomain struct {
	userProgressRepo   repository.UserProgressRepository
	taskValidationRepo repository.TaskValidationRepository
}

func NewStreakDomain(
	userProgressRepo repository.UserProgressRepository,
	taskValidationRepo repository.TaskValidationRepository,
) *streakDomain {
	return &streakDomain{
		userProgressRepo:   userProgressRepo,
		taskValidationRepo: taskValidationRepo,
	}
}

func (d *streakDomain) CheckAndUpdateStreak(
	ctx context.Context, req *model.CheckStreakRequest,
) (*model.CheckStreakResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous streak check")
	}

	return d.checkAndUpdateStreak(ctx, userID, time.Now())
}

// checkAndUpdateStreak is safe to call any number of times per day. It never
// rewards by itself, it only moves the continuity counters.
func (d *streakDomain) checkAndUpdateStreak(
	ctx context.Context, userID string, now time.Time,
) (*model.CheckStreakResponse, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	progress, err := d.userProgressRepo.GetForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// The aggregate is created by the first reward. Checking a streak
			// before any reward exists is a caller ordering bug.
			xcontext.Logger(ctx).Errorf("Streak check before any reward for user %s", userID)
			return nil, errorx.New(errorx.ProgressNotInitialized, "User has no progress record yet")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user progress: %v", err)
		return nil, errorx.Unknown
	}

	completedToday, err := d.taskValidationRepo.CountCompletedBetween(
		ctx, userID, dateutil.Date(now), dateutil.EndOfDay(now))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count today completions: %v", err)
		return nil, errorx.Unknown
	}

	current := progress.CurrentStreak
	longest := progress.LongestStreak
	last := progress.LastValidationDate

	if completedToday > 0 {
		switch {
		case last.Valid && dateutil.IsSameDay(last.Time, now):
			// Already counted today.

		case last.Valid && dateutil.IsYesterday(last.Time, now):
			current = current + 1
			longest = math.MaxInt(longest, current)
			err = d.userProgressRepo.UpdateStreak(ctx, userID, current, longest, dateutil.Date(now))

		case last.Valid && current > 0:
			// A gap of any length burns exactly one grace day. The streak
			// stays where it is and only the anchor date moves, so the next
			// gap resets it.
			err = d.userProgressRepo.TouchValidationDate(ctx, userID, dateutil.Date(now))

		default:
			current = 1
			longest = math.MaxInt(longest, 1)
			err = d.userProgressRepo.UpdateStreak(ctx, userID, current, longest, dateutil.Date(now))
		}
	} else {
		if last.Valid && !dateutil.IsSameDay(last.Time, now) && !dateutil.IsYesterday(last.Time, now) && current > 0 {
			current = 0
			err = d.userProgressRepo.ResetStreak(ctx, userID)
		}
	}

	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update streak: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.CheckStreakResponse{CurrentStreak: current, LongestStreak: longest}, nil
}
