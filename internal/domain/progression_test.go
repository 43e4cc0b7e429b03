package domain

import (
	"testing"

	"github.com/dayflow-labs/backend/internal/domain/event"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/testutil"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func Test_progressionDomain_AddXP(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	userProgressRepo := repository.NewUserProgressRepository()
	xpHistoryRepo := repository.NewXPHistoryRepository()
	progressionDomain := NewProgressionDomain(
		userProgressRepo, xpHistoryRepo, &testutil.MockPublisher{}, nil)

	// The aggregate does not exist until the first reward creates it.
	resp, err := progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     30,
		ActionType: string(entity.ActionTaskCreated),
	})
	require.NoError(t, err)
	require.Equal(t, 30, resp.XP)
	require.Equal(t, 1, resp.Level)

	resp, err = progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     20,
		ActionType: string(entity.ActionTaskCompleted),
	})
	require.NoError(t, err)
	require.Equal(t, 50, resp.XP)

	progress, err := userProgressRepo.Get(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, 50, progress.XP)
	require.Equal(t, 2, progress.TotalActions)

	histories, err := xpHistoryRepo.GetList(ctx, testutil.User1, 0, 10)
	require.NoError(t, err)
	require.Len(t, histories, 2)
}

func Test_progressionDomain_AddXP_idempotency(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	userProgressRepo := repository.NewUserProgressRepository()
	xpHistoryRepo := repository.NewXPHistoryRepository()
	progressionDomain := NewProgressionDomain(
		userProgressRepo, xpHistoryRepo, &testutil.MockPublisher{}, nil)

	req := &model.AddXPRequest{
		Amount:     40,
		ActionType: string(entity.ActionTaskCompleted),
		EventID:    "calendar-event-1",
	}

	resp, err := progressionDomain.AddXP(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 40, resp.XP)

	// Replaying the same event is a silent no-op.
	resp, err = progressionDomain.AddXP(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 40, resp.XP)

	histories, err := xpHistoryRepo.GetList(ctx, testutil.User1, 0, 10)
	require.NoError(t, err)
	require.Len(t, histories, 1)

	// The same event id under another action type is a different reward.
	resp, err = progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     10,
		ActionType: string(entity.ActionTaskCreated),
		EventID:    "calendar-event-1",
	})
	require.NoError(t, err)
	require.Equal(t, 50, resp.XP)
}

func Test_progressionDomain_AddXP_multiplier(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	progressionDomain := NewProgressionDomain(
		repository.NewUserProgressRepository(),
		repository.NewXPHistoryRepository(),
		&testutil.MockPublisher{}, nil)

	// The credited amount is always rounded down.
	resp, err := progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     25,
		ActionType: string(entity.ActionQuizCompleted),
		Multiplier: 1.5,
	})
	require.NoError(t, err)
	require.Equal(t, 37, resp.XP)

	_, err = progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     10,
		ActionType: string(entity.ActionQuizCompleted),
		Multiplier: -1,
	})
	require.Error(t, err)

	_, err = progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     0,
		ActionType: string(entity.ActionQuizCompleted),
	})
	require.Error(t, err)

	_, err = progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     10,
		ActionType: "invalid-action",
	})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_progressionDomain_AddXP_levelUpEvent(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	publisher := &testutil.MockPublisher{}
	progressionDomain := NewProgressionDomain(
		repository.NewUserProgressRepository(),
		repository.NewXPHistoryRepository(),
		publisher, nil)

	resp, err := progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     150,
		ActionType: string(entity.ActionTaskCompleted),
	})
	require.NoError(t, err)
	require.Equal(t, 2, resp.Level)
	require.True(t, resp.LeveledUp)

	require.Len(t, publisher.Published, 1)
	req, err := event.Unmarshal(publisher.Published[0].Msg)
	require.NoError(t, err)
	require.Equal(t, "level_up", req.Op)

	// Another small reward inside the same level emits a plain gain event.
	resp, err = progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     10,
		ActionType: string(entity.ActionTaskCompleted),
	})
	require.NoError(t, err)
	require.False(t, resp.LeveledUp)

	require.Len(t, publisher.Published, 2)
	req, err = event.Unmarshal(publisher.Published[1].Msg)
	require.NoError(t, err)
	require.Equal(t, "xp_gained", req.Op)
}

func Test_progressionDomain_GetProgressStats_beforeAnyReward(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User2)

	progressionDomain := NewProgressionDomain(
		repository.NewUserProgressRepository(),
		repository.NewXPHistoryRepository(),
		&testutil.MockPublisher{}, nil)

	resp, err := progressionDomain.GetProgressStats(ctx, &model.GetProgressStatsRequest{})
	require.NoError(t, err)
	require.Equal(t, 0, resp.Progress.XP)
	require.Equal(t, 1, resp.Progress.Level)
	require.Equal(t, 0, resp.Progress.CurrentStreak)
}
