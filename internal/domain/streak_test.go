package domain

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func insertCompletedTask(t *testing.T, ctx context.Context, userID string, validatedAt time.Time) {
	t.Helper()

	err := repository.NewTaskValidationRepository().Create(ctx, &entity.TaskValidation{
		Base:        entity.Base{ID: uuid.NewString()},
		EventID:     uuid.NewString(),
		UserID:      userID,
		Title:       "study session",
		Completed:   true,
		ValidatedAt: sql.NullTime{Valid: true, Time: validatedAt},
	})
	require.NoError(t, err)
}

func Test_streakDomain_checkAndUpdateStreak(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	userProgressRepo := repository.NewUserProgressRepository()
	streakDomain := NewStreakDomain(userProgressRepo, repository.NewTaskValidationRepository())

	require.NoError(t, userProgressRepo.Create(ctx, &entity.UserProgress{
		UserID: testutil.User1, XP: 0, Level: 1,
	}))

	day0 := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	// First qualifying completion ever starts the streak.
	insertCompletedTask(t, ctx, testutil.User1, day0)
	resp, err := streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day0)
	require.NoError(t, err)
	require.Equal(t, 1, resp.CurrentStreak)
	require.Equal(t, 1, resp.LongestStreak)

	// A second check on the same day changes nothing.
	resp, err = streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day0.Add(2*time.Hour))
	require.NoError(t, err)
	require.Equal(t, 1, resp.CurrentStreak)

	// A completion the day after extends the streak.
	day1 := day0.AddDate(0, 0, 1)
	insertCompletedTask(t, ctx, testutil.User1, day1)
	resp, err = streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day1)
	require.NoError(t, err)
	require.Equal(t, 2, resp.CurrentStreak)
	require.Equal(t, 2, resp.LongestStreak)
}

func Test_streakDomain_graceDay(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	userProgressRepo := repository.NewUserProgressRepository()
	streakDomain := NewStreakDomain(userProgressRepo, repository.NewTaskValidationRepository())

	require.NoError(t, userProgressRepo.Create(ctx, &entity.UserProgress{
		UserID: testutil.User1, XP: 0, Level: 1,
	}))

	day0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	insertCompletedTask(t, ctx, testutil.User1, day0)
	_, err := streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day0)
	require.NoError(t, err)

	day1 := day0.AddDate(0, 0, 1)
	insertCompletedTask(t, ctx, testutil.User1, day1)
	resp, err := streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day1)
	require.NoError(t, err)
	require.Equal(t, 2, resp.CurrentStreak)

	// The user skips two days, then comes back. The gap burns the single
	// grace day and the streak survives unchanged.
	day4 := day0.AddDate(0, 0, 4)
	insertCompletedTask(t, ctx, testutil.User1, day4)
	resp, err = streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day4)
	require.NoError(t, err)
	require.Equal(t, 2, resp.CurrentStreak)

	// The grace day moved the anchor, so the next day extends normally.
	day5 := day0.AddDate(0, 0, 5)
	insertCompletedTask(t, ctx, testutil.User1, day5)
	resp, err = streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day5)
	require.NoError(t, err)
	require.Equal(t, 3, resp.CurrentStreak)
	require.Equal(t, 3, resp.LongestStreak)
}

func Test_streakDomain_reset(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	userProgressRepo := repository.NewUserProgressRepository()
	streakDomain := NewStreakDomain(userProgressRepo, repository.NewTaskValidationRepository())

	require.NoError(t, userProgressRepo.Create(ctx, &entity.UserProgress{
		UserID: testutil.User1, XP: 0, Level: 1,
	}))

	day0 := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	insertCompletedTask(t, ctx, testutil.User1, day0)
	_, err := streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day0)
	require.NoError(t, err)

	// A check on the very next day without a completion is an implicit
	// grace, nothing changes yet.
	resp, err := streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day0.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Equal(t, 1, resp.CurrentStreak)

	// Two empty days later the streak is gone. The longest stays.
	resp, err = streakDomain.checkAndUpdateStreak(ctx, testutil.User1, day0.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Equal(t, 0, resp.CurrentStreak)
	require.Equal(t, 1, resp.LongestStreak)
}

func Test_streakDomain_missingProgress(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	streakDomain := NewStreakDomain(
		repository.NewUserProgressRepository(), repository.NewTaskValidationRepository())

	// Checking a streak before any reward created the aggregate is a caller
	// ordering bug and fails loudly.
	_, err := streakDomain.checkAndUpdateStreak(ctx, testutil.User2, time.Now())
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.ProgressNotInitialized, errx.Code)
}
