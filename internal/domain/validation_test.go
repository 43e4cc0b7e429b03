package domain

import (
	"testing"
	"time"

	"github.com/dayflow-labs/backend/internal/domain/event"
	"github.com/dayflow-labs/backend/internal/domain/questgen"
	"github.com/dayflow-labs/backend/internal/domain/skillmatch"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/pubsub"
	"github.com/dayflow-labs/backend/pkg/testutil"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newTestValidationDomain(publisher pubsub.Publisher) *validationDomain {
	userProgressRepo := repository.NewUserProgressRepository()
	taskValidationRepo := repository.NewTaskValidationRepository()
	progressionDomain := NewProgressionDomain(
		userProgressRepo, repository.NewXPHistoryRepository(), publisher, nil)
	streakDomain := NewStreakDomain(userProgressRepo, taskValidationRepo)

	return NewValidationDomain(taskValidationRepo, progressionDomain, streakDomain, publisher)
}

func Test_validationDomain_RegisterTask(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	validationDomain := newTestValidationDomain(&testutil.MockPublisher{})

	resp, err := validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID:   "evt-1",
		Title:     "Math homework",
		EventDate: time.Now().Format(time.RFC3339),
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	// Registration grants the small creation reward, keyed by the event.
	xpHistoryRepo := repository.NewXPHistoryRepository()
	history, err := xpHistoryRepo.GetByEvent(ctx, testutil.User1, "evt-1", entity.ActionTaskCreated)
	require.NoError(t, err)
	require.Equal(t, 10, history.Amount)

	// The same calendar event registers once.
	again, err := validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID: "evt-1",
		Title:   "Math homework",
	})
	require.NoError(t, err)
	require.Equal(t, resp.ID, again.ID)

	histories, err := xpHistoryRepo.GetList(ctx, testutil.User1, 0, 10)
	require.NoError(t, err)
	require.Len(t, histories, 1)

	_, err = validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{Title: "No event"})
	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)

	_, err = validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID:   "evt-2",
		EventDate: "yesterday",
	})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.BadRequest, errx.Code)
}

func Test_validationDomain_ValidateTask(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	publisher := &testutil.MockPublisher{}
	validationDomain := newTestValidationDomain(publisher)

	registered, err := validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID: "evt-1",
		Title:   "Math homework",
	})
	require.NoError(t, err)

	resp, err := validationDomain.ValidateTask(ctx, &model.ValidateTaskRequest{
		ValidationID: registered.ID,
		Completed:    true,
	})
	require.NoError(t, err)
	require.True(t, resp.Completed)
	require.Equal(t, 50, resp.AwardedXP)

	// Completion reward and streak commit together.
	progress, err := repository.NewUserProgressRepository().Get(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, 60, progress.XP)
	require.Equal(t, 1, progress.CurrentStreak)

	// The last published pack is the committed task completion.
	require.NotEmpty(t, publisher.Published)
	req, err := event.Unmarshal(publisher.Published[len(publisher.Published)-1].Msg)
	require.NoError(t, err)
	require.Equal(t, "task_completed", req.Op)

	// Revalidating the same state changes nothing and publishes nothing.
	published := len(publisher.Published)
	resp, err = validationDomain.ValidateTask(ctx, &model.ValidateTaskRequest{
		ValidationID: registered.ID,
		Completed:    true,
	})
	require.NoError(t, err)
	require.True(t, resp.Completed)
	require.Equal(t, 0, resp.AwardedXP)
	require.Len(t, publisher.Published, published)

	// Unchecking takes the completion back but never claws back the reward.
	resp, err = validationDomain.ValidateTask(ctx, &model.ValidateTaskRequest{
		ValidationID: registered.ID,
		Completed:    false,
	})
	require.NoError(t, err)
	require.False(t, resp.Completed)

	progress, err = repository.NewUserProgressRepository().Get(ctx, testutil.User1)
	require.NoError(t, err)
	require.Equal(t, 60, progress.XP)

	// Checking again replays against the ledger, so the reward stays single.
	_, err = validationDomain.ValidateTask(ctx, &model.ValidateTaskRequest{
		ValidationID: registered.ID,
		Completed:    true,
	})
	require.NoError(t, err)

	histories, err := repository.NewXPHistoryRepository().GetList(ctx, testutil.User1, 0, 10)
	require.NoError(t, err)
	require.Len(t, histories, 2)
}

func Test_validationDomain_ValidateTask_wrongUser(t *testing.T) {
	ctx := testutil.NewFixtureContext()

	validationDomain := newTestValidationDomain(&testutil.MockPublisher{})

	registered, err := validationDomain.RegisterTask(
		xcontext.WithRequestUserID(ctx, testutil.User1),
		&model.RegisterTaskRequest{EventID: "evt-1", Title: "Math homework"})
	require.NoError(t, err)

	_, err = validationDomain.ValidateTask(
		xcontext.WithRequestUserID(ctx, testutil.User2),
		&model.ValidateTaskRequest{ValidationID: registered.ID, Completed: true})

	var errx errorx.Error
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.PermissionDenied, errx.Code)

	_, err = validationDomain.ValidateTask(
		xcontext.WithRequestUserID(ctx, testutil.User1),
		&model.ValidateTaskRequest{ValidationID: "no-such-id", Completed: true})
	require.ErrorAs(t, err, &errx)
	require.Equal(t, errorx.NotFound, errx.Code)
}

func Test_validationDomain_DismissAndList(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	validationDomain := newTestValidationDomain(&testutil.MockPublisher{})

	first, err := validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID: "evt-1", Title: "Math homework"})
	require.NoError(t, err)

	_, err = validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID: "evt-2", Title: "English reading"})
	require.NoError(t, err)

	count, err := validationDomain.GetPendingTasksCount(ctx, &model.GetPendingTasksCountRequest{})
	require.NoError(t, err)
	require.EqualValues(t, 2, count.Count)

	_, err = validationDomain.DismissTask(ctx, &model.DismissTaskRequest{ValidationID: first.ID})
	require.NoError(t, err)

	// Dismissing twice is a no-op.
	_, err = validationDomain.DismissTask(ctx, &model.DismissTaskRequest{ValidationID: first.ID})
	require.NoError(t, err)

	tasks, err := validationDomain.GetTasksToValidate(ctx, &model.GetTasksToValidateRequest{Limit: 10})
	require.NoError(t, err)
	require.Len(t, tasks.Tasks, 1)
	require.Equal(t, "evt-2", tasks.Tasks[0].EventID)

	_, err = validationDomain.GetTasksToValidate(ctx, &model.GetTasksToValidateRequest{Limit: -1})
	require.Error(t, err)

	_, err = validationDomain.GetTasksToValidate(ctx, &model.GetTasksToValidateRequest{Limit: 100})
	require.Error(t, err)
}

// The full loop: validation commits the reward, the completion event fans out
// in process, the matcher grants skill XP and the quest board ticks.
func Test_validationDomain_ValidateTask_followUp(t *testing.T) {
	ctx := testutil.NewFixtureContext()
	ctx = xcontext.WithRequestUserID(ctx, testutil.User1)

	publisher := pubsub.NewInProcessPublisher()

	userProgressRepo := repository.NewUserProgressRepository()
	taskValidationRepo := repository.NewTaskValidationRepository()
	userSkillRepo := repository.NewUserSkillRepository()
	questRepo := repository.NewQuestRepository()

	progressionDomain := NewProgressionDomain(
		userProgressRepo, repository.NewXPHistoryRepository(), publisher, nil)
	streakDomain := NewStreakDomain(userProgressRepo, taskValidationRepo)
	validationDomain := NewValidationDomain(
		taskValidationRepo, progressionDomain, streakDomain, publisher)

	skillMatcher := skillmatch.NewMatcher(repository.NewSkillRepository(), userSkillRepo)
	questDomain := NewQuestDomain(
		questRepo, userSkillRepo, repository.NewSkillRepository(),
		progressionDomain, questgen.NewGenerator(0))

	followUpDomain := NewFollowUpDomain(skillMatcher, questDomain)
	publisher.Register(xcontext.Configs(ctx).Kafka.Topic, followUpDomain.Subscribe)

	insertQuest(t, ctx, &entity.Quest{
		Base:     entity.Base{ID: "quest-generic"},
		UserID:   testutil.User1,
		Type:     entity.QuestDaily,
		Title:    "Complete 3 tasks",
		XPReward: 50,
		Total:    3,
	})

	registered, err := validationDomain.RegisterTask(ctx, &model.RegisterTaskRequest{
		EventID: "evt-1",
		Title:   "Math algebra homework",
	})
	require.NoError(t, err)

	_, err = validationDomain.ValidateTask(ctx, &model.ValidateTaskRequest{
		ValidationID: registered.ID,
		Completed:    true,
	})
	require.NoError(t, err)

	// 30 assumed minutes give a base of 15 skill XP, scaled by the match
	// score of 50.
	skill, err := userSkillRepo.Get(ctx, testutil.User1, testutil.MathFamily, "")
	require.NoError(t, err)
	require.Equal(t, 7, skill.XP)

	detail, err := userSkillRepo.Get(ctx, testutil.User1, testutil.MathFamily, testutil.AlgebraDetail)
	require.NoError(t, err)
	require.Equal(t, 7, detail.XP)

	pending, err := questRepo.GetActivePendingList(ctx, testutil.User1, time.Now())
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, 1, pending[0].Progress)
}
