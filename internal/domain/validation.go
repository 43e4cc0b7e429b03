package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/dayflow-labs/backend/internal/domain/event"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/pubsub"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ValidationDomain interface {
	RegisterTask(ctx context.Context, req *model.RegisterTaskRequest) (*model.RegisterTaskResponse, error)
	ValidateTask(ctx context.Context, req *model.ValidateTaskRequest) (*model.ValidateTaskResponse, error)
	DismissTask(ctx context.Context, req *model.DismissTaskRequest) (*model.DismissTaskResponse, error)
	GetTasksToValidate(ctx context.Context, req *model.GetTasksToValidateRequest) (*model.GetTasksToValidateResponse, error)
	GetPendingTasksCount(ctx context.Context, req *model.GetPendingTasksCountRequest) (*model.GetPendingTasksCountResponse, error)
}

type validationDomain struct {
	taskValidationRepo repository.TaskValidationRepository
	progressionDomain  ProgressionDomain
	streakDomain       StreakDomain
	publisher          pubsub.Publisher
}

func NewValidationDomain(
	taskValidationRepo repository.TaskValidationRepository,
	progressionDomain ProgressionDomain,
	streakDomain StreakDomain,
	publisher pubsub.Publisher,
) *validationDomain {
	return &validationDomain{
		taskValidationRepo: taskValidationRepo,
		progressionDomain:  progressionDomain,
		streakDomain:       streakDomain,
		publisher:          publisher,
	}
}

// RegisterTask surfaces a calendar task for later validation and grants the
// small creation reward. Registering the same event twice returns the
// existing row.
func (d *validationDomain) RegisterTask(
	ctx context.Context, req *model.RegisterTaskRequest,
) (*model.RegisterTaskResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous task")
	}

	if req.EventID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow an empty event id")
	}

	existing, err := d.taskValidationRepo.GetByEventID(ctx, userID, req.EventID)
	if err == nil {
		return &model.RegisterTaskResponse{ID: existing.ID}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot check existing task: %v", err)
		return nil, errorx.Unknown
	}

	validation := &entity.TaskValidation{
		Base:    entity.Base{ID: uuid.NewString()},
		EventID: req.EventID,
		UserID:  userID,
		Title:   req.Title,
	}

	if req.EventDate != "" {
		eventDate, err := time.Parse(time.RFC3339, req.EventDate)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid event date %s", req.EventDate)
		}

		validation.EventDate = sql.NullTime{Valid: true, Time: eventDate}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.taskValidationRepo.Create(ctx, validation); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create task validation: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.progressionDomain.AddXP(ctx, &model.AddXPRequest{
		Amount:     xcontext.Configs(ctx).Reward.TaskCreatedXP,
		ActionType: string(entity.ActionTaskCreated),
		EventID:    req.EventID,
	})
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)

	return &model.RegisterTaskResponse{ID: validation.ID}, nil
}

// ValidateTask is the bridge between "the user did it" and everything the
// engine owns. The reward and the streak commit together with the completion
// flip; skill and quest effects run after the commit and may be lost on a
// crash without corrupting the ledger.
func (d *validationDomain) ValidateTask(
	ctx context.Context, req *model.ValidateTaskRequest,
) (*model.ValidateTaskResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous validation")
	}

	validation, err := d.taskValidationRepo.GetByID(ctx, req.ValidationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task validation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task validation: %v", err)
		return nil, errorx.Unknown
	}

	if validation.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if validation.Completed == req.Completed {
		return &model.ValidateTaskResponse{Completed: validation.Completed}, nil
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	now := time.Now()
	if err := d.taskValidationRepo.SetCompleted(ctx, validation.ID, req.Completed, now, req.Notes); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update task validation: %v", err)
		return nil, errorx.Unknown
	}

	awardedXP := 0
	if req.Completed {
		amount := xcontext.Configs(ctx).Reward.TaskCompletedXP
		_, err := d.progressionDomain.AddXP(ctx, &model.AddXPRequest{
			Amount:     amount,
			ActionType: string(entity.ActionTaskCompleted),
			EventID:    validation.EventID,
		})
		if err != nil {
			return nil, err
		}

		awardedXP = amount

		if _, err := d.streakDomain.CheckAndUpdateStreak(ctx, &model.CheckStreakRequest{}); err != nil {
			return nil, err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)

	if req.Completed {
		ev := &event.TaskCompletedEvent{
			UserID:          userID,
			EventID:         validation.EventID,
			Title:           validation.Title,
			DurationMinutes: xcontext.Configs(ctx).Reward.AssumedTaskMinutes,
		}
		if err := publishEvent(ctx, d.publisher, userID, ev); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot publish task completed event: %v", err)
		}
	}

	return &model.ValidateTaskResponse{Completed: req.Completed, AwardedXP: awardedXP}, nil
}

func (d *validationDomain) DismissTask(
	ctx context.Context, req *model.DismissTaskRequest,
) (*model.DismissTaskResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	validation, err := d.taskValidationRepo.GetByID(ctx, req.ValidationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found task validation")
		}

		xcontext.Logger(ctx).Errorf("Cannot get task validation: %v", err)
		return nil, errorx.Unknown
	}

	if validation.UserID != userID {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if validation.Dismissed {
		return &model.DismissTaskResponse{}, nil
	}

	if err := d.taskValidationRepo.SetDismissed(ctx, validation.ID, true); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot dismiss task validation: %v", err)
		return nil, errorx.Unknown
	}

	return &model.DismissTaskResponse{}, nil
}

func (d *validationDomain) GetTasksToValidate(
	ctx context.Context, req *model.GetTasksToValidateRequest,
) (*model.GetTasksToValidateResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	if req.Limit == 0 {
		req.Limit = xcontext.Configs(ctx).ApiServer.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > xcontext.Configs(ctx).ApiServer.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit")
	}

	validations, err := d.taskValidationRepo.GetPendingList(ctx, userID, req.Offset, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending task validations: %v", err)
		return nil, errorx.Unknown
	}

	tasks := []model.TaskValidation{}
	for _, v := range validations {
		task := model.TaskValidation{
			ID:        v.ID,
			EventID:   v.EventID,
			Title:     v.Title,
			Completed: v.Completed,
			Dismissed: v.Dismissed,
		}
		if v.EventDate.Valid {
			task.EventDate = v.EventDate.Time.Format(time.RFC3339)
		}

		tasks = append(tasks, task)
	}

	return &model.GetTasksToValidateResponse{Tasks: tasks}, nil
}

func (d *validationDomain) GetPendingTasksCount(
	ctx context.Context, req *model.GetPendingTasksCountRequest,
) (*model.GetPendingTasksCountResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	count, err := d.taskValidationRepo.CountPending(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count pending task validations: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetPendingTasksCountResponse{Count: count}, nil
}
