package repository

import (
	"context"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

type TaskValidationRepository interface {
	Create(ctx context.Context, validation *entity.TaskValidation) error
	GetByID(ctx context.Context, id string) (*entity.TaskValidation, error)
	GetByEventID(ctx context.Context, userID, eventID string) (*entity.TaskValidation, error)
	SetCompleted(ctx context.Context, id string, completed bool, validatedAt time.Time, notes string) error
	SetDismissed(ctx context.Context, id string, dismissed bool) error
	GetPendingList(ctx context.Context, userID string, offset, limit int) ([]entity.TaskValidation, error)
	CountPending(ctx context.Context, userID string) (int64, error)
	CountCompletedBetween(ctx context.Context, userID string, from, to time.Time) (int64, error)
}

type taskValidationRepository struct{}

func NewTaskValidationRepository() *taskValidationRepository {
	return &taskValidationRepository{}
}

func (r *taskValidationRepository) Create(ctx context.Context, validation *entity.TaskValidation) error {
	return xcontext.DB(ctx).Create(validation).Error
}

func (r *taskValidationRepository) GetByID(ctx context.Context, id string) (*entity.TaskValidation, error) {
	var result entity.TaskValidation
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskValidationRepository) GetByEventID(
	ctx context.Context, userID, eventID string,
) (*entity.TaskValidation, error) {
	var result entity.TaskValidation
	err := xcontext.DB(ctx).
		Where("user_id=? AND event_id=?", userID, eventID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *taskValidationRepository) SetCompleted(
	ctx context.Context, id string, completed bool, validatedAt time.Time, notes string,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.TaskValidation{}).
		Where("id=?", id).
		Updates(map[string]any{
			"completed":    completed,
			"validated_at": validatedAt,
			"notes":        notes,
		})

	return singleRowAffected(tx)
}

func (r *taskValidationRepository) SetDismissed(ctx context.Context, id string, dismissed bool) error {
	tx := xcontext.DB(ctx).
		Model(&entity.TaskValidation{}).
		Where("id=?", id).
		Update("dismissed", dismissed)

	return singleRowAffected(tx)
}

func (r *taskValidationRepository) GetPendingList(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.TaskValidation, error) {
	var result []entity.TaskValidation
	err := xcontext.DB(ctx).
		Where("user_id=? AND completed=? AND dismissed=?", userID, false, false).
		Order("created_at ASC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *taskValidationRepository) CountCompletedBetween(
	ctx context.Context, userID string, from, to time.Time,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.TaskValidation{}).
		Where("user_id=? AND completed=? AND validated_at>=? AND validated_at<?",
			userID, true, from, to).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *taskValidationRepository) CountPending(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.TaskValidation{}).
		Where("user_id=? AND completed=? AND dismissed=?", userID, false, false).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
