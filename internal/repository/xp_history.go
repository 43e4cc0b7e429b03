package repository

import (
	"context"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

type StatisticXPHistoryFilter struct {
	Start time.Time
	End   time.Time
}

type UserXPAggregate struct {
	UserID string
	XP     int64
}

type XPHistoryRepository interface {
	Create(ctx context.Context, history *entity.XPHistory) error
	GetByEvent(ctx context.Context, userID, eventID string, action entity.XPActionType) (*entity.XPHistory, error)
	GetList(ctx context.Context, userID string, offset, limit int) ([]entity.XPHistory, error)
	Statistic(ctx context.Context, filter StatisticXPHistoryFilter) ([]UserXPAggregate, error)
}

type xpHistoryRepository struct{}

func NewXPHistoryRepository() *xpHistoryRepository {
	return &xpHistoryRepository{}
}

func (r *xpHistoryRepository) Create(ctx context.Context, history *entity.XPHistory) error {
	return xcontext.DB(ctx).Create(history).Error
}

func (r *xpHistoryRepository) GetByEvent(
	ctx context.Context, userID, eventID string, action entity.XPActionType,
) (*entity.XPHistory, error) {
	var result entity.XPHistory
	err := xcontext.DB(ctx).
		Where("user_id=? AND external_event_id=? AND action_type=?", userID, eventID, action).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *xpHistoryRepository) GetList(
	ctx context.Context, userID string, offset, limit int,
) ([]entity.XPHistory, error) {
	var result []entity.XPHistory
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *xpHistoryRepository) Statistic(
	ctx context.Context, filter StatisticXPHistoryFilter,
) ([]UserXPAggregate, error) {
	var result []UserXPAggregate
	err := xcontext.DB(ctx).Model(&entity.XPHistory{}).
		Select("user_id, SUM(amount) AS xp").
		Where("created_at>=? AND created_at<?", filter.Start, filter.End).
		Group("user_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
