package repository

import (
	"context"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

type QuestRepository interface {
	Create(ctx context.Context, quest *entity.Quest) error

	// GetActiveList returns quests of a type that still count as active:
	// not yet expired and not failed. Completed quests stay in the set until
	// they expire.
	GetActiveList(ctx context.Context, userID string, questType entity.QuestType, now time.Time) ([]entity.Quest, error)

	// GetActivePendingList returns the quests that can still make progress.
	GetActivePendingList(ctx context.Context, userID string, now time.Time) ([]entity.Quest, error)

	UpdateProgress(ctx context.Context, id string, progress int) error

	// Complete flips a pending quest to completed. It reports whether this
	// call performed the flip, so the XP payout happens exactly once even
	// when two callers race.
	Complete(ctx context.Context, id string, progress int) (bool, error)
}

type questRepository struct{}

func NewQuestRepository() *questRepository {
	return &questRepository{}
}

func (r *questRepository) Create(ctx context.Context, quest *entity.Quest) error {
	return xcontext.DB(ctx).Create(quest).Error
}

func (r *questRepository) GetActiveList(
	ctx context.Context, userID string, questType entity.QuestType, now time.Time,
) ([]entity.Quest, error) {
	var result []entity.Quest
	err := xcontext.DB(ctx).
		Where("user_id=? AND type=? AND expires_at>? AND status<>?",
			userID, questType, now, entity.QuestFailed).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) GetActivePendingList(
	ctx context.Context, userID string, now time.Time,
) ([]entity.Quest, error) {
	var result []entity.Quest
	err := xcontext.DB(ctx).
		Where("user_id=? AND expires_at>? AND status=?", userID, now, entity.QuestPending).
		Order("created_at ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *questRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=? AND status=?", id, entity.QuestPending).
		Update("progress", progress)

	return singleRowAffected(tx)
}

func (r *questRepository) Complete(ctx context.Context, id string, progress int) (bool, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Quest{}).
		Where("id=? AND status=?", id, entity.QuestPending).
		Updates(map[string]any{
			"status":   entity.QuestCompleted,
			"progress": progress,
		})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}
