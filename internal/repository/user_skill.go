package repository

import (
	"context"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

type UserSkillRepository interface {
	Get(ctx context.Context, userID, familyID, detailID string) (*entity.UserSkillProgress, error)
	GetForUpdate(ctx context.Context, userID, familyID, detailID string) (*entity.UserSkillProgress, error)
	Create(ctx context.Context, progress *entity.UserSkillProgress) error
	UpdateXP(ctx context.Context, userID, familyID, detailID string, xp, level int, lastActivity time.Time) error
	GetListByUserID(ctx context.Context, userID string) ([]entity.UserSkillProgress, error)
}

type userSkillRepository struct{}

func NewUserSkillRepository() *userSkillRepository {
	return &userSkillRepository{}
}

func (r *userSkillRepository) Get(
	ctx context.Context, userID, familyID, detailID string,
) (*entity.UserSkillProgress, error) {
	var result entity.UserSkillProgress
	err := xcontext.DB(ctx).
		Where("user_id=? AND skill_family_id=? AND skill_detail_id=?", userID, familyID, detailID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userSkillRepository) GetForUpdate(
	ctx context.Context, userID, familyID, detailID string,
) (*entity.UserSkillProgress, error) {
	var result entity.UserSkillProgress
	err := lockForUpdate(xcontext.DB(ctx)).
		Where("user_id=? AND skill_family_id=? AND skill_detail_id=?", userID, familyID, detailID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userSkillRepository) Create(ctx context.Context, progress *entity.UserSkillProgress) error {
	return xcontext.DB(ctx).Create(progress).Error
}

func (r *userSkillRepository) UpdateXP(
	ctx context.Context, userID, familyID, detailID string, xp, level int, lastActivity time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserSkillProgress{}).
		Where("user_id=? AND skill_family_id=? AND skill_detail_id=?", userID, familyID, detailID).
		Updates(map[string]any{
			"xp":               xp,
			"level":            level,
			"last_activity_at": lastActivity,
		})

	return singleRowAffected(tx)
}

func (r *userSkillRepository) GetListByUserID(
	ctx context.Context, userID string,
) ([]entity.UserSkillProgress, error) {
	var result []entity.UserSkillProgress
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("xp DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
