package repository

import (
	"context"
	"errors"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserProgressRepository interface {
	Get(ctx context.Context, userID string) (*entity.UserProgress, error)

	// GetForUpdate locks the aggregate row for the rest of the surrounding
	// transaction, serializing concurrent rewards for the same user.
	GetForUpdate(ctx context.Context, userID string) (*entity.UserProgress, error)

	Create(ctx context.Context, progress *entity.UserProgress) error
	UpdateXP(ctx context.Context, userID string, xp, level int) error
	UpdateStreak(ctx context.Context, userID string, current, longest int, lastValidation time.Time) error
	TouchValidationDate(ctx context.Context, userID string, lastValidation time.Time) error
	ResetStreak(ctx context.Context, userID string) error
}

type userProgressRepository struct{}

func NewUserProgressRepository() *userProgressRepository {
	return &userProgressRepository{}
}

func (r *userProgressRepository) Get(ctx context.Context, userID string) (*entity.UserProgress, error) {
	var result entity.UserProgress
	if err := xcontext.DB(ctx).Take(&result, "user_id=?", userID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *userProgressRepository) GetForUpdate(ctx context.Context, userID string) (*entity.UserProgress, error) {
	var result entity.UserProgress
	err := lockForUpdate(xcontext.DB(ctx)).
		Take(&result, "user_id=?", userID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// lockForUpdate takes a row lock on MySQL. SQLite has a single writer and
// rejects the FOR UPDATE syntax, so the clause is skipped there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	return tx
}

func (r *userProgressRepository) Create(ctx context.Context, progress *entity.UserProgress) error {
	return xcontext.DB(ctx).Create(progress).Error
}

func (r *userProgressRepository) UpdateXP(ctx context.Context, userID string, xp, level int) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Updates(map[string]any{
			"xp":            xp,
			"level":         level,
			"total_actions": gorm.Expr("total_actions+1"),
		})

	return singleRowAffected(tx)
}

func (r *userProgressRepository) UpdateStreak(
	ctx context.Context, userID string, current, longest int, lastValidation time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Updates(map[string]any{
			"current_streak":       current,
			"longest_streak":       longest,
			"last_validation_date": lastValidation,
		})

	return singleRowAffected(tx)
}

func (r *userProgressRepository) TouchValidationDate(
	ctx context.Context, userID string, lastValidation time.Time,
) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Update("last_validation_date", lastValidation)

	return singleRowAffected(tx)
}

func (r *userProgressRepository) ResetStreak(ctx context.Context, userID string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.UserProgress{}).
		Where("user_id=?", userID).
		Update("current_streak", 0)

	return singleRowAffected(tx)
}

func singleRowAffected(tx *gorm.DB) error {
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
