package repository

import (
	"context"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"gorm.io/gorm/clause"
)

// SkillFamilyRow and SkillDetailRow carry the keyword column as raw text.
// The matcher unmarshals each row on its own, so one corrupted row costs one
// family its matches instead of failing the whole query.
type SkillFamilyRow struct {
	ID       string
	Name     string
	Keywords string
}

type SkillDetailRow struct {
	ID            string
	SkillFamilyID string
	Name          string
	Keywords      string
}

type SkillRepository interface {
	CreateFamily(ctx context.Context, family *entity.SkillFamily) error
	GetFamilyByID(ctx context.Context, id string) (*entity.SkillFamily, error)
	GetFamilies(ctx context.Context) ([]entity.SkillFamily, error)
	GetAutoDetectFamilyRows(ctx context.Context) ([]SkillFamilyRow, error)
	CreateDetail(ctx context.Context, detail *entity.SkillDetail) error
	GetDetailRowsByFamilyIDs(ctx context.Context, familyIDs []string) ([]SkillDetailRow, error)
	CountFamilies(ctx context.Context) (int64, error)
}

type skillRepository struct{}

func NewSkillRepository() *skillRepository {
	return &skillRepository{}
}

// CreateFamily inserts a family, silently keeping the existing row when the
// name is already taken. Seeding and auto-provisioning both rely on that.
func (r *skillRepository) CreateFamily(ctx context.Context, family *entity.SkillFamily) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(family).Error
}

func (r *skillRepository) GetFamilyByID(ctx context.Context, id string) (*entity.SkillFamily, error) {
	var result entity.SkillFamily
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *skillRepository) GetFamilies(ctx context.Context) ([]entity.SkillFamily, error) {
	var result []entity.SkillFamily
	err := xcontext.DB(ctx).
		Where("is_active=?", true).
		Order("order_index ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *skillRepository) GetAutoDetectFamilyRows(ctx context.Context) ([]SkillFamilyRow, error) {
	var result []SkillFamilyRow
	err := xcontext.DB(ctx).
		Model(&entity.SkillFamily{}).
		Select("id, name, keywords").
		Where("is_active=? AND auto_detect=?", true, true).
		Order("order_index ASC").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *skillRepository) CreateDetail(ctx context.Context, detail *entity.SkillDetail) error {
	return xcontext.DB(ctx).Create(detail).Error
}

func (r *skillRepository) GetDetailRowsByFamilyIDs(
	ctx context.Context, familyIDs []string,
) ([]SkillDetailRow, error) {
	var result []SkillDetailRow
	err := xcontext.DB(ctx).
		Model(&entity.SkillDetail{}).
		Select("id, skill_family_id, name, keywords").
		Where("skill_family_id IN (?)", familyIDs).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *skillRepository) CountFamilies(ctx context.Context) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.SkillFamily{}).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
