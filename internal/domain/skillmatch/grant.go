package skillmatch

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// LevelForSkillXP maps accumulated skill XP to the 0-100 mastery scale.
// It grows as the square root of the invested time, so early levels come
// quickly and the last ones take months.
func LevelForSkillXP(xp int) int {
	if xp <= 0 {
		return 0
	}

	level := int(math.Sqrt(float64(xp)/10) * 10)
	if level > 100 {
		return 100
	}

	return level
}

// GrantSkillXP increments the family aggregate row and, when a detail is
// given, the detail row. The two counters are independent, a detail grant is
// never summed into its family.
func (m *matcher) GrantSkillXP(
	ctx context.Context, userID, familyID, detailID string, amount int,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := m.grantRow(ctx, userID, familyID, "", amount); err != nil {
		return err
	}

	if detailID != "" {
		if err := m.grantRow(ctx, userID, familyID, detailID, amount); err != nil {
			return err
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

func (m *matcher) grantRow(ctx context.Context, userID, familyID, detailID string, amount int) error {
	now := time.Now()

	progress, err := m.userSkillRepo.GetForUpdate(ctx, userID, familyID, detailID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return m.userSkillRepo.Create(ctx, &entity.UserSkillProgress{
			UserID:         userID,
			SkillFamilyID:  familyID,
			SkillDetailID:  detailID,
			XP:             amount,
			Level:          LevelForSkillXP(amount),
			LastActivityAt: now,
		})
	}

	newXP := progress.XP + amount
	return m.userSkillRepo.UpdateXP(ctx, userID, familyID, detailID, newXP, LevelForSkillXP(newXP), now)
}
