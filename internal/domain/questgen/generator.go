package questgen

import (
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/crypto"
	"github.com/dayflow-labs/backend/pkg/dateutil"
	"github.com/google/uuid"
)

// SkillOption is a skill the generator may build a quest around.
type SkillOption struct {
	FamilyID string
	Name     string
}

type Generator struct {
	skillBiasPercent int
}

func NewGenerator(skillBiasPercent int) *Generator {
	return &Generator{skillBiasPercent: skillBiasPercent}
}

// Generate instantiates one quest of the given type. When the user has any
// skills, generation leans toward a skill-specific template; otherwise it
// falls back to the generic pool.
func (g *Generator) Generate(
	userID string, questType entity.QuestType, skills []SkillOption, now time.Time,
) *entity.Quest {
	var expiresAt time.Time
	var generic, skillBound []Template
	if questType == entity.QuestWeekly {
		expiresAt = dateutil.EndOfWeek(now)
		generic, skillBound = genericWeeklyTemplates, skillWeeklyTemplates
	} else {
		expiresAt = dateutil.EndOfDay(now)
		generic, skillBound = genericDailyTemplates, skillDailyTemplates
	}

	var template Template
	var skillFamilyID string
	if len(skills) > 0 && crypto.RandIntn(100) < g.skillBiasPercent {
		skill := skills[crypto.RandIntn(len(skills))]
		template = skillBound[crypto.RandIntn(len(skillBound))].Instantiate(skill.Name)
		skillFamilyID = skill.FamilyID
	} else {
		template = generic[crypto.RandIntn(len(generic))]
	}

	return &entity.Quest{
		Base:          entity.Base{ID: uuid.NewString()},
		UserID:        userID,
		Type:          questType,
		Status:        entity.QuestPending,
		Title:         template.Title,
		XPReward:      template.XPReward,
		Progress:      0,
		Total:         template.Total,
		SkillFamilyID: skillFamilyID,
		ExpiresAt:     expiresAt,
	}
}
