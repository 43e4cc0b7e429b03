package questgen

import (
	"testing"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/pkg/dateutil"
	"github.com/stretchr/testify/require"
)

func Test_Generator_Generate_expiry(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) // a Wednesday
	generator := NewGenerator(0)

	daily := generator.Generate("user1", entity.QuestDaily, nil, now)
	require.Equal(t, entity.QuestDaily, daily.Type)
	require.Equal(t, entity.QuestPending, daily.Status)
	require.Equal(t, dateutil.EndOfDay(now), daily.ExpiresAt)
	require.NotEmpty(t, daily.ID)
	require.Zero(t, daily.Progress)

	weekly := generator.Generate("user1", entity.QuestWeekly, nil, now)
	require.Equal(t, dateutil.EndOfWeek(now), weekly.ExpiresAt)
	require.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), weekly.ExpiresAt)
}

func Test_Generator_Generate_genericFallback(t *testing.T) {
	now := time.Now()

	// Full bias toward skills, but no skill to lean on.
	generator := NewGenerator(100)

	for i := 0; i < 20; i++ {
		quest := generator.Generate("user1", entity.QuestDaily, nil, now)
		require.Empty(t, quest.SkillFamilyID)
		require.NotContains(t, quest.Title, "%s")
	}
}

func Test_Generator_Generate_skillBound(t *testing.T) {
	now := time.Now()
	generator := NewGenerator(100)
	skills := []SkillOption{{FamilyID: "math-family", Name: "Mathematics"}}

	for i := 0; i < 20; i++ {
		quest := generator.Generate("user1", entity.QuestDaily, skills, now)
		require.Equal(t, "math-family", quest.SkillFamilyID)
		require.Contains(t, quest.Title, "Mathematics")

		// Daily skill quests accumulate minutes, not actions.
		require.Greater(t, quest.Total, MinutesUnitThreshold)
	}
}

func Test_Generator_Generate_zeroBias(t *testing.T) {
	now := time.Now()
	generator := NewGenerator(0)
	skills := []SkillOption{{FamilyID: "math-family", Name: "Mathematics"}}

	for i := 0; i < 20; i++ {
		quest := generator.Generate("user1", entity.QuestWeekly, skills, now)
		require.Empty(t, quest.SkillFamilyID)
	}
}
