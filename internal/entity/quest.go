package entity

import (
	"time"

	"github.com/dayflow-labs/backend/pkg/enum"
)

type QuestType string

var (
	QuestDaily  = enum.New(QuestType("daily"))
	QuestWeekly = enum.New(QuestType("weekly"))
)

type QuestStatusType string

var (
	QuestPending   = enum.New(QuestStatusType("pending"))
	QuestCompleted = enum.New(QuestStatusType("completed"))
	QuestFailed    = enum.New(QuestStatusType("failed"))
)

// Quest is a templated, time-boxed objective. Progress never exceeds Total;
// reaching Total flips the status to completed exactly once, which triggers
// the one-time XP payout. Quests are never hard-deleted, they just expire.
type Quest struct {
	Base

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Type   QuestType
	Status QuestStatusType

	Title    string
	XPReward int

	Progress int
	Total    int

	// SkillFamilyID links skill-specific quests to the taxonomy. Empty for
	// generic quests.
	SkillFamilyID string

	ExpiresAt time.Time
}
