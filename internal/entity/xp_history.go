package entity

import (
	"database/sql"

	"github.com/dayflow-labs/backend/pkg/enum"
)

type XPActionType string

var (
	ActionTaskCreated    = enum.New(XPActionType("task_created"))
	ActionTaskCompleted  = enum.New(XPActionType("task_completed"))
	ActionQuizCompleted  = enum.New(XPActionType("quiz_completed"))
	ActionQuestCompleted = enum.New(XPActionType("quest_completed"))
)

// XPHistory is the append-only reward ledger. The composite unique index over
// (user, external event, action) is what makes duplicate reward delivery
// collapse to a single row even when two replicas race past the read check.
type XPHistory struct {
	SnowFlakeBase

	UserID string `gorm:"index;uniqueIndex:idx_xp_histories_event"`
	User   User   `gorm:"foreignKey:UserID"`

	Amount     int
	ActionType XPActionType `gorm:"uniqueIndex:idx_xp_histories_event"`

	// ExternalEventID is the caller-supplied idempotency key. NULL rows never
	// conflict with each other, so unkeyed rewards always append.
	ExternalEventID sql.NullString `gorm:"uniqueIndex:idx_xp_histories_event"`

	Multiplier float64
}
