package entity

import (
	"database/sql"
	"time"
)

// UserProgress is the per-user progression aggregate. It is lazily created on
// the first reward and only mutated inside ledger or streak transactions.
// Level is always recomputed from XP after every mutation.
type UserProgress struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	XP    int
	Level int

	CurrentStreak int
	LongestStreak int

	// LastValidationDate is the last calendar day with a qualifying
	// completion. The streak state machine compares it against today and
	// yesterday.
	LastValidationDate sql.NullTime

	TotalActions int

	CreatedAt time.Time
	UpdatedAt time.Time
}
