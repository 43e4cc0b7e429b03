package entity

import "database/sql"

// TaskValidation mirrors a calendar task that can be confirmed as done.
// EventID is the calendar event identifier and doubles as the idempotency key
// of the completion reward.
type TaskValidation struct {
	Base

	EventID string `gorm:"unique"`

	UserID string `gorm:"index"`
	User   User   `gorm:"foreignKey:UserID"`

	Title     string
	EventDate sql.NullTime

	Completed   bool
	ValidatedAt sql.NullTime
	Dismissed   bool
	Notes       string
}
