package entity

import "time"

// SkillFamily is a top-level node of the skill taxonomy. Keywords route
// free-text activity titles to the family; AutoDetect marks families eligible
// for title matching.
type SkillFamily struct {
	Base

	Name       string `gorm:"unique"`
	Keywords   Array[string]
	Color      string
	OrderIndex int
	IsActive   bool
	AutoDetect bool
}

// SkillDetail is a second-level node under a family with its own keywords.
type SkillDetail struct {
	Base

	SkillFamilyID string      `gorm:"index"`
	SkillFamily   SkillFamily `gorm:"foreignKey:SkillFamilyID"`

	Name     string
	Keywords Array[string]
}

// UserSkillProgress accumulates XP per (user, family) and optionally per
// (user, family, detail). Family and detail rows accrue independently and are
// never summed into each other.
type UserSkillProgress struct {
	UserID string `gorm:"primaryKey"`
	User   User   `gorm:"foreignKey:UserID"`

	SkillFamilyID string      `gorm:"primaryKey"`
	SkillFamily   SkillFamily `gorm:"foreignKey:SkillFamilyID"`

	// SkillDetailID is empty for the family aggregate row.
	SkillDetailID string `gorm:"primaryKey"`

	XP    int
	Level int

	LastActivityAt time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}
