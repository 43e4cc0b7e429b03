package entity

type User struct {
	Base
	Name string `gorm:"unique"`

	// Subjects come from the onboarding profile and seed auto-detected skill
	// families.
	Subjects Array[string]
}
