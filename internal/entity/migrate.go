package entity

import (
	"context"

	"github.com/dayflow-labs/backend/pkg/xcontext"
)

// MigrateTable creates or updates every table of the progression engine.
func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&User{},
		&UserProgress{},
		&XPHistory{},
		&SkillFamily{},
		&SkillDetail{},
		&UserSkillProgress{},
		&TaskValidation{},
		&Quest{},
	)
}
