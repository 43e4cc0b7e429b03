package testutil

import (
	"context"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/repository"
)

// Fixture identifiers shared by domain tests.
const (
	User1 = "user1"
	User2 = "user2"

	MathFamily    = "math-family"
	EnglishFamily = "english-family"
	AlgebraDetail = "algebra-detail"
)

// NewFixtureContext returns a mock context whose database is seeded with two
// users and a small skill taxonomy.
func NewFixtureContext() context.Context {
	ctx := MockContext()
	InsertUsers(ctx)
	InsertSkillTaxonomy(ctx)
	return ctx
}

func InsertUsers(ctx context.Context) {
	userRepo := repository.NewUserRepository()

	err := userRepo.Create(ctx, &entity.User{
		Base:     entity.Base{ID: User1},
		Name:     "User 1",
		Subjects: entity.Array[string]{"Mathematics", "English"},
	})
	if err != nil {
		panic(err)
	}

	err = userRepo.Create(ctx, &entity.User{
		Base: entity.Base{ID: User2},
		Name: "User 2",
	})
	if err != nil {
		panic(err)
	}
}

func InsertSkillTaxonomy(ctx context.Context) {
	skillRepo := repository.NewSkillRepository()

	err := skillRepo.CreateFamily(ctx, &entity.SkillFamily{
		Base:       entity.Base{ID: MathFamily},
		Name:       "Mathematics",
		Keywords:   entity.Array[string]{"math", "matematica", "calculus"},
		Color:      "#6366f1",
		OrderIndex: 1,
		IsActive:   true,
		AutoDetect: true,
	})
	if err != nil {
		panic(err)
	}

	err = skillRepo.CreateFamily(ctx, &entity.SkillFamily{
		Base:       entity.Base{ID: EnglishFamily},
		Name:       "English",
		Keywords:   entity.Array[string]{"english", "vocabulary", "grammar"},
		Color:      "#ec4899",
		OrderIndex: 2,
		IsActive:   true,
		AutoDetect: true,
	})
	if err != nil {
		panic(err)
	}

	err = skillRepo.CreateDetail(ctx, &entity.SkillDetail{
		Base:          entity.Base{ID: AlgebraDetail},
		SkillFamilyID: MathFamily,
		Name:          "Algebra",
		Keywords:      entity.Array[string]{"algebra", "equation"},
	})
	if err != nil {
		panic(err)
	}
}
