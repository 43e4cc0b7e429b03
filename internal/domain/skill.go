package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// defaultFamilyColors rotate over auto-provisioned families so each gets a
// distinct accent in the UI.
var defaultFamilyColors = []string{
	"#6366f1", "#ec4899", "#14b8a6", "#f59e0b", "#8b5cf6", "#22c55e",
}

type SkillDomain interface {
	GetMySkills(ctx context.Context, req *model.GetMySkillsRequest) (*model.GetMySkillsResponse, error)
	ListSkillFamilies(ctx context.Context, req *model.ListSkillFamiliesRequest) (*model.ListSkillFamiliesResponse, error)
	ProvisionProfileSkills(ctx context.Context, req *model.ProvisionProfileSkillsRequest) (*model.ProvisionProfileSkillsResponse, error)
}

type skillDomain struct {
	skillRepo     repository.SkillRepository
	userSkillRepo repository.UserSkillRepository
	userRepo      repository.UserRepository
}

func NewSkillDomain(
	skillRepo repository.SkillRepository,
	userSkillRepo repository.UserSkillRepository,
	userRepo repository.UserRepository,
) *skillDomain {
	return &skillDomain{
		skillRepo:     skillRepo,
		userSkillRepo: userSkillRepo,
		userRepo:      userRepo,
	}
}

func (d *skillDomain) GetMySkills(
	ctx context.Context, req *model.GetMySkillsRequest,
) (*model.GetMySkillsResponse, error) {
	userID := xcontext.RequestUserID(ctx)

	userSkills, err := d.userSkillRepo.GetListByUserID(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get user skills: %v", err)
		return nil, errorx.Unknown
	}

	families, err := d.skillRepo.GetFamilies(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get skill families: %v", err)
		return nil, errorx.Unknown
	}

	nameByID := map[string]string{}
	for _, f := range families {
		nameByID[f.ID] = f.Name
	}

	skills := []model.UserSkill{}
	for _, s := range userSkills {
		skills = append(skills, model.UserSkill{
			SkillFamilyID: s.SkillFamilyID,
			SkillDetailID: s.SkillDetailID,
			Name:          nameByID[s.SkillFamilyID],
			XP:            s.XP,
			Level:         s.Level,
			LastActivity:  s.LastActivityAt.Format(time.RFC3339),
		})
	}

	return &model.GetMySkillsResponse{Skills: skills}, nil
}

func (d *skillDomain) ListSkillFamilies(
	ctx context.Context, req *model.ListSkillFamiliesRequest,
) (*model.ListSkillFamiliesResponse, error) {
	families, err := d.skillRepo.GetFamilies(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get skill families: %v", err)
		return nil, errorx.Unknown
	}

	result := []model.SkillFamily{}
	for _, f := range families {
		result = append(result, model.SkillFamily{
			ID:         f.ID,
			Name:       f.Name,
			Keywords:   f.Keywords,
			Color:      f.Color,
			OrderIndex: f.OrderIndex,
			IsActive:   f.IsActive,
			AutoDetect: f.AutoDetect,
		})
	}

	return &model.ListSkillFamiliesResponse{Families: result}, nil
}

// ProvisionProfileSkills creates an auto-detectable family for every profile
// subject the taxonomy does not cover yet. It runs after onboarding and is
// safe to repeat.
func (d *skillDomain) ProvisionProfileSkills(
	ctx context.Context, req *model.ProvisionProfileSkillsRequest,
) (*model.ProvisionProfileSkillsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous provisioning")
	}

	user, err := d.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found user")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	families, err := d.skillRepo.GetFamilies(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get skill families: %v", err)
		return nil, errorx.Unknown
	}

	existing := map[string]bool{}
	maxOrder := 0
	for _, f := range families {
		existing[strings.ToLower(f.Name)] = true
		if f.OrderIndex > maxOrder {
			maxOrder = f.OrderIndex
		}
	}

	created := []string{}
	for _, subject := range user.Subjects {
		subject = strings.TrimSpace(subject)
		if subject == "" || existing[strings.ToLower(subject)] {
			continue
		}

		maxOrder++
		family := &entity.SkillFamily{
			Base:       entity.Base{ID: uuid.NewString()},
			Name:       subject,
			Keywords:   entity.Array[string]{strings.ToLower(subject)},
			Color:      defaultFamilyColors[len(created)%len(defaultFamilyColors)],
			OrderIndex: maxOrder,
			IsActive:   true,
			AutoDetect: true,
		}

		if err := d.skillRepo.CreateFamily(ctx, family); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create skill family: %v", err)
			return nil, errorx.Unknown
		}

		existing[strings.ToLower(subject)] = true
		created = append(created, subject)
	}

	return &model.ProvisionProfileSkillsResponse{CreatedFamilies: created}, nil
}
