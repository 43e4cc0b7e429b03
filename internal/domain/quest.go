package domain

import (
	"context"
	"time"

	"github.com/dayflow-labs/backend/internal/domain/questgen"
	"github.com/dayflow-labs/backend/internal/domain/skillmatch"
	"github.com/dayflow-labs/backend/internal/entity"
	"github.com/dayflow-labs/backend/internal/model"
	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/errorx"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"github.com/pkg/math"
)

type QuestDomain interface {
	GetUserQuests(ctx context.Context, req *model.GetUserQuestsRequest) (*model.GetUserQuestsResponse, error)
	UpdateProgress(ctx context.Context, matches []skillmatch.Match, durationMinutes int) error
}

type questDomain struct {
	questRepo         repository.QuestRepository
	userSkillRepo     repository.UserSkillRepository
	skillRepo         repository.SkillRepository
	progressionDomain ProgressionDomain
	generator         *questgen.Generator
}

func NewQuestDomain(
	questRepo repository.QuestRepository,
	userSkillRepo repository.UserSkillRepository,
	skillRepo repository.SkillRepository,
	progressionDomain ProgressionDomain,
	generator *questgen.Generator,
) *questDomain {
	return &questDomain{
		questRepo:         questRepo,
		userSkillRepo:     userSkillRepo,
		skillRepo:         skillRepo,
		progressionDomain: progressionDomain,
		generator:         generator,
	}
}

// GetUserQuests returns the active quest board, generating quests on the fly
// when a type has fewer active ones than the configured floor. Generation
// happens on read, there is no background job.
func (d *questDomain) GetUserQuests(
	ctx context.Context, req *model.GetUserQuestsRequest,
) (*model.GetUserQuestsResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Not allow an anonymous quest board")
	}

	now := time.Now()
	skills, err := d.skillOptions(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load user skills: %v", err)
		return nil, errorx.Unknown
	}

	daily, err := d.ensureQuests(ctx, userID, entity.QuestDaily, skills, now)
	if err != nil {
		return nil, err
	}

	weekly, err := d.ensureQuests(ctx, userID, entity.QuestWeekly, skills, now)
	if err != nil {
		return nil, err
	}

	return &model.GetUserQuestsResponse{
		Daily:  convertQuests(daily),
		Weekly: convertQuests(weekly),
	}, nil
}

func (d *questDomain) ensureQuests(
	ctx context.Context,
	userID string,
	questType entity.QuestType,
	skills []questgen.SkillOption,
	now time.Time,
) ([]entity.Quest, error) {
	quests, err := d.questRepo.GetActiveList(ctx, userID, questType, now)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get active quests: %v", err)
		return nil, errorx.Unknown
	}

	minActive := xcontext.Configs(ctx).Quest.MinActivePerType
	for len(quests) < minActive {
		quest := d.generator.Generate(userID, questType, skills, now)
		if err := d.questRepo.Create(ctx, quest); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create quest: %v", err)
			return nil, errorx.Unknown
		}

		quests = append(quests, *quest)
	}

	return quests, nil
}

func (d *questDomain) skillOptions(ctx context.Context, userID string) ([]questgen.SkillOption, error) {
	userSkills, err := d.userSkillRepo.GetListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	families, err := d.skillRepo.GetFamilies(ctx)
	if err != nil {
		return nil, err
	}

	nameByID := map[string]string{}
	for _, f := range families {
		nameByID[f.ID] = f.Name
	}

	var options []questgen.SkillOption
	for _, s := range userSkills {
		// Detail rows repeat the family, only aggregate rows become options.
		if s.SkillDetailID != "" {
			continue
		}

		name, ok := nameByID[s.SkillFamilyID]
		if !ok {
			continue
		}

		options = append(options, questgen.SkillOption{FamilyID: s.SkillFamilyID, Name: name})
	}

	return options, nil
}

// UpdateProgress ticks every quest the event touches. Callers invoke it at
// most once per logical event, there is no deduplication key on this path.
func (d *questDomain) UpdateProgress(
	ctx context.Context, matches []skillmatch.Match, durationMinutes int,
) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errorx.New(errorx.Unauthenticated, "Not allow an anonymous quest progress")
	}

	matchedFamilies := map[string]bool{}
	for _, m := range matches {
		matchedFamilies[m.FamilyID] = true
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	quests, err := d.questRepo.GetActivePendingList(ctx, userID, time.Now())
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get pending quests: %v", err)
		return errorx.Unknown
	}

	for _, quest := range quests {
		if quest.SkillFamilyID != "" && !matchedFamilies[quest.SkillFamilyID] {
			continue
		}

		delta := 1
		if quest.Total > questgen.MinutesUnitThreshold {
			delta = durationMinutes
		}

		if delta <= 0 {
			continue
		}

		newProgress := math.MinInt(quest.Total, quest.Progress+delta)
		if newProgress < quest.Total {
			if err := d.questRepo.UpdateProgress(ctx, quest.ID, newProgress); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot update quest progress: %v", err)
				return errorx.Unknown
			}

			continue
		}

		flipped, err := d.questRepo.Complete(ctx, quest.ID, newProgress)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot complete quest: %v", err)
			return errorx.Unknown
		}

		// A racing caller flipped this quest first, the payout is theirs.
		if !flipped {
			continue
		}

		_, err = d.progressionDomain.AddXP(ctx, &model.AddXPRequest{
			Amount:     quest.XPReward,
			ActionType: string(entity.ActionQuestCompleted),
			EventID:    quest.ID,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot award quest xp: %v", err)
			return errorx.Unknown
		}
	}

	xcontext.WithCommitDBTransaction(ctx)
	return nil
}

func convertQuests(quests []entity.Quest) []model.Quest {
	result := []model.Quest{}
	for _, q := range quests {
		percent := 0
		if q.Total > 0 {
			percent = math.MinInt(100, q.Progress*100/q.Total)
		}

		result = append(result, model.Quest{
			ID:              q.ID,
			Title:           q.Title,
			Type:            string(q.Type),
			Status:          string(q.Status),
			Progress:        q.Progress,
			Total:           q.Total,
			ProgressPercent: percent,
			XPReward:        q.XPReward,
			SkillFamilyID:   q.SkillFamilyID,
			ExpiresAt:       q.ExpiresAt.Format(time.RFC3339),
		})
	}

	return result
}
