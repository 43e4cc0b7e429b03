package skillmatch

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"unicode"

	"github.com/dayflow-labs/backend/internal/repository"
	"github.com/dayflow-labs/backend/pkg/xcontext"
	"golang.org/x/exp/slices"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	familyKeywordScore = 20
	detailKeywordScore = 30
	maxScore           = 100

	// Only the strongest families receive XP from a single event.
	maxRewardedFamilies = 2
)

// Match is one skill family the event text hit, with the score in [1, 100]
// and the best matching child skill when one contributed.
type Match struct {
	FamilyID     string
	FamilyName   string
	Score        int
	BestDetailID string
}

type Matcher interface {
	MatchTitle(ctx context.Context, title string) ([]Match, error)
	GrantSkillXP(ctx context.Context, userID, familyID, detailID string, amount int) error
	ProcessEvent(ctx context.Context, userID, title string, durationMinutes int) ([]Match, error)
}

type matcher struct {
	skillRepo     repository.SkillRepository
	userSkillRepo repository.UserSkillRepository
}

func NewMatcher(
	skillRepo repository.SkillRepository,
	userSkillRepo repository.UserSkillRepository,
) *matcher {
	return &matcher{skillRepo: skillRepo, userSkillRepo: userSkillRepo}
}

// MatchTitle scores every auto-detectable family against the event text.
// Scoring is deterministic: the same title always yields the same matches in
// the same order.
func (m *matcher) MatchTitle(ctx context.Context, title string) ([]Match, error) {
	text := normalize(title)
	if text == "" {
		return nil, nil
	}

	families, err := m.skillRepo.GetAutoDetectFamilyRows(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get skill families: %v", err)
		return nil, err
	}

	if len(families) == 0 {
		return nil, nil
	}

	familyIDs := make([]string, 0, len(families))
	for _, f := range families {
		familyIDs = append(familyIDs, f.ID)
	}

	details, err := m.skillRepo.GetDetailRowsByFamilyIDs(ctx, familyIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get skill details: %v", err)
		return nil, err
	}

	detailsByFamily := map[string][]repository.SkillDetailRow{}
	for _, d := range details {
		detailsByFamily[d.SkillFamilyID] = append(detailsByFamily[d.SkillFamilyID], d)
	}

	var matches []Match
	for _, f := range families {
		keywords, ok := parseKeywords(ctx, f.Keywords, f.Name)
		if !ok {
			continue
		}

		score := 0
		for _, kw := range keywords {
			if kw != "" && strings.Contains(text, kw) {
				score += familyKeywordScore
			}
		}

		bestDetailID, bestDetailScore := "", 0
		for _, d := range detailsByFamily[f.ID] {
			detailKeywords, ok := parseKeywords(ctx, d.Keywords, d.Name)
			if !ok {
				continue
			}

			detailScore := 0
			for _, kw := range detailKeywords {
				if kw != "" && strings.Contains(text, kw) {
					detailScore += detailKeywordScore
				}
			}

			if detailScore > bestDetailScore {
				bestDetailID, bestDetailScore = d.ID, detailScore
			}
		}

		total := score + bestDetailScore
		if total == 0 {
			continue
		}

		if total > maxScore {
			total = maxScore
		}

		matches = append(matches, Match{
			FamilyID:     f.ID,
			FamilyName:   f.Name,
			Score:        total,
			BestDetailID: bestDetailID,
		})
	}

	// Ties keep the taxonomy order the query returned, so ranking is stable.
	slices.SortStableFunc(matches, func(a, b Match) bool {
		return a.Score > b.Score
	})

	return matches, nil
}

// ProcessEvent converts time spent into skill XP for the strongest matches.
// It returns the matches that actually received a grant.
func (m *matcher) ProcessEvent(
	ctx context.Context, userID, title string, durationMinutes int,
) ([]Match, error) {
	matches, err := m.MatchTitle(ctx, title)
	if err != nil {
		return nil, err
	}

	baseXP := int(math.Round(float64(durationMinutes) * 0.5))
	if baseXP <= 0 || len(matches) == 0 {
		return nil, nil
	}

	rewarded := []Match{}
	for _, match := range matches {
		if len(rewarded) == maxRewardedFamilies {
			break
		}

		amount := baseXP * match.Score / maxScore
		if amount == 0 {
			continue
		}

		if err := m.GrantSkillXP(ctx, userID, match.FamilyID, match.BestDetailID, amount); err != nil {
			xcontext.Logger(ctx).Warnf(
				"Cannot grant skill xp of family %s to user %s: %v", match.FamilyID, userID, err)
			continue
		}

		rewarded = append(rewarded, match)
	}

	return rewarded, nil
}

// parseKeywords unmarshals one keyword column. A corrupted row loses its own
// matches and nothing else.
func parseKeywords(ctx context.Context, raw, name string) ([]string, bool) {
	var keywords []string
	if err := json.Unmarshal([]byte(raw), &keywords); err != nil {
		xcontext.Logger(ctx).Warnf("Ignored malformed keywords of skill %s: %v", name, err)
		return nil, false
	}

	for i, kw := range keywords {
		keywords[i] = normalize(kw)
	}

	return keywords, true
}

// normalize lowercases and strips diacritics, so "Matemática" matches "matematica".
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, strings.ToLower(s))
	if err != nil {
		return strings.ToLower(s)
	}

	return strings.TrimSpace(out)
}
