package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/dayflow-labs/backend/internal/domain/event"
	"github.com/dayflow-labs/backend/internal/domain/skillmatch"
	"github.com/dayflow-labs/backend/pkg/pubsub"
	"github.com/dayflow-labs/backend/pkg/xcontext"
)

// FollowUpDomain consumes committed task completions and applies the
// best-effort side effects: skill XP and quest progress. Losing one of these
// to a crash is a bounded inconsistency, the reward ledger already committed.
type FollowUpDomain interface {
	Subscribe(ctx context.Context, pack *pubsub.Pack, tt time.Time)
}

type followUpDomain struct {
	skillMatcher skillmatch.Matcher
	questDomain  QuestDomain
}

func NewFollowUpDomain(skillMatcher skillmatch.Matcher, questDomain QuestDomain) *followUpDomain {
	return &followUpDomain{skillMatcher: skillMatcher, questDomain: questDomain}
}

func (d *followUpDomain) Subscribe(ctx context.Context, pack *pubsub.Pack, tt time.Time) {
	req, err := event.Unmarshal(pack.Msg)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal event: %v", err)
		return
	}

	if req.Op != (&event.TaskCompletedEvent{}).Op() {
		return
	}

	var ev event.TaskCompletedEvent
	if err := json.Unmarshal(req.Data, &ev); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot unmarshal task completed event: %v", err)
		return
	}

	ctx = xcontext.WithRequestUserID(ctx, ev.UserID)

	matches, err := d.skillMatcher.ProcessEvent(ctx, ev.UserID, ev.Title, ev.DurationMinutes)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot process skills of event %s: %v", ev.EventID, err)
	}

	if err := d.questDomain.UpdateProgress(ctx, matches, ev.DurationMinutes); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot update quest progress of event %s: %v", ev.EventID, err)
	}
}
