package event

// XP GAINED EVENT
type XPGainedEvent struct {
	UserID     string `json:"user_id"`
	Amount     int    `json:"amount"`
	ActionType string `json:"action_type"`
	XP         int    `json:"xp"`
	Level      int    `json:"level"`
}

func (*XPGainedEvent) Op() string {
	return "xp_gained"
}

// LEVEL UP EVENT
type LevelUpEvent struct {
	UserID     string `json:"user_id"`
	Amount     int    `json:"amount"`
	ActionType string `json:"action_type"`
	OldLevel   int    `json:"old_level"`
	NewLevel   int    `json:"new_level"`
}

func (*LevelUpEvent) Op() string {
	return "level_up"
}

// TASK COMPLETED EVENT
//
// Published after the reward transaction commits. The follow-up consumer
// turns it into skill XP and quest progress, at most once.
type TaskCompletedEvent struct {
	UserID          string `json:"user_id"`
	EventID         string `json:"event_id"`
	Title           string `json:"title"`
	DurationMinutes int    `json:"duration_minutes"`
}

func (*TaskCompletedEvent) Op() string {
	return "task_completed"
}
