package model

type AddXPRequest struct {
	Amount     int    `json:"amount"`
	ActionType string `json:"action_type"`

	// EventID is the optional idempotency key. Submitting the same
	// (event_id, action_type) twice is a silent no-op.
	EventID string `json:"event_id"`

	// Multiplier defaults to 1.0 when zero. The credited amount is
	// floor(amount*multiplier).
	Multiplier float64 `json:"multiplier"`
}

type AddXPResponse struct {
	XP        int  `json:"xp"`
	Level     int  `json:"level"`
	LeveledUp bool `json:"leveled_up"`
}

type UserProgress struct {
	UserID          string `json:"user_id"`
	XP              int    `json:"xp"`
	Level           int    `json:"level"`
	XPToNextLevel   int    `json:"xp_to_next_level"`
	ProgressPercent int    `json:"progress_percent"`
	CurrentStreak   int    `json:"current_streak"`
	LongestStreak   int    `json:"longest_streak"`
	TotalActions    int    `json:"total_actions"`
}

type GetProgressStatsRequest struct{}

type GetProgressStatsResponse struct {
	Progress UserProgress `json:"progress"`
}

type CheckStreakRequest struct{}

type CheckStreakResponse struct {
	CurrentStreak int `json:"current_streak"`
	LongestStreak int `json:"longest_streak"`
}

type GetLeaderBoardRequest struct {
	Period string `json:"period"`
	Offset int    `json:"offset"`
	Limit  int    `json:"limit"`
}

type LeaderBoardEntry struct {
	UserID string `json:"user_id"`
	XP     int64  `json:"xp"`
}

type GetLeaderBoardResponse struct {
	Entries []LeaderBoardEntry `json:"entries"`
}
