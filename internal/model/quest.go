package model

type Quest struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Status          string `json:"status"`
	Progress        int    `json:"progress"`
	Total           int    `json:"total"`
	ProgressPercent int    `json:"progress_percent"`
	XPReward        int    `json:"xp_reward"`
	SkillFamilyID   string `json:"skill_family_id,omitempty"`
	ExpiresAt       string `json:"expires_at"`
}

type GetUserQuestsRequest struct{}

type GetUserQuestsResponse struct {
	Daily  []Quest `json:"daily"`
	Weekly []Quest `json:"weekly"`
}
