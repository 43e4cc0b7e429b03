package model

type SkillFamily struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Keywords   []string `json:"keywords"`
	Color      string   `json:"color"`
	OrderIndex int      `json:"order_index"`
	IsActive   bool     `json:"is_active"`
	AutoDetect bool     `json:"auto_detect"`
}

type UserSkill struct {
	SkillFamilyID string `json:"skill_family_id"`
	SkillDetailID string `json:"skill_detail_id,omitempty"`
	Name          string `json:"name"`
	XP            int    `json:"xp"`
	Level         int    `json:"level"`
	LastActivity  string `json:"last_activity"`
}

type GetMySkillsRequest struct{}

type GetMySkillsResponse struct {
	Skills []UserSkill `json:"skills"`
}

type ListSkillFamiliesRequest struct{}

type ListSkillFamiliesResponse struct {
	Families []SkillFamily `json:"families"`
}

type ProvisionProfileSkillsRequest struct{}

type ProvisionProfileSkillsResponse struct {
	CreatedFamilies []string `json:"created_families"`
}
