package model

type RegisterTaskRequest struct {
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	EventDate string `json:"event_date"`
}

type RegisterTaskResponse struct {
	ID string `json:"id"`
}

type ValidateTaskRequest struct {
	ValidationID string `json:"validation_id"`
	Completed    bool   `json:"completed"`
	Notes        string `json:"notes"`
}

type ValidateTaskResponse struct {
	Completed bool `json:"completed"`
	AwardedXP int  `json:"awarded_xp"`
}

type DismissTaskRequest struct {
	ValidationID string `json:"validation_id"`
}

type DismissTaskResponse struct{}

type TaskValidation struct {
	ID        string `json:"id"`
	EventID   string `json:"event_id"`
	Title     string `json:"title"`
	EventDate string `json:"event_date,omitempty"`
	Completed bool   `json:"completed"`
	Dismissed bool   `json:"dismissed"`
}

type GetTasksToValidateRequest struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

type GetTasksToValidateResponse struct {
	Tasks []TaskValidation `json:"tasks"`
}

type GetPendingTasksCountRequest struct{}

type GetPendingTasksCountResponse struct {
	Count int64 `json:"count"`
}
