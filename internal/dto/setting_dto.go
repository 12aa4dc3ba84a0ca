package dto

import (
	"time"
)

// AiSettingResponse represents one runtime configuration row.
type AiSettingResponse struct {
	Key         string    `json:"key"`
	Value       string    `json:"value"`
	Description string    `json:"description"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UpdateAiSettingRequest for updating a configuration value
type UpdateAiSettingRequest struct {
	Value string `json:"value" validate:"required"`
}
