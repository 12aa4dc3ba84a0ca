package dto

import (
	"time"

	"github.com/google/uuid"
)

// AgentResponse is one catalog entry, predefined or custom. Id is a slug for
// predefined agents and a UUID string for custom ones.
type AgentResponse struct {
	Id           string     `json:"id"`
	Name         string     `json:"name"`
	Emoji        string     `json:"emoji"`
	Category     string     `json:"category"`
	Description  string     `json:"description"`
	SystemPrompt string     `json:"system_prompt"`
	Temperature  float64    `json:"temperature"`
	Specialties  []string   `json:"specialties"`
	QuickActions []string   `json:"quick_actions"`
	IsCustom     bool       `json:"is_custom"`
	CreatedAt    *time.Time `json:"created_at,omitempty"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// CatalogResponse carries the resolved catalog. StoreDegraded is true when
// the custom agent store was unreachable and only built-ins are listed.
type CatalogResponse struct {
	Agents        []AgentResponse `json:"agents"`
	Total         int             `json:"total"`
	StoreDegraded bool            `json:"store_degraded"`
}

// CategoryCountResponse is one row of GET /api/agents/categories.
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type CreateAgentRequest struct {
	Name         string   `json:"name" validate:"required,min=2,max=100"`
	Emoji        string   `json:"emoji" validate:"max=16"`
	Category     string   `json:"category" validate:"required,max=100"`
	Description  string   `json:"description" validate:"required,max=500"`
	SystemPrompt string   `json:"system_prompt" validate:"required"`
	Temperature  *float64 `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	Specialties  []string `json:"specialties" validate:"max=10,dive,min=1,max=100"`
	QuickActions []string `json:"quick_actions" validate:"max=10,dive,min=1,max=200"`
}

type CreateAgentResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateAgentRequest struct {
	Id           uuid.UUID
	Name         *string  `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Emoji        *string  `json:"emoji,omitempty" validate:"omitempty,max=16"`
	Category     *string  `json:"category,omitempty" validate:"omitempty,min=1,max=100"`
	Description  *string  `json:"description,omitempty" validate:"omitempty,min=1,max=500"`
	SystemPrompt *string  `json:"system_prompt,omitempty" validate:"omitempty,min=1"`
	Temperature  *float64 `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	Specialties  []string `json:"specialties,omitempty" validate:"omitempty,max=10,dive,min=1,max=100"`
	QuickActions []string `json:"quick_actions,omitempty" validate:"omitempty,max=10,dive,min=1,max=200"`
}

type UpdateAgentResponse struct {
	Id uuid.UUID `json:"id"`
}
