package dto

import (
	"time"

	"github.com/google/uuid"
)

type SendMessageRequest struct {
	AgentId string `json:"agent_id" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type TurnDTO struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// SendMessageResponse echoes the stored user turn and the assistant reply.
// Fallback is true when the requested agent was unknown and the default
// answered instead; StoreDegraded is true when custom agents could not be
// loaded for this request.
type SendMessageResponse struct {
	AgentId       string    `json:"agent_id"`
	AgentName     string    `json:"agent_name"`
	Sent          *TurnDTO  `json:"sent"`
	Reply         *TurnDTO  `json:"reply"`
	Fallback      bool      `json:"fallback"`
	StoreDegraded bool      `json:"store_degraded"`
	Usage         *UsageDTO `json:"usage,omitempty"`
}

// UsageDTO carries provider-reported token counts; omitted when the backend
// does not report usage.
type UsageDTO struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

type ChatHistoryResponse struct {
	AgentId string    `json:"agent_id"`
	Turns   []TurnDTO `json:"turns"`
}

// ChatCompletedMessage is the bus payload consumed by the usage recorder.
type ChatCompletedMessage struct {
	UserId           uuid.UUID `json:"user_id"`
	AgentId          string    `json:"agent_id"`
	PromptTokens     int       `json:"prompt_tokens"`
	CompletionTokens int       `json:"completion_tokens"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// RateLimitedError carries the window details for 429 responses.
type RateLimitedError struct {
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *RateLimitedError) Error() string {
	return "message rate limit exceeded"
}
