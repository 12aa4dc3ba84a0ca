// FILE: internal/dto/usage_dto.go
// DTOs for usage reporting
package dto

// AgentUsageDTO aggregates one agent's lifetime usage for a user.
type AgentUsageDTO struct {
	AgentId          string `json:"agent_id"`
	AgentName        string `json:"agent_name,omitempty"`
	MessageCount     int64  `json:"message_count"`
	PromptTokens     int64  `json:"prompt_tokens"`
	CompletionTokens int64  `json:"completion_tokens"`
}

// UsageSummaryResponse is returned by GET /api/usage/summary. Agents are
// ordered by message count descending.
type UsageSummaryResponse struct {
	TotalMessages int64           `json:"total_messages"`
	TotalTokens   int64           `json:"total_tokens"`
	Agents        []AgentUsageDTO `json:"agents"`
}
