package entity

import (
	"time"

	"github.com/google/uuid"
)

// AiSetting stores runtime completion settings (key-value pairs) that admins
// can change without a deploy. Values are read through a short-lived cache.
type AiSetting struct {
	Id          uuid.UUID
	Key         string
	Value       string
	Description string
	UpdatedAt   time.Time
	CreatedAt   time.Time
}

// Runtime setting keys.
const (
	AiSettingKeyDefaultProvider  = "llm_default_provider"
	AiSettingKeyDefaultModel     = "llm_default_model"
	AiSettingKeyMaxTokens        = "llm_max_tokens"
	AiSettingKeyMaxHistoryTurns  = "chat_max_history_turns"
	AiSettingKeyMaxContextTokens = "chat_max_context_tokens"
)
