package entity

import (
	"time"

	"github.com/google/uuid"
)

// UsageStat accumulates chat activity per (user, agent, day). Rows are
// upserted by the usage consumer, never written on the request path.
type UsageStat struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	AgentId          string
	Day              time.Time
	MessageCount     int
	PromptTokens     int
	CompletionTokens int
	UpdatedAt        time.Time
}

// UsageTotals is an aggregate over usage rows, grouped by agent.
type UsageTotals struct {
	AgentId          string
	MessageCount     int64
	PromptTokens     int64
	CompletionTokens int64
}
