package entity

import (
	"time"

	"github.com/google/uuid"
)

type ChatTurnRole string

const (
	ChatTurnRoleUser      ChatTurnRole = "user"
	ChatTurnRoleAssistant ChatTurnRole = "assistant"
)

// ChatTurn is one message of a conversation, keyed by (user, agent).
// AgentId is a predefined slug or a custom agent UUID string.
type ChatTurn struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	AgentId   string
	Role      ChatTurnRole
	Content   string
	CreatedAt time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
