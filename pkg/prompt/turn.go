package prompt

import (
	"time"

	"ai-assistant-be/pkg/llm"
)

// Turn is one message of a stored conversation, oldest-first when in a
// slice. Role is one of llm.RoleUser or llm.RoleAssistant; the system
// prompt is never stored as a turn.
type Turn struct {
	Role      string
	Content   string
	Timestamp time.Time
}

// Message converts the turn to the provider wire format.
func (t Turn) Message() llm.Message {
	return llm.Message{Role: t.Role, Content: t.Content}
}
