package entity

import (
	"time"

	"github.com/google/uuid"
)

// Completion providers a user may store a personal API key for.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// ProviderKey is a per-user completion API key. Cipher holds the AES-GCM
// encrypted key; Last4 is kept in the clear for display only.
type ProviderKey struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Provider  string
	Cipher    string
	Last4     string
	CreatedAt time.Time
	UpdatedAt *time.Time
}
