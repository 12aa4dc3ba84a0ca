// FILE: internal/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserProfileResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=3"`
	Email    string `json:"email" validate:"omitempty,email"`
}

// SaveProviderKeyRequest stores or replaces the caller's API key for one
// provider. The raw key is encrypted at rest; only the last four characters
// are ever returned.
type SaveProviderKeyRequest struct {
	Provider string `json:"provider" validate:"required,oneof=openai anthropic"`
	ApiKey   string `json:"api_key" validate:"required,min=16"`
}

type ProviderKeyResponse struct {
	Provider  string     `json:"provider"`
	Last4     string     `json:"last4"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}
