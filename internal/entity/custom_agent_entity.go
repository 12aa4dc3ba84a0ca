package entity

import (
	"time"

	"github.com/google/uuid"
)

// CustomAgent is a user-authored personality. Predefined agents live in the
// in-process registry and never touch the database; only custom definitions
// are persisted.
type CustomAgent struct {
	Id           uuid.UUID
	OwnerId      uuid.UUID
	Name         string
	Emoji        string
	Category     string
	Description  string
	SystemPrompt string
	Temperature  float64
	Specialties  []string
	QuickActions []string
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}
