// Package agent holds the assistant catalog: the immutable registry of
// predefined personalities and the resolver that merges it with the
// user-owned custom agents into one addressable catalog.
package agent

import (
	"time"

	"github.com/google/uuid"
)

// Definition describes one assistant personality: the system prompt that
// drives it plus the metadata the catalog displays.
//
// Predefined definitions use slug ids ("startup-strategist") and are
// immutable; custom definitions use UUID strings, carry an owner and are
// visible only to that owner. The two id spaces never collide.
type Definition struct {
	ID           string
	Name         string
	Emoji        string
	Category     string
	Description  string
	SystemPrompt string
	Temperature  float64
	Specialties  []string
	QuickActions []string
	IsCustom     bool
	OwnerID      *uuid.UUID // set only when IsCustom
	CreatedAt    time.Time  // zero for predefined
	UpdatedAt    *time.Time
}
