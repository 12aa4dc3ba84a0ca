package specification

import (
	"time"

	"gorm.io/gorm"
)

// ByAgentID filters rows by their agent column. The column holds a
// predefined slug or a custom agent UUID string, so it is matched as text.
type ByAgentID struct {
	AgentID string
}

func (s ByAgentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("agent_id = ?", s.AgentID)
}

type ByRole struct {
	Role string
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", s.Role)
}

type CreatedAfter struct {
	Time time.Time
}

func (s CreatedAfter) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("created_at > ?", s.Time)
}
