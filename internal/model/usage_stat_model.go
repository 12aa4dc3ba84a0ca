package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageStat struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_usage_user_agent_day"`
	AgentId          string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_usage_user_agent_day"`
	Day              time.Time `gorm:"type:date;not null;uniqueIndex:idx_usage_user_agent_day"`
	MessageCount     int       `gorm:"not null;default:0"`
	PromptTokens     int       `gorm:"not null;default:0"`
	CompletionTokens int       `gorm:"not null;default:0"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (UsageStat) TableName() string {
	return "usage_stats"
}
