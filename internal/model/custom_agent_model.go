package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CustomAgent struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerId      uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name         string         `gorm:"type:varchar(255);not null"`
	Emoji        string         `gorm:"type:varchar(16)"`
	Category     string         `gorm:"type:varchar(255);not null"`
	Description  string         `gorm:"type:text;not null"`
	SystemPrompt string         `gorm:"type:text;not null"`
	Temperature  float64        `gorm:"type:numeric;not null;default:0.7"`
	Specialties  datatypes.JSON `gorm:"type:jsonb"`
	QuickActions datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;index"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (CustomAgent) TableName() string {
	return "custom_agents"
}
