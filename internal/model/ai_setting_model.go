package model

import (
	"time"

	"github.com/google/uuid"
)

type AiSetting struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Key         string    `gorm:"type:varchar(100);not null;uniqueIndex"`
	Value       string    `gorm:"type:text;not null"`
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (AiSetting) TableName() string {
	return "ai_settings"
}
