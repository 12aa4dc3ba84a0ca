package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChatTurn struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID      `gorm:"type:uuid;not null;index:idx_chat_turns_user_agent"`
	AgentId   string         `gorm:"type:varchar(255);not null;index:idx_chat_turns_user_agent"`
	Role      string         `gorm:"type:varchar(50);not null"`
	Content   string         `gorm:"type:text;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime;index"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
