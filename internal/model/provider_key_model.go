package model

import (
	"time"

	"github.com/google/uuid"
)

type ProviderKey struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_provider_keys_user_provider"`
	Provider  string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_provider_keys_user_provider"`
	Cipher    string    `gorm:"type:text;not null"`
	Last4     string    `gorm:"type:varchar(4);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ProviderKey) TableName() string {
	return "provider_keys"
}
