package mapper

import (
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type ProviderKeyMapper struct{}

func NewProviderKeyMapper() *ProviderKeyMapper {
	return &ProviderKeyMapper{}
}

func (m *ProviderKeyMapper) ToEntity(k *model.ProviderKey) *entity.ProviderKey {
	if k == nil {
		return nil
	}

	var updatedAt *time.Time
	if !k.UpdatedAt.IsZero() {
		t := k.UpdatedAt
		updatedAt = &t
	}

	return &entity.ProviderKey{
		Id:        k.Id,
		UserId:    k.UserId,
		Provider:  k.Provider,
		Cipher:    k.Cipher,
		Last4:     k.Last4,
		CreatedAt: k.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *ProviderKeyMapper) ToModel(k *entity.ProviderKey) *model.ProviderKey {
	if k == nil {
		return nil
	}

	var updatedAt time.Time
	if k.UpdatedAt != nil {
		updatedAt = *k.UpdatedAt
	}

	return &model.ProviderKey{
		Id:        k.Id,
		UserId:    k.UserId,
		Provider:  k.Provider,
		Cipher:    k.Cipher,
		Last4:     k.Last4,
		CreatedAt: k.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
