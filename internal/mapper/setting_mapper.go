package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type SettingMapper struct{}

func NewSettingMapper() *SettingMapper {
	return &SettingMapper{}
}

func (m *SettingMapper) ToEntity(s *model.AiSetting) *entity.AiSetting {
	if s == nil {
		return nil
	}
	return &entity.AiSetting{
		Id:          s.Id,
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *SettingMapper) ToModel(s *entity.AiSetting) *model.AiSetting {
	if s == nil {
		return nil
	}
	return &model.AiSetting{
		Id:          s.Id,
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func (m *SettingMapper) ToEntities(settings []model.AiSetting) []entity.AiSetting {
	out := make([]entity.AiSetting, 0, len(settings))
	for i := range settings {
		out = append(out, *m.ToEntity(&settings[i]))
	}
	return out
}
