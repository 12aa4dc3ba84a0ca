package mapper

import (
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"
)

type UsageMapper struct{}

func NewUsageMapper() *UsageMapper {
	return &UsageMapper{}
}

func (m *UsageMapper) ToEntity(s *model.UsageStat) *entity.UsageStat {
	if s == nil {
		return nil
	}
	return &entity.UsageStat{
		Id:               s.Id,
		UserId:           s.UserId,
		AgentId:          s.AgentId,
		Day:              s.Day,
		MessageCount:     s.MessageCount,
		PromptTokens:     s.PromptTokens,
		CompletionTokens: s.CompletionTokens,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *UsageMapper) ToModel(s *entity.UsageStat) *model.UsageStat {
	if s == nil {
		return nil
	}
	return &model.UsageStat{
		Id:               s.Id,
		UserId:           s.UserId,
		AgentId:          s.AgentId,
		Day:              s.Day,
		MessageCount:     s.MessageCount,
		PromptTokens:     s.PromptTokens,
		CompletionTokens: s.CompletionTokens,
		UpdatedAt:        s.UpdatedAt,
	}
}

func (m *UsageMapper) ToEntities(stats []model.UsageStat) []entity.UsageStat {
	out := make([]entity.UsageStat, 0, len(stats))
	for i := range stats {
		out = append(out, *m.ToEntity(&stats[i]))
	}
	return out
}
