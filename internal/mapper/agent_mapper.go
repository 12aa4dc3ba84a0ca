package mapper

import (
	"encoding/json"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AgentMapper struct{}

func NewAgentMapper() *AgentMapper {
	return &AgentMapper{}
}

func (m *AgentMapper) CustomAgentToEntity(a *model.CustomAgent) *entity.CustomAgent {
	if a == nil {
		return nil
	}

	var deletedAt *time.Time
	if a.DeletedAt.Valid {
		d := a.DeletedAt.Time
		deletedAt = &d
	}

	var updatedAt *time.Time
	if !a.UpdatedAt.IsZero() {
		t := a.UpdatedAt
		updatedAt = &t
	}

	return &entity.CustomAgent{
		Id:           a.Id,
		OwnerId:      a.OwnerId,
		Name:         a.Name,
		Emoji:        a.Emoji,
		Category:     a.Category,
		Description:  a.Description,
		SystemPrompt: a.SystemPrompt,
		Temperature:  a.Temperature,
		Specialties:  jsonToStrings(a.Specialties),
		QuickActions: jsonToStrings(a.QuickActions),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    a.DeletedAt.Valid,
	}
}

func (m *AgentMapper) CustomAgentToModel(a *entity.CustomAgent) *model.CustomAgent {
	if a == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if a.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *a.DeletedAt, Valid: true}
	} else if a.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if a.UpdatedAt != nil {
		updatedAt = *a.UpdatedAt
	}

	return &model.CustomAgent{
		Id:           a.Id,
		OwnerId:      a.OwnerId,
		Name:         a.Name,
		Emoji:        a.Emoji,
		Category:     a.Category,
		Description:  a.Description,
		SystemPrompt: a.SystemPrompt,
		Temperature:  a.Temperature,
		Specialties:  stringsToJSON(a.Specialties),
		QuickActions: stringsToJSON(a.QuickActions),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

func (m *AgentMapper) CustomAgentsToEntities(agents []model.CustomAgent) []entity.CustomAgent {
	out := make([]entity.CustomAgent, 0, len(agents))
	for i := range agents {
		out = append(out, *m.CustomAgentToEntity(&agents[i]))
	}
	return out
}

func jsonToStrings(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func stringsToJSON(values []string) datatypes.JSON {
	if values == nil {
		values = []string{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}
