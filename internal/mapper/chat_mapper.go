package mapper

import (
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/gorm"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

func (m *ChatMapper) ChatTurnToEntity(t *model.ChatTurn) *entity.ChatTurn {
	if t == nil {
		return nil
	}

	var deletedAt *time.Time
	if t.DeletedAt.Valid {
		d := t.DeletedAt.Time
		deletedAt = &d
	}

	return &entity.ChatTurn{
		Id:        t.Id,
		UserId:    t.UserId,
		AgentId:   t.AgentId,
		Role:      entity.ChatTurnRole(t.Role),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		DeletedAt: deletedAt,
		IsDeleted: t.DeletedAt.Valid,
	}
}

func (m *ChatMapper) ChatTurnToModel(t *entity.ChatTurn) *model.ChatTurn {
	if t == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if t.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *t.DeletedAt, Valid: true}
	} else if t.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	return &model.ChatTurn{
		Id:        t.Id,
		UserId:    t.UserId,
		AgentId:   t.AgentId,
		Role:      string(t.Role),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ChatMapper) ChatTurnsToEntities(turns []model.ChatTurn) []entity.ChatTurn {
	out := make([]entity.ChatTurn, 0, len(turns))
	for i := range turns {
		out = append(out, *m.ChatTurnToEntity(&turns[i]))
	}
	return out
}
