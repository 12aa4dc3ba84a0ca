package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ChatTurnRepository interface {
	Create(ctx context.Context, turn *entity.ChatTurn) error
	CreateBatch(ctx context.Context, turns []*entity.ChatTurn) error
	// FindRecent returns at most limit turns for (user, agent) in
	// chronological order, keeping the newest when over the limit.
	FindRecent(ctx context.Context, userId uuid.UUID, agentId string, limit int) ([]*entity.ChatTurn, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error)
	DeleteByUserAndAgent(ctx context.Context, userId uuid.UUID, agentId string) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error // Hard delete on account purge
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
