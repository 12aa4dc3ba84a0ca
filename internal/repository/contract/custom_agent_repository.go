package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type CustomAgentRepository interface {
	Create(ctx context.Context, agent *entity.CustomAgent) error
	Update(ctx context.Context, agent *entity.CustomAgent) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByOwnerIdUnscoped(ctx context.Context, ownerId uuid.UUID) error // Hard delete on account purge
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CustomAgent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CustomAgent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
