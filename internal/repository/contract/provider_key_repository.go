package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ProviderKeyRepository interface {
	// Upsert replaces the key for (user, provider) or inserts it.
	Upsert(ctx context.Context, key *entity.ProviderKey) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderKey, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderKey, error)
	Delete(ctx context.Context, userId uuid.UUID, provider string) error
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
