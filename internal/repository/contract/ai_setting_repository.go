package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
)

// IAiSettingRepository defines runtime completion setting operations
type IAiSettingRepository interface {
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiSetting, error)
	FindByKey(ctx context.Context, key string) (*entity.AiSetting, error)
	Create(ctx context.Context, setting *entity.AiSetting) error
	Update(ctx context.Context, setting *entity.AiSetting) error
}
