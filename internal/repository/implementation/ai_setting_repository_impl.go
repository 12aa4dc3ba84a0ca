package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type aiSettingRepository struct {
	db     *gorm.DB
	mapper *mapper.SettingMapper
}

// NewAiSettingRepository creates a new runtime setting repository
func NewAiSettingRepository(db *gorm.DB) contract.IAiSettingRepository {
	return &aiSettingRepository{
		db:     db,
		mapper: mapper.NewSettingMapper(),
	}
}

func (r *aiSettingRepository) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *aiSettingRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AiSetting, error) {
	var models []model.AiSetting
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	query = query.Order("key ASC")

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.AiSetting, len(models))
	for i := range models {
		entities[i] = r.mapper.ToEntity(&models[i])
	}
	return entities, nil
}

func (r *aiSettingRepository) FindByKey(ctx context.Context, key string) (*entity.AiSetting, error) {
	var m model.AiSetting
	if err := r.db.WithContext(ctx).Where("key = ?", key).First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *aiSettingRepository) Create(ctx context.Context, setting *entity.AiSetting) error {
	if setting.Id == uuid.Nil {
		setting.Id = uuid.New()
	}
	m := r.mapper.ToModel(setting)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	setting.Id = m.Id
	return nil
}

func (r *aiSettingRepository) Update(ctx context.Context, setting *entity.AiSetting) error {
	m := r.mapper.ToModel(setting)
	return r.db.WithContext(ctx).Save(m).Error
}
