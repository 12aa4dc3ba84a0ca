package implementation

import (
	"context"
	"errors"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CustomAgentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AgentMapper
}

func NewCustomAgentRepository(db *gorm.DB) contract.CustomAgentRepository {
	return &CustomAgentRepositoryImpl{
		db:     db,
		mapper: mapper.NewAgentMapper(),
	}
}

func (r *CustomAgentRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *CustomAgentRepositoryImpl) Create(ctx context.Context, agent *entity.CustomAgent) error {
	m := r.mapper.CustomAgentToModel(agent)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*agent = *r.mapper.CustomAgentToEntity(m)
	return nil
}

func (r *CustomAgentRepositoryImpl) Update(ctx context.Context, agent *entity.CustomAgent) error {
	m := r.mapper.CustomAgentToModel(agent)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*agent = *r.mapper.CustomAgentToEntity(m)
	return nil
}

func (r *CustomAgentRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CustomAgent{}, id).Error
}

func (r *CustomAgentRepositoryImpl) DeleteAllByOwnerIdUnscoped(ctx context.Context, ownerId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("owner_id = ?", ownerId).Delete(&model.CustomAgent{}).Error
}

func (r *CustomAgentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CustomAgent, error) {
	var m model.CustomAgent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.CustomAgentToEntity(&m), nil
}

func (r *CustomAgentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CustomAgent, error) {
	var models []*model.CustomAgent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.CustomAgent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CustomAgentToEntity(m)
	}
	return entities, nil
}

func (r *CustomAgentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.CustomAgent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
