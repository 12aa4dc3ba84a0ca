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

type ChatTurnRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ChatMapper
}

func NewChatTurnRepository(db *gorm.DB) contract.ChatTurnRepository {
	return &ChatTurnRepositoryImpl{
		db:     db,
		mapper: mapper.NewChatMapper(),
	}
}

func (r *ChatTurnRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ChatTurnRepositoryImpl) Create(ctx context.Context, turn *entity.ChatTurn) error {
	m := r.mapper.ChatTurnToModel(turn)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*turn = *r.mapper.ChatTurnToEntity(m)
	return nil
}

// CreateBatch inserts turns in one statement. Run inside a unit of work when
// the turns must land together (the user/assistant pair of one exchange).
func (r *ChatTurnRepositoryImpl) CreateBatch(ctx context.Context, turns []*entity.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	models := make([]*model.ChatTurn, len(turns))
	for i, t := range turns {
		models[i] = r.mapper.ChatTurnToModel(t)
	}
	if err := r.db.WithContext(ctx).Create(models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*turns[i] = *r.mapper.ChatTurnToEntity(m)
	}
	return nil
}

func (r *ChatTurnRepositoryImpl) FindRecent(ctx context.Context, userId uuid.UUID, agentId string, limit int) ([]*entity.ChatTurn, error) {
	var models []*model.ChatTurn
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ?", userId, agentId).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	// Newest-first from the query; reverse into chronological order.
	entities := make([]*entity.ChatTurn, len(models))
	for i, m := range models {
		entities[len(models)-1-i] = r.mapper.ChatTurnToEntity(m)
	}
	return entities, nil
}

func (r *ChatTurnRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	var models []*model.ChatTurn
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ChatTurn, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ChatTurnToEntity(m)
	}
	return entities, nil
}

func (r *ChatTurnRepositoryImpl) DeleteByUserAndAgent(ctx context.Context, userId uuid.UUID, agentId string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND agent_id = ?", userId, agentId).
		Delete(&model.ChatTurn{}).Error
}

func (r *ChatTurnRepositoryImpl) DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Unscoped().Where("user_id = ?", userId).Delete(&model.ChatTurn{}).Error
}

func (r *ChatTurnRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ChatTurn{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
