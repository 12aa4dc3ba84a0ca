package implementation

import (
	"context"
	"errors"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProviderKeyRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ProviderKeyMapper
}

func NewProviderKeyRepository(db *gorm.DB) contract.ProviderKeyRepository {
	return &ProviderKeyRepositoryImpl{
		db:     db,
		mapper: mapper.NewProviderKeyMapper(),
	}
}

func (r *ProviderKeyRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ProviderKeyRepositoryImpl) Upsert(ctx context.Context, key *entity.ProviderKey) error {
	m := r.mapper.ToModel(key)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO provider_keys (id, user_id, provider, cipher, last4, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, NOW())
		ON CONFLICT (user_id, provider)
		DO UPDATE SET cipher = EXCLUDED.cipher, last4 = EXCLUDED.last4, updated_at = NOW()
	`, m.Id, m.UserId, m.Provider, m.Cipher, m.Last4, m.CreatedAt).Error
}

func (r *ProviderKeyRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ProviderKey, error) {
	var m model.ProviderKey
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ProviderKeyRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProviderKey, error) {
	var models []*model.ProviderKey
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ProviderKey, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ProviderKeyRepositoryImpl) Delete(ctx context.Context, userId uuid.UUID, provider string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND provider = ?", userId, provider).
		Delete(&model.ProviderKey{}).Error
}

func (r *ProviderKeyRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.ProviderKey{}).Error
}
