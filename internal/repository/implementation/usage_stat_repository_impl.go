package implementation

import (
	"context"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UsageStatRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UsageMapper
}

func NewUsageStatRepository(db *gorm.DB) contract.UsageStatRepository {
	return &UsageStatRepositoryImpl{
		db:     db,
		mapper: mapper.NewUsageMapper(),
	}
}

func (r *UsageStatRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *UsageStatRepositoryImpl) IncrementDaily(ctx context.Context, stat *entity.UsageStat) error {
	m := r.mapper.ToModel(stat)
	if m.Id == uuid.Nil {
		m.Id = uuid.New()
	}
	day := m.Day
	if day.IsZero() {
		day = time.Now().UTC()
	}
	return r.db.WithContext(ctx).Exec(`
		INSERT INTO usage_stats (id, user_id, agent_id, day, message_count, prompt_tokens, completion_tokens, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, NOW())
		ON CONFLICT (user_id, agent_id, day)
		DO UPDATE SET
			message_count = usage_stats.message_count + EXCLUDED.message_count,
			prompt_tokens = usage_stats.prompt_tokens + EXCLUDED.prompt_tokens,
			completion_tokens = usage_stats.completion_tokens + EXCLUDED.completion_tokens,
			updated_at = NOW()
	`, m.Id, m.UserId, m.AgentId, day.Format("2006-01-02"), m.MessageCount, m.PromptTokens, m.CompletionTokens).Error
}

func (r *UsageStatRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageStat, error) {
	var models []*model.UsageStat
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UsageStat, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *UsageStatRepositoryImpl) SumByAgent(ctx context.Context, userId uuid.UUID) ([]entity.UsageTotals, error) {
	var totals []entity.UsageTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT agent_id,
			SUM(message_count) as message_count,
			SUM(prompt_tokens) as prompt_tokens,
			SUM(completion_tokens) as completion_tokens
		FROM usage_stats
		WHERE user_id = ?
		GROUP BY agent_id
		ORDER BY SUM(message_count) DESC
	`, userId).Scan(&totals).Error
	return totals, err
}

func (r *UsageStatRepositoryImpl) SumForUser(ctx context.Context, userId uuid.UUID) (entity.UsageTotals, error) {
	var totals entity.UsageTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(message_count), 0) as message_count,
			COALESCE(SUM(prompt_tokens), 0) as prompt_tokens,
			COALESCE(SUM(completion_tokens), 0) as completion_tokens
		FROM usage_stats
		WHERE user_id = ?
	`, userId).Scan(&totals).Error
	return totals, err
}

func (r *UsageStatRepositoryImpl) TopAgents(ctx context.Context, days, limit int) ([]entity.UsageTotals, error) {
	var totals []entity.UsageTotals
	err := r.db.WithContext(ctx).Raw(`
		SELECT agent_id,
			SUM(message_count) as message_count,
			SUM(prompt_tokens) as prompt_tokens,
			SUM(completion_tokens) as completion_tokens
		FROM usage_stats
		WHERE day > NOW() - (? || ' days')::interval
		GROUP BY agent_id
		ORDER BY SUM(message_count) DESC
		LIMIT ?
	`, days, limit).Scan(&totals).Error
	return totals, err
}

func (r *UsageStatRepositoryImpl) DailyTotals(ctx context.Context, days int) ([]map[string]interface{}, error) {
	var results []map[string]interface{}
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(day, 'YYYY-MM-DD') as date,
			SUM(message_count) as messages,
			SUM(prompt_tokens + completion_tokens) as tokens
		FROM usage_stats
		WHERE day > NOW() - (? || ' days')::interval
		GROUP BY date
		ORDER BY date ASC
	`, days).Scan(&results).Error
	return results, err
}

func (r *UsageStatRepositoryImpl) DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userId).Delete(&model.UsageStat{}).Error
}
