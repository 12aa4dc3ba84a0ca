package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type AiSettingRepository struct {
	mu       sync.RWMutex
	settings map[string]entity.AiSetting
}

func NewAiSettingRepository() *AiSettingRepository {
	return &AiSettingRepository{
		settings: make(map[string]entity.AiSetting),
	}
}

func (r *AiSettingRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.AiSetting, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.AiSetting
	for _, s := range r.settings {
		if q.key != nil && s.Key != *q.key {
			continue
		}
		found := s
		out = append(out, &found)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return paginate(out, q), nil
}

func (r *AiSettingRepository) FindByKey(_ context.Context, key string) (*entity.AiSetting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if s, ok := r.settings[key]; ok {
		found := s
		return &found, nil
	}
	return nil, nil
}

func (r *AiSettingRepository) Create(_ context.Context, setting *entity.AiSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if setting.Id == uuid.Nil {
		setting.Id = uuid.New()
	}
	if setting.CreatedAt.IsZero() {
		setting.CreatedAt = time.Now()
	}
	r.settings[setting.Key] = *setting
	return nil
}

func (r *AiSettingRepository) Update(_ context.Context, setting *entity.AiSetting) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	setting.UpdatedAt = time.Now()
	r.settings[setting.Key] = *setting
	return nil
}

var _ contract.IAiSettingRepository = (*AiSettingRepository)(nil)
