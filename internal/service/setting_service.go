// FILE: internal/service/setting_service.go
package service

import (
	"context"
	"strconv"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/unitofwork"

	"github.com/patrickmn/go-cache"
)

// ChatDefaults are the completion parameters in effect for a request:
// bootstrap values overridden by whatever ai_settings rows exist.
type ChatDefaults struct {
	Provider         string
	Model            string
	MaxTokens        int
	MaxHistoryTurns  int
	MaxContextTokens int
}

type IAiSettingService interface {
	// ChatDefaults never fails; a missing or unreadable settings table
	// yields the bootstrap fallbacks.
	ChatDefaults(ctx context.Context) ChatDefaults

	// Get returns the raw value for a key, false when the key has no row.
	Get(ctx context.Context, key string) (string, bool)

	// Invalidate drops the read cache after an admin write.
	Invalidate()
}

type aiSettingService struct {
	uowFactory unitofwork.RepositoryFactory
	fallback   ChatDefaults
	cache      *cache.Cache
}

// Settings are re-read at most once per minute per key.
const settingCacheTTL = 1 * time.Minute

func NewAiSettingService(uowFactory unitofwork.RepositoryFactory, fallback ChatDefaults) IAiSettingService {
	return &aiSettingService{
		uowFactory: uowFactory,
		fallback:   fallback,
		cache:      cache.New(settingCacheTTL, 5*time.Minute),
	}
}

// cached miss marker; distinguishes "no row" from "not looked up yet".
const settingMissing = "\x00missing"

func (s *aiSettingService) Get(ctx context.Context, key string) (string, bool) {
	if cached, found := s.cache.Get(key); found {
		value := cached.(string)
		if value == settingMissing {
			return "", false
		}
		return value, true
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	setting, err := uow.AiSettingRepository().FindByKey(ctx, key)
	if err != nil {
		// Degrade to fallbacks without caching, the store may recover.
		return "", false
	}
	if setting == nil {
		s.cache.Set(key, settingMissing, cache.DefaultExpiration)
		return "", false
	}

	s.cache.Set(key, setting.Value, cache.DefaultExpiration)
	return setting.Value, true
}

func (s *aiSettingService) ChatDefaults(ctx context.Context) ChatDefaults {
	defaults := s.fallback

	if v, ok := s.Get(ctx, entity.AiSettingKeyDefaultProvider); ok && v != "" {
		defaults.Provider = v
	}
	if v, ok := s.Get(ctx, entity.AiSettingKeyDefaultModel); ok && v != "" {
		defaults.Model = v
	}
	if n, ok := s.getInt(ctx, entity.AiSettingKeyMaxTokens); ok {
		defaults.MaxTokens = n
	}
	if n, ok := s.getInt(ctx, entity.AiSettingKeyMaxHistoryTurns); ok {
		defaults.MaxHistoryTurns = n
	}
	if n, ok := s.getInt(ctx, entity.AiSettingKeyMaxContextTokens); ok {
		defaults.MaxContextTokens = n
	}

	return defaults
}

func (s *aiSettingService) getInt(ctx context.Context, key string) (int, bool) {
	raw, ok := s.Get(ctx, key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (s *aiSettingService) Invalidate() {
	s.cache.Flush()
}
