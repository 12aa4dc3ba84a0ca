// FILE: internal/service/setting_service_test.go
package service

import (
	"context"
	"testing"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/memory"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newSettingFixture(t *testing.T) (IAiSettingService, *memory.Stores) {
	t.Helper()
	factory := memory.NewRepositoryFactory()
	svc := NewAiSettingService(factory, ChatDefaults{
		Provider:        "openai",
		Model:           "gpt-4",
		MaxTokens:       1500,
		MaxHistoryTurns: 6,
	})
	return svc, factory.Stores()
}

func putSetting(t *testing.T, stores *memory.Stores, key, value string) {
	t.Helper()
	err := stores.AiSettings.Create(context.Background(), &entity.AiSetting{
		Id:    uuid.New(),
		Key:   key,
		Value: value,
	})
	if err != nil {
		t.Fatalf("Failed to seed setting %s: %v", key, err)
	}
}

func TestChatDefaultsFallBackWhenTableIsEmpty(t *testing.T) {
	svc, _ := newSettingFixture(t)

	defaults := svc.ChatDefaults(context.Background())
	assert.Equal(t, "openai", defaults.Provider)
	assert.Equal(t, "gpt-4", defaults.Model)
	assert.Equal(t, 1500, defaults.MaxTokens)
	assert.Equal(t, 6, defaults.MaxHistoryTurns)
	assert.Equal(t, 0, defaults.MaxContextTokens)
}

func TestChatDefaultsReadRuntimeOverrides(t *testing.T) {
	svc, stores := newSettingFixture(t)

	putSetting(t, stores, entity.AiSettingKeyDefaultProvider, "anthropic")
	putSetting(t, stores, entity.AiSettingKeyDefaultModel, "claude-3-haiku")
	putSetting(t, stores, entity.AiSettingKeyMaxTokens, "900")
	putSetting(t, stores, entity.AiSettingKeyMaxContextTokens, "4000")

	defaults := svc.ChatDefaults(context.Background())
	assert.Equal(t, "anthropic", defaults.Provider)
	assert.Equal(t, "claude-3-haiku", defaults.Model)
	assert.Equal(t, 900, defaults.MaxTokens)
	assert.Equal(t, 4000, defaults.MaxContextTokens)

	// chat_max_history_turns has no row, so the bootstrap value survives.
	assert.Equal(t, 6, defaults.MaxHistoryTurns)
}

func TestChatDefaultsIgnoreUnparsableNumbers(t *testing.T) {
	svc, stores := newSettingFixture(t)

	putSetting(t, stores, entity.AiSettingKeyMaxTokens, "a-lot")

	defaults := svc.ChatDefaults(context.Background())
	assert.Equal(t, 1500, defaults.MaxTokens)
}

func TestSettingsAreCachedUntilInvalidate(t *testing.T) {
	svc, stores := newSettingFixture(t)
	ctx := context.Background()

	// First read caches the miss; a row created afterwards stays invisible.
	assert.Equal(t, "gpt-4", svc.ChatDefaults(ctx).Model)
	putSetting(t, stores, entity.AiSettingKeyDefaultModel, "gpt-4o-mini")
	assert.Equal(t, "gpt-4", svc.ChatDefaults(ctx).Model)

	// An admin write flushes the cache and the override takes effect.
	svc.Invalidate()
	assert.Equal(t, "gpt-4o-mini", svc.ChatDefaults(ctx).Model)
}

func TestGetDistinguishesMissingFromEmpty(t *testing.T) {
	svc, stores := newSettingFixture(t)
	ctx := context.Background()

	_, ok := svc.Get(ctx, "no_such_key")
	assert.False(t, ok)

	putSetting(t, stores, "feature_flag", "on")
	svc.Invalidate()

	value, ok := svc.Get(ctx, "feature_flag")
	assert.True(t, ok)
	assert.Equal(t, "on", value)
}
