package aisettings

import (
	"context"
	"fmt"
	"strconv"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/unitofwork"
	adminEvents "ai-assistant-be/pkg/admin/events"
)

// Manager handles runtime completion setting operations
type Manager struct {
	publisher adminEvents.Publisher
}

// NewManager creates a new settings manager
func NewManager(publisher adminEvents.Publisher) *Manager {
	return &Manager{publisher: publisher}
}

// GetAll retrieves all runtime settings
func (m *Manager) GetAll(ctx context.Context, uow unitofwork.UnitOfWork) ([]*dto.AiSettingResponse, error) {
	settings, err := uow.AiSettingRepository().FindAll(ctx)
	if err != nil {
		return nil, err
	}

	var responses []*dto.AiSettingResponse
	for _, s := range settings {
		responses = append(responses, settingToResponse(s))
	}

	return responses, nil
}

// GetByKey retrieves a setting by key
func (m *Manager) GetByKey(ctx context.Context, uow unitofwork.UnitOfWork, key string) (*dto.AiSettingResponse, error) {
	setting, err := uow.AiSettingRepository().FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("setting with key '%s' not found", key)
	}

	return settingToResponse(setting), nil
}

// Update changes a setting value and emits an audit event
func (m *Manager) Update(ctx context.Context, uow unitofwork.UnitOfWork, key string, req dto.UpdateAiSettingRequest) (*dto.AiSettingResponse, error) {
	setting, err := uow.AiSettingRepository().FindByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if setting == nil {
		return nil, fmt.Errorf("setting with key '%s' not found", key)
	}

	if err := validateSettingValue(key, req.Value); err != nil {
		return nil, err
	}

	oldValue := setting.Value
	setting.Value = req.Value

	if err := uow.AiSettingRepository().Update(ctx, setting); err != nil {
		return nil, err
	}

	if m.publisher != nil {
		m.publisher.PublishSettingUpdated(ctx, key, oldValue, req.Value)
	}

	return settingToResponse(setting), nil
}

// validateSettingValue rejects values the chat pipeline could not use.
func validateSettingValue(key, value string) error {
	switch key {
	case entity.AiSettingKeyDefaultProvider:
		switch value {
		case entity.ProviderOpenAI, entity.ProviderAnthropic, "ollama":
			return nil
		}
		return fmt.Errorf("unknown provider %q", value)
	case entity.AiSettingKeyMaxTokens, entity.AiSettingKeyMaxHistoryTurns, entity.AiSettingKeyMaxContextTokens:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("setting %s requires a number", key)
		}
		if n < 0 {
			return fmt.Errorf("setting %s cannot be negative", key)
		}
	}
	return nil
}

func settingToResponse(s *entity.AiSetting) *dto.AiSettingResponse {
	return &dto.AiSettingResponse{
		Key:         s.Key,
		Value:       s.Value,
		Description: s.Description,
		UpdatedAt:   s.UpdatedAt,
	}
}
