package events

import (
	"context"
	"time"

	"ai-assistant-be/internal/pkg/logger"
	pkgEvents "ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"

	"github.com/google/uuid"
)

// Publisher abstracts event publishing for admin operations
type Publisher interface {
	PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, source string)
	PublishUsageReset(ctx context.Context, userId uuid.UUID, email string, previousMessages, previousTokens int64, description string)
	PublishSettingUpdated(ctx context.Context, key, oldValue, newValue string)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

// NewNatsPublisher creates a new NATS-based event publisher
func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// PublishUserRegistered emits USER_REGISTERED event for admin-created users
func (p *NatsPublisher) PublishUserRegistered(ctx context.Context, userId uuid.UUID, email, fullName, source string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: "USER_REGISTERED",
		Data: map[string]interface{}{
			"user_id":   userId,
			"email":     email,
			"full_name": fullName,
			"source":    source,
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USER_REGISTERED event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishUsageReset emits USAGE_RESET event
func (p *NatsPublisher) PublishUsageReset(ctx context.Context, userId uuid.UUID, email string, previousMessages, previousTokens int64, description string) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type: "USAGE_RESET",
		Data: map[string]interface{}{
			"user_id":           userId.String(),
			"user_email":        email,
			"previous_messages": previousMessages,
			"previous_tokens":   previousTokens,
			"description":       description,
			"entity_type":       "user",
			"entity_id":         userId.String(),
		},
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish USAGE_RESET event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishSettingUpdated emits AI_SETTING_UPDATED event
func (p *NatsPublisher) PublishSettingUpdated(ctx context.Context, key, oldValue, newValue string) {
	if p.publisher == nil {
		return
	}

	now := time.Now()
	evt := pkgEvents.BaseEvent{
		Type: "AI_SETTING_UPDATED",
		Data: map[string]interface{}{
			"key":         key,
			"old_value":   oldValue,
			"new_value":   newValue,
			"entity_type": "ai_setting",
			"entity_id":   key,
			"occurred_at": now,
		},
		OccurredAt: now,
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish AI_SETTING_UPDATED event", map[string]interface{}{"error": err.Error()})
	}
}
