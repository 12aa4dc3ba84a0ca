// FILE: internal/service/consumer_service_test.go
package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/pkg/agent"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

const testUsageTopic = "CHAT_COMPLETED_TEST"

func newUsagePipeline(t *testing.T) (IPublisherService, *memory.RepositoryFactory) {
	t.Helper()

	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	t.Cleanup(func() { _ = pubSub.Close() })

	factory := memory.NewRepositoryFactory()
	publisher := NewPublisherService(testUsageTopic, pubSub)
	consumer := NewConsumerService(pubSub, testUsageTopic, factory)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := consumer.Consume(ctx); err != nil {
		t.Fatalf("Consume failed: %v", err)
	}

	return publisher, factory
}

func publishCompletedMessage(t *testing.T, publisher IPublisherService, msg dto.ChatCompletedMessage) {
	t.Helper()
	payload, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if err := publisher.Publish(context.Background(), payload); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
}

func TestUsagePipelineAggregatesExchanges(t *testing.T) {
	publisher, factory := newUsagePipeline(t)
	userId := uuid.New()
	now := time.Now()

	publishCompletedMessage(t, publisher, dto.ChatCompletedMessage{
		UserId: userId, AgentId: agent.DefaultAgentID,
		PromptTokens: 100, CompletionTokens: 40, OccurredAt: now,
	})
	publishCompletedMessage(t, publisher, dto.ChatCompletedMessage{
		UserId: userId, AgentId: agent.DefaultAgentID,
		PromptTokens: 60, CompletionTokens: 20, OccurredAt: now,
	})
	publishCompletedMessage(t, publisher, dto.ChatCompletedMessage{
		UserId: userId, AgentId: "sales-performance-coach",
		PromptTokens: 10, CompletionTokens: 5, OccurredAt: now,
	})

	stats := factory.Stores().UsageStats
	assert.Eventually(t, func() bool {
		totals, err := stats.SumForUser(context.Background(), userId)
		return err == nil && totals.MessageCount == 3
	}, 2*time.Second, 10*time.Millisecond, "usage rows never arrived")

	// Same user, same agent, same day folds into one row.
	byAgent, err := stats.SumByAgent(context.Background(), userId)
	assert.NoError(t, err)
	assert.Len(t, byAgent, 2)

	usage := NewUsageService(factory, agent.NewResolver(agent.NewRegistry(), NewAgentSource(factory)))
	summary, err := usage.GetSummary(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalMessages)
	assert.Equal(t, int64(235), summary.TotalTokens)
	if assert.Len(t, summary.Agents, 2) {
		// Ordered by message count, busiest agent first, with its
		// display name resolved from the catalog.
		top := summary.Agents[0]
		assert.Equal(t, agent.DefaultAgentID, top.AgentId)
		assert.NotEmpty(t, top.AgentName)
		assert.Equal(t, int64(2), top.MessageCount)
		assert.Equal(t, int64(160), top.PromptTokens)
		assert.Equal(t, int64(60), top.CompletionTokens)
	}
}

func TestUsageConsumerDropsInvalidMessages(t *testing.T) {
	publisher, factory := newUsagePipeline(t)
	userId := uuid.New()

	// Garbage and incomplete payloads are acknowledged and skipped, they
	// must not wedge the subscription.
	if err := publisher.Publish(context.Background(), []byte("{not json")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	publishCompletedMessage(t, publisher, dto.ChatCompletedMessage{
		AgentId: agent.DefaultAgentID, PromptTokens: 999,
	})
	publishCompletedMessage(t, publisher, dto.ChatCompletedMessage{
		UserId: userId, PromptTokens: 999,
	})
	publishCompletedMessage(t, publisher, dto.ChatCompletedMessage{
		UserId: userId, AgentId: agent.DefaultAgentID,
		PromptTokens: 50, CompletionTokens: 25, OccurredAt: time.Now(),
	})

	stats := factory.Stores().UsageStats
	assert.Eventually(t, func() bool {
		totals, err := stats.SumForUser(context.Background(), userId)
		return err == nil && totals.MessageCount == 1
	}, 2*time.Second, 10*time.Millisecond, "valid message never processed")

	totals, err := stats.SumForUser(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, int64(50), totals.PromptTokens)
	assert.Equal(t, int64(25), totals.CompletionTokens)
}
