// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService records usage off the request path: every completed
// exchange published on the bus is folded into the per-day stats.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ChatCompletedMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal usage message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}
	if payload.UserId == uuid.Nil || payload.AgentId == "" {
		log.Printf("[ERROR] Usage message missing user or agent, dropping")
		msg.Ack()
		return
	}

	day := payload.OccurredAt
	if day.IsZero() {
		day = time.Now()
	}

	stat := entity.UsageStat{
		UserId:           payload.UserId,
		AgentId:          payload.AgentId,
		Day:              day,
		MessageCount:     1,
		PromptTokens:     payload.PromptTokens,
		CompletionTokens: payload.CompletionTokens,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsageStatRepository().IncrementDaily(ctx, &stat); err != nil {
		log.Printf("[ERROR] Failed to record usage for user %s: %v", payload.UserId, err)
		msg.Nack() // Nack for retriable errors
		return
	}

	msg.Ack()
}
