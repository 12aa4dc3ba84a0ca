// FILE: internal/service/chat_service.go
package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/ratelimit"
	"ai-assistant-be/internal/pkg/security"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/events"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/llm/factory"
	"ai-assistant-be/pkg/metrics"
	pktNats "ai-assistant-be/pkg/nats"
	"ai-assistant-be/pkg/prompt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// RealtimeDelivery pushes ephemeral events to a user's live connections.
// Typically implemented by the WebSocket Hub.
type RealtimeDelivery interface {
	Send(userID uuid.UUID, event events.Event)
}

// ProviderConfig carries the server-wide completion credentials and the
// request timeout. Per-user stored keys take precedence over these.
type ProviderConfig struct {
	OpenAIKey      string
	AnthropicKey   string
	OllamaBaseURL  string
	RequestTimeout time.Duration
}

type IChatService interface {
	SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error)
	GetHistory(ctx context.Context, userId uuid.UUID, agentId string) (*dto.ChatHistoryResponse, error)
	ClearHistory(ctx context.Context, userId uuid.UUID, agentId string) error
	ExportHistory(ctx context.Context, userId uuid.UUID, agentId string) ([]byte, error)
}

// historyPageSize is the read window for GET history.
const historyPageSize = 50

type chatService struct {
	uowFactory       unitofwork.RepositoryFactory
	resolver         *agent.Resolver
	counter          prompt.TokenCounter
	settings         IAiSettingService
	providerCfg      ProviderConfig
	cipher           *security.KeyCipher
	limiter          *ratelimit.Limiter
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	delivery         RealtimeDelivery
	logger           logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	resolver *agent.Resolver,
	counter prompt.TokenCounter,
	settings IAiSettingService,
	providerCfg ProviderConfig,
	cipher *security.KeyCipher,
	limiter *ratelimit.Limiter,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	delivery RealtimeDelivery,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:       uowFactory,
		resolver:         resolver,
		counter:          counter,
		settings:         settings,
		providerCfg:      providerCfg,
		cipher:           cipher,
		limiter:          limiter,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		delivery:         delivery,
		logger:           log,
	}
}

func (s *chatService) SendMessage(ctx context.Context, userId uuid.UUID, req *dto.SendMessageRequest) (*dto.SendMessageResponse, error) {
	quota, err := s.limiter.Allow(ctx, userId.String())
	if err != nil {
		s.logger.Warn("ChatService", "Rate limit check failed, allowing request", map[string]interface{}{"error": err.Error()})
	}
	if !quota.Allowed {
		return nil, &dto.RateLimitedError{Limit: quota.Limit, Used: quota.Used, ResetAfter: quota.ResetAfter}
	}

	storeDegraded := false
	catalog, err := s.resolver.ResolveCatalog(ctx, &userId)
	if err != nil {
		if !errors.Is(err, agent.ErrStoreUnavailable) {
			return nil, err
		}
		storeDegraded = true
		s.logger.Warn("ChatService", "Custom agent store unavailable, serving built-ins only", map[string]interface{}{"user_id": userId})
	}
	metrics.CatalogResolutionsTotal.WithLabelValues(strconv.FormatBool(storeDegraded)).Inc()

	usedFallback := false
	def, err := catalog.Resolve(req.AgentId)
	if err != nil {
		if !errors.Is(err, agent.ErrUnknownAgent) {
			return nil, err
		}
		fallbackDef := s.resolver.Registry().Default()
		def = &fallbackDef
		usedFallback = true
		s.logger.Info("ChatService", "Unknown agent id, answering with default", map[string]interface{}{"requested": req.AgentId, "fallback": def.ID})
	}

	defaults := s.settings.ChatDefaults(ctx)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	stored, err := uow.ChatTurnRepository().FindRecent(ctx, userId, def.ID, defaults.MaxHistoryTurns)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	history := lo.Map(stored, func(t *entity.ChatTurn, _ int) prompt.Turn {
		return prompt.Turn{Role: string(t.Role), Content: t.Content, Timestamp: t.CreatedAt}
	})

	builder := prompt.NewBuilder(s.counter, defaults.MaxHistoryTurns, defaults.MaxContextTokens)
	messages, err := builder.Build(def, history, req.Message)
	if err != nil {
		return nil, err
	}
	metrics.ChatMessagesTotal.Inc()

	provider, err := s.providerFor(ctx, uow, userId, defaults)
	if err != nil {
		return nil, err
	}

	callCtx := ctx
	if s.providerCfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, s.providerCfg.RequestTimeout)
		defer cancel()
	}

	sentAt := time.Now()
	completion, err := provider.Chat(callCtx, messages,
		llm.WithModel(defaults.Model),
		llm.WithTemperature(def.Temperature),
		llm.WithMaxTokens(defaults.MaxTokens),
	)
	metrics.CompletionDuration.WithLabelValues(provider.Name()).Observe(time.Since(sentAt).Seconds())
	if err != nil {
		metrics.CompletionsTotal.WithLabelValues(provider.Name(), "error").Inc()
		return nil, err
	}
	metrics.CompletionsTotal.WithLabelValues(provider.Name(), "ok").Inc()

	userTurn := entity.ChatTurn{
		Id:        uuid.New(),
		UserId:    userId,
		AgentId:   def.ID,
		Role:      entity.ChatTurnRoleUser,
		Content:   strings.TrimSpace(req.Message),
		CreatedAt: sentAt,
	}
	replyTurn := entity.ChatTurn{
		Id:        uuid.New(),
		UserId:    userId,
		AgentId:   def.ID,
		Role:      entity.ChatTurnRoleAssistant,
		Content:   completion.Content,
		CreatedAt: time.Now(),
	}

	// The pair lands together or not at all; a failed completion above never
	// reaches this point, so no partial exchange is ever stored.
	txUow := s.uowFactory.NewUnitOfWork(ctx)
	if err := txUow.Begin(ctx); err != nil {
		return nil, err
	}
	defer txUow.Rollback()
	if err := txUow.ChatTurnRepository().CreateBatch(ctx, []*entity.ChatTurn{&userTurn, &replyTurn}); err != nil {
		return nil, fmt.Errorf("failed to append turns: %w", err)
	}
	if err := txUow.Commit(); err != nil {
		return nil, err
	}

	s.publishCompleted(ctx, userId, def.ID, completion)
	s.pushTurnEvent(userId, def, &userTurn, &replyTurn)

	resp := &dto.SendMessageResponse{
		AgentId:       def.ID,
		AgentName:     def.Name,
		Sent:          turnToDTO(&userTurn),
		Reply:         turnToDTO(&replyTurn),
		Fallback:      usedFallback,
		StoreDegraded: storeDegraded,
	}
	if completion.PromptTokens > 0 || completion.CompletionTokens > 0 {
		resp.Usage = &dto.UsageDTO{
			PromptTokens:     completion.PromptTokens,
			CompletionTokens: completion.CompletionTokens,
		}
	}
	return resp, nil
}

// providerFor picks the completion backend for this request: the runtime
// provider/model, authenticated with the user's stored key when one exists,
// the server-wide key otherwise.
func (s *chatService) providerFor(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, defaults ChatDefaults) (llm.LLMProvider, error) {
	apiKey := ""
	switch defaults.Provider {
	case entity.ProviderOpenAI:
		apiKey = s.providerCfg.OpenAIKey
	case entity.ProviderAnthropic:
		apiKey = s.providerCfg.AnthropicKey
	}

	if s.cipher != nil {
		storedKey, err := uow.ProviderKeyRepository().FindOne(ctx,
			specification.UserOwnedBy{UserID: userId},
			specification.ByProvider{Provider: defaults.Provider},
		)
		if err == nil && storedKey != nil {
			if key, derr := s.cipher.Decrypt(storedKey.Cipher); derr == nil {
				apiKey = key
			} else {
				s.logger.Warn("ChatService", "Stored provider key unreadable, using server key", map[string]interface{}{"user_id": userId, "provider": defaults.Provider, "error": derr.Error()})
			}
		}
	}

	return factory.NewLLMProvider(defaults.Provider, defaults.Model, s.providerCfg.OllamaBaseURL, apiKey)
}

// publishCompleted hands the exchange to the usage consumer and mirrors it
// to NATS. Both are auxiliary; failures are logged, never returned.
func (s *chatService) publishCompleted(ctx context.Context, userId uuid.UUID, agentId string, completion *llm.Completion) {
	msg := dto.ChatCompletedMessage{
		UserId:           userId,
		AgentId:          agentId,
		PromptTokens:     completion.PromptTokens,
		CompletionTokens: completion.CompletionTokens,
		OccurredAt:       time.Now(),
	}
	if payload, err := json.Marshal(msg); err == nil {
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			fmt.Printf("[WARN] Failed to publish CHAT_COMPLETED to bus: %v\n", err)
		}
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "CHAT_COMPLETED",
			Data: map[string]interface{}{
				"user_id":           userId,
				"agent_id":          agentId,
				"prompt_tokens":     completion.PromptTokens,
				"completion_tokens": completion.CompletionTokens,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish CHAT_COMPLETED event: %v\n", err)
		}
	}
}

func (s *chatService) pushTurnEvent(userId uuid.UUID, def *agent.Definition, sent, reply *entity.ChatTurn) {
	if s.delivery == nil {
		return
	}
	s.delivery.Send(userId, events.BaseEvent{
		Type: "chat.turn",
		Data: map[string]interface{}{
			"agent_id":   def.ID,
			"agent_name": def.Name,
			"sent":       turnToDTO(sent),
			"reply":      turnToDTO(reply),
		},
		OccurredAt: time.Now(),
	})
}

func (s *chatService) GetHistory(ctx context.Context, userId uuid.UUID, agentId string) (*dto.ChatHistoryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ChatTurnRepository().FindRecent(ctx, userId, agentId, historyPageSize)
	if err != nil {
		return nil, err
	}

	return &dto.ChatHistoryResponse{
		AgentId: agentId,
		Turns: lo.Map(turns, func(t *entity.ChatTurn, _ int) dto.TurnDTO {
			return *turnToDTO(t)
		}),
	}, nil
}

func (s *chatService) ClearHistory(ctx context.Context, userId uuid.UUID, agentId string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.ChatTurnRepository().DeleteByUserAndAgent(ctx, userId, agentId); err != nil {
		return err
	}

	if s.delivery != nil {
		s.delivery.Send(userId, events.BaseEvent{
			Type:       "chat.cleared",
			Data:       map[string]interface{}{"agent_id": agentId},
			OccurredAt: time.Now(),
		})
	}
	return nil
}

// ExportHistory renders the whole conversation as CSV (timestamp, role,
// content), oldest first.
func (s *chatService) ExportHistory(ctx context.Context, userId uuid.UUID, agentId string) ([]byte, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	turns, err := uow.ChatTurnRepository().FindRecent(ctx, userId, agentId, 0)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"timestamp", "role", "content"}); err != nil {
		return nil, err
	}
	for _, t := range turns {
		if err := w.Write([]string{t.CreatedAt.Format(time.RFC3339), string(t.Role), t.Content}); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func turnToDTO(t *entity.ChatTurn) *dto.TurnDTO {
	return &dto.TurnDTO{
		Role:      string(t.Role),
		Content:   t.Content,
		CreatedAt: t.CreatedAt,
	}
}
