// FILE: internal/service/agent_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// defaultTemperature is applied when a custom agent is created without one.
const defaultTemperature = 0.7

type IAgentService interface {
	GetCatalog(ctx context.Context, userId uuid.UUID, search, category string) (*dto.CatalogResponse, error)
	GetCategories(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryCountResponse, error)
	GetAgent(ctx context.Context, userId uuid.UUID, agentId string) (*dto.AgentResponse, error)
	CreateAgent(ctx context.Context, userId uuid.UUID, req *dto.CreateAgentRequest) (*dto.CreateAgentResponse, error)
	UpdateAgent(ctx context.Context, userId uuid.UUID, req *dto.UpdateAgentRequest) (*dto.UpdateAgentResponse, error)
	DeleteAgent(ctx context.Context, userId uuid.UUID, id uuid.UUID) error
}

type agentService struct {
	uowFactory     unitofwork.RepositoryFactory
	resolver       *agent.Resolver
	eventPublisher *pktNats.Publisher
	delivery       RealtimeDelivery
}

func NewAgentService(
	uowFactory unitofwork.RepositoryFactory,
	resolver *agent.Resolver,
	eventPublisher *pktNats.Publisher,
	delivery RealtimeDelivery,
) IAgentService {
	return &agentService{
		uowFactory:     uowFactory,
		resolver:       resolver,
		eventPublisher: eventPublisher,
		delivery:       delivery,
	}
}

func (s *agentService) GetCatalog(ctx context.Context, userId uuid.UUID, search, category string) (*dto.CatalogResponse, error) {
	storeDegraded := false
	catalog, err := s.resolver.ResolveCatalog(ctx, &userId)
	if err != nil {
		if !errors.Is(err, agent.ErrStoreUnavailable) {
			return nil, err
		}
		storeDegraded = true
	}

	defs := catalog.Search(search)
	if category != "" {
		defs = lo.Filter(defs, func(d agent.Definition, _ int) bool {
			return strings.EqualFold(d.Category, category)
		})
	}

	return &dto.CatalogResponse{
		Agents: lo.Map(defs, func(d agent.Definition, _ int) dto.AgentResponse {
			return agentToResponse(d)
		}),
		Total:         len(defs),
		StoreDegraded: storeDegraded,
	}, nil
}

// GetCategories counts catalog entries per category, in first-appearance
// order so the selector stays stable.
func (s *agentService) GetCategories(ctx context.Context, userId uuid.UUID) ([]*dto.CategoryCountResponse, error) {
	catalog, err := s.resolver.ResolveCatalog(ctx, &userId)
	if err != nil && !errors.Is(err, agent.ErrStoreUnavailable) {
		return nil, err
	}

	counts := make(map[string]*dto.CategoryCountResponse)
	var ordered []*dto.CategoryCountResponse
	for _, def := range catalog.All() {
		c, ok := counts[def.Category]
		if !ok {
			c = &dto.CategoryCountResponse{Category: def.Category}
			counts[def.Category] = c
			ordered = append(ordered, c)
		}
		c.Count++
	}
	return ordered, nil
}

func (s *agentService) GetAgent(ctx context.Context, userId uuid.UUID, agentId string) (*dto.AgentResponse, error) {
	catalog, err := s.resolver.ResolveCatalog(ctx, &userId)
	if err != nil && !errors.Is(err, agent.ErrStoreUnavailable) {
		return nil, err
	}

	def, err := catalog.Resolve(agentId)
	if err != nil {
		if errors.Is(err, agent.ErrUnknownAgent) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resp := agentToResponse(*def)
	return &resp, nil
}

func (s *agentService) CreateAgent(ctx context.Context, userId uuid.UUID, req *dto.CreateAgentRequest) (*dto.CreateAgentResponse, error) {
	temperature := defaultTemperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	customAgent := entity.CustomAgent{
		Id:           uuid.New(),
		OwnerId:      userId,
		Name:         req.Name,
		Emoji:        req.Emoji,
		Category:     req.Category,
		Description:  req.Description,
		SystemPrompt: req.SystemPrompt,
		Temperature:  temperature,
		Specialties:  req.Specialties,
		QuickActions: req.QuickActions,
		CreatedAt:    time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.CustomAgentRepository().Create(ctx, &customAgent); err != nil {
		return nil, err
	}

	s.publishAgentEvent(ctx, userId, "agent.created", "AGENT_CREATED", &customAgent)

	return &dto.CreateAgentResponse{
		Id: customAgent.Id,
	}, nil
}

func (s *agentService) UpdateAgent(ctx context.Context, userId uuid.UUID, req *dto.UpdateAgentRequest) (*dto.UpdateAgentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	customAgent, err := uow.CustomAgentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if customAgent == nil {
		return nil, ErrNotFound
	}
	if customAgent.OwnerId != userId {
		return nil, ErrNotOwner
	}

	if req.Name != nil {
		customAgent.Name = *req.Name
	}
	if req.Emoji != nil {
		customAgent.Emoji = *req.Emoji
	}
	if req.Category != nil {
		customAgent.Category = *req.Category
	}
	if req.Description != nil {
		customAgent.Description = *req.Description
	}
	if req.SystemPrompt != nil {
		customAgent.SystemPrompt = *req.SystemPrompt
	}
	if req.Temperature != nil {
		customAgent.Temperature = *req.Temperature
	}
	if req.Specialties != nil {
		customAgent.Specialties = req.Specialties
	}
	if req.QuickActions != nil {
		customAgent.QuickActions = req.QuickActions
	}

	now := time.Now()
	customAgent.UpdatedAt = &now

	if err := uow.CustomAgentRepository().Update(ctx, customAgent); err != nil {
		return nil, err
	}

	s.publishAgentEvent(ctx, userId, "agent.updated", "AGENT_UPDATED", customAgent)

	return &dto.UpdateAgentResponse{
		Id: customAgent.Id,
	}, nil
}

func (s *agentService) DeleteAgent(ctx context.Context, userId uuid.UUID, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	customAgent, err := uow.CustomAgentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if customAgent == nil {
		return ErrNotFound
	}
	if customAgent.OwnerId != userId {
		return ErrNotOwner
	}

	if err := uow.CustomAgentRepository().Delete(ctx, id); err != nil {
		return err
	}

	s.publishAgentEvent(ctx, userId, "agent.deleted", "AGENT_DELETED", customAgent)

	return nil
}

// publishAgentEvent mirrors a catalog change to the owner's live connections
// and the event bus. Auxiliary; failures are logged, never returned.
func (s *agentService) publishAgentEvent(ctx context.Context, userId uuid.UUID, realtimeType, eventType string, customAgent *entity.CustomAgent) {
	if s.delivery != nil {
		s.delivery.Send(userId, events.BaseEvent{
			Type: realtimeType,
			Data: map[string]interface{}{
				"agent_id": customAgent.Id,
				"name":     customAgent.Name,
			},
			OccurredAt: time.Now(),
		})
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: eventType,
			Data: map[string]interface{}{
				"agent_id": customAgent.Id,
				"name":     customAgent.Name,
				"user_id":  userId,
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish %s event: %v\n", eventType, err)
		}
	}
}

func agentToResponse(def agent.Definition) dto.AgentResponse {
	resp := dto.AgentResponse{
		Id:           def.ID,
		Name:         def.Name,
		Emoji:        def.Emoji,
		Category:     def.Category,
		Description:  def.Description,
		SystemPrompt: def.SystemPrompt,
		Temperature:  def.Temperature,
		Specialties:  def.Specialties,
		QuickActions: def.QuickActions,
		IsCustom:     def.IsCustom,
		UpdatedAt:    def.UpdatedAt,
	}
	if !def.CreatedAt.IsZero() {
		created := def.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}
