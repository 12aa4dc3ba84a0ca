// FILE: internal/service/usage_service.go
package service

import (
	"context"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/agent"

	"github.com/google/uuid"
)

type IUsageService interface {
	GetSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error)
}

type usageService struct {
	uowFactory unitofwork.RepositoryFactory
	resolver   *agent.Resolver
}

func NewUsageService(uowFactory unitofwork.RepositoryFactory, resolver *agent.Resolver) IUsageService {
	return &usageService{
		uowFactory: uowFactory,
		resolver:   resolver,
	}
}

func (s *usageService) GetSummary(ctx context.Context, userId uuid.UUID) (*dto.UsageSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	totals, err := uow.UsageStatRepository().SumByAgent(ctx, userId)
	if err != nil {
		return nil, err
	}

	// Names are cosmetic here; a degraded catalog just leaves them blank.
	catalog, _ := s.resolver.ResolveCatalog(ctx, &userId)

	resp := &dto.UsageSummaryResponse{
		Agents: make([]dto.AgentUsageDTO, 0, len(totals)),
	}
	for _, t := range totals {
		row := dto.AgentUsageDTO{
			AgentId:          t.AgentId,
			MessageCount:     t.MessageCount,
			PromptTokens:     t.PromptTokens,
			CompletionTokens: t.CompletionTokens,
		}
		if catalog != nil {
			if def, err := catalog.Resolve(t.AgentId); err == nil {
				row.AgentName = def.Name
			}
		}
		resp.Agents = append(resp.Agents, row)
		resp.TotalMessages += t.MessageCount
		resp.TotalTokens += t.PromptTokens + t.CompletionTokens
	}

	return resp, nil
}
