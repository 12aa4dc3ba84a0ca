package service

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/agent"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// agentSource adapts the custom agent repository to the resolver's
// CustomAgentSource. The resolver stays ignorant of GORM and memory stores.
type agentSource struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewAgentSource(uowFactory unitofwork.RepositoryFactory) agent.CustomAgentSource {
	return &agentSource{uowFactory: uowFactory}
}

func (s *agentSource) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]agent.Definition, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	rows, err := uow.CustomAgentRepository().FindAll(ctx,
		specification.OwnedBy{OwnerID: ownerID},
		specification.OrderBy{Field: "created_at"},
	)
	if err != nil {
		return nil, err
	}

	return lo.Map(rows, func(e *entity.CustomAgent, _ int) agent.Definition {
		return definitionFromEntity(e)
	}), nil
}

func definitionFromEntity(e *entity.CustomAgent) agent.Definition {
	owner := e.OwnerId
	return agent.Definition{
		ID:           e.Id.String(),
		Name:         e.Name,
		Emoji:        e.Emoji,
		Category:     e.Category,
		Description:  e.Description,
		SystemPrompt: e.SystemPrompt,
		Temperature:  e.Temperature,
		Specialties:  e.Specialties,
		QuickActions: e.QuickActions,
		IsCustom:     true,
		OwnerID:      &owner,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
