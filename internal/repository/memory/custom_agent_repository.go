package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CustomAgentRepository keeps custom agent definitions in a map guarded by a
// RWMutex. Soft deletes mirror the GORM store: deleted rows stay in the map
// and are filtered out of reads.
type CustomAgentRepository struct {
	mu     sync.RWMutex
	agents map[uuid.UUID]entity.CustomAgent
}

func NewCustomAgentRepository() *CustomAgentRepository {
	return &CustomAgentRepository{
		agents: make(map[uuid.UUID]entity.CustomAgent),
	}
}

func (r *CustomAgentRepository) Create(_ context.Context, agent *entity.CustomAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if agent.Id == uuid.Nil {
		agent.Id = uuid.New()
	}
	if agent.CreatedAt.IsZero() {
		agent.CreatedAt = time.Now()
	}
	if _, exists := r.agents[agent.Id]; exists {
		return fmt.Errorf("custom agent %s already exists", agent.Id)
	}
	r.agents[agent.Id] = *agent
	return nil
}

func (r *CustomAgentRepository) Update(_ context.Context, agent *entity.CustomAgent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	agent.UpdatedAt = &now
	r.agents[agent.Id] = *agent
	return nil
}

func (r *CustomAgentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.agents[id]
	if !ok {
		return nil
	}
	now := time.Now()
	a.DeletedAt = &now
	a.IsDeleted = true
	r.agents[id] = a
	return nil
}

func (r *CustomAgentRepository) DeleteAllByOwnerIdUnscoped(_ context.Context, ownerId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, a := range r.agents {
		if a.OwnerId == ownerId {
			delete(r.agents, id)
		}
	}
	return nil
}

func (r *CustomAgentRepository) match(a entity.CustomAgent, q query) bool {
	if a.IsDeleted {
		return false
	}
	if !q.matchesID(a.Id) {
		return false
	}
	if q.ownerID != nil && a.OwnerId != *q.ownerID {
		return false
	}
	return true
}

func (r *CustomAgentRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.CustomAgent, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.agents {
		if r.match(a, q) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *CustomAgentRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.CustomAgent, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.CustomAgent
	for _, a := range r.agents {
		if r.match(a, q) {
			found := a
			out = append(out, &found)
		}
	}

	orderByTime(out, q, func(a *entity.CustomAgent) int64 { return a.CreatedAt.UnixNano() })
	return paginate(out, q), nil
}

func (r *CustomAgentRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	agents, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(agents)), nil
}

var _ contract.CustomAgentRepository = (*CustomAgentRepository)(nil)
