package memory

import (
	"context"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ChatTurnRepository keeps conversation turns in a TTL cache, one slice per
// (user, agent) pair. Idle conversations age out; the GORM store is the
// durable one.
type ChatTurnRepository struct {
	mu    sync.Mutex
	cache *cache.Cache
}

func NewChatTurnRepository() *ChatTurnRepository {
	// Conversations idle for a day are dropped; sweep every hour.
	c := cache.New(24*time.Hour, 1*time.Hour)
	return &ChatTurnRepository{
		cache: c,
	}
}

func historyKey(userId uuid.UUID, agentId string) string {
	return userId.String() + "|" + agentId
}

func (r *ChatTurnRepository) load(key string) []entity.ChatTurn {
	if x, found := r.cache.Get(key); found {
		return x.([]entity.ChatTurn)
	}
	return nil
}

func (r *ChatTurnRepository) fill(turn *entity.ChatTurn) {
	if turn.Id == uuid.Nil {
		turn.Id = uuid.New()
	}
	if turn.CreatedAt.IsZero() {
		turn.CreatedAt = time.Now()
	}
}

func (r *ChatTurnRepository) Create(ctx context.Context, turn *entity.ChatTurn) error {
	return r.CreateBatch(ctx, []*entity.ChatTurn{turn})
}

func (r *ChatTurnRepository) CreateBatch(_ context.Context, turns []*entity.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	key := historyKey(turns[0].UserId, turns[0].AgentId)
	existing := r.load(key)
	for _, t := range turns {
		r.fill(t)
		existing = append(existing, *t)
	}
	r.cache.Set(key, existing, cache.DefaultExpiration)
	return nil
}

func (r *ChatTurnRepository) FindRecent(_ context.Context, userId uuid.UUID, agentId string, limit int) ([]*entity.ChatTurn, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	turns := r.load(historyKey(userId, agentId))
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	out := make([]*entity.ChatTurn, len(turns))
	for i := range turns {
		t := turns[i]
		out[i] = &t
	}
	return out, nil
}

func (r *ChatTurnRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ChatTurn, error) {
	q := parseSpecs(specs...)

	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.ChatTurn
	for _, item := range r.cache.Items() {
		turns := item.Object.([]entity.ChatTurn)
		for i := range turns {
			t := turns[i]
			if q.userID != nil && t.UserId != *q.userID {
				continue
			}
			if q.agentID != nil && t.AgentId != *q.agentID {
				continue
			}
			if q.role != nil && string(t.Role) != *q.role {
				continue
			}
			if !q.matchesID(t.Id) {
				continue
			}
			out = append(out, &t)
		}
	}

	orderByTime(out, q, func(t *entity.ChatTurn) int64 { return t.CreatedAt.UnixNano() })
	return paginate(out, q), nil
}

func (r *ChatTurnRepository) DeleteByUserAndAgent(_ context.Context, userId uuid.UUID, agentId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(historyKey(userId, agentId))
	return nil
}

func (r *ChatTurnRepository) DeleteAllByUserIdUnscoped(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prefix := userId.String() + "|"
	for key := range r.cache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			r.cache.Delete(key)
		}
	}
	return nil
}

func (r *ChatTurnRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	turns, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(turns)), nil
}

var _ contract.ChatTurnRepository = (*ChatTurnRepository)(nil)
