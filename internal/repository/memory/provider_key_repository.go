package memory

import (
	"context"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type keySlot struct {
	userId   uuid.UUID
	provider string
}

type ProviderKeyRepository struct {
	mu   sync.RWMutex
	keys map[keySlot]entity.ProviderKey
}

func NewProviderKeyRepository() *ProviderKeyRepository {
	return &ProviderKeyRepository{
		keys: make(map[keySlot]entity.ProviderKey),
	}
}

func (r *ProviderKeyRepository) Upsert(_ context.Context, key *entity.ProviderKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	slot := keySlot{userId: key.UserId, provider: key.Provider}
	if existing, ok := r.keys[slot]; ok {
		key.Id = existing.Id
		key.CreatedAt = existing.CreatedAt
	} else {
		if key.Id == uuid.Nil {
			key.Id = uuid.New()
		}
		if key.CreatedAt.IsZero() {
			key.CreatedAt = time.Now()
		}
	}
	now := time.Now()
	key.UpdatedAt = &now
	r.keys[slot] = *key
	return nil
}

func (r *ProviderKeyRepository) match(k entity.ProviderKey, q query) bool {
	if !q.matchesID(k.Id) {
		return false
	}
	if q.userID != nil && k.UserId != *q.userID {
		return false
	}
	if q.provider != nil && k.Provider != *q.provider {
		return false
	}
	return true
}

func (r *ProviderKeyRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.ProviderKey, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, k := range r.keys {
		if r.match(k, q) {
			found := k
			return &found, nil
		}
	}
	return nil, nil
}

func (r *ProviderKeyRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.ProviderKey, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.ProviderKey
	for _, k := range r.keys {
		if r.match(k, q) {
			found := k
			out = append(out, &found)
		}
	}

	orderByTime(out, q, func(k *entity.ProviderKey) int64 { return k.CreatedAt.UnixNano() })
	return paginate(out, q), nil
}

func (r *ProviderKeyRepository) Delete(_ context.Context, userId uuid.UUID, provider string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.keys, keySlot{userId: userId, provider: provider})
	return nil
}

func (r *ProviderKeyRepository) DeleteAllByUserId(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for slot := range r.keys {
		if slot.userId == userId {
			delete(r.keys, slot)
		}
	}
	return nil
}

var _ contract.ProviderKeyRepository = (*ProviderKeyRepository)(nil)
