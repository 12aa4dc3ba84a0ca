package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type usageSlot struct {
	userId  uuid.UUID
	agentId string
	day     string
}

type UsageStatRepository struct {
	mu    sync.RWMutex
	stats map[usageSlot]entity.UsageStat
}

func NewUsageStatRepository() *UsageStatRepository {
	return &UsageStatRepository{
		stats: make(map[usageSlot]entity.UsageStat),
	}
}

func (r *UsageStatRepository) IncrementDaily(_ context.Context, stat *entity.UsageStat) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := stat.Day
	if day.IsZero() {
		day = time.Now().UTC()
	}
	slot := usageSlot{userId: stat.UserId, agentId: stat.AgentId, day: day.Format("2006-01-02")}

	existing, ok := r.stats[slot]
	if !ok {
		existing = entity.UsageStat{
			Id:      uuid.New(),
			UserId:  stat.UserId,
			AgentId: stat.AgentId,
			Day:     day.Truncate(24 * time.Hour),
		}
	}
	existing.MessageCount += stat.MessageCount
	existing.PromptTokens += stat.PromptTokens
	existing.CompletionTokens += stat.CompletionTokens
	existing.UpdatedAt = time.Now()
	r.stats[slot] = existing
	return nil
}

func (r *UsageStatRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.UsageStat, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.UsageStat
	for _, s := range r.stats {
		if q.userID != nil && s.UserId != *q.userID {
			continue
		}
		if q.agentID != nil && s.AgentId != *q.agentID {
			continue
		}
		found := s
		out = append(out, &found)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return paginate(out, q), nil
}

func (r *UsageStatRepository) SumByAgent(_ context.Context, userId uuid.UUID) ([]entity.UsageTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byAgent := make(map[string]*entity.UsageTotals)
	for _, s := range r.stats {
		if s.UserId != userId {
			continue
		}
		t, ok := byAgent[s.AgentId]
		if !ok {
			t = &entity.UsageTotals{AgentId: s.AgentId}
			byAgent[s.AgentId] = t
		}
		t.MessageCount += int64(s.MessageCount)
		t.PromptTokens += int64(s.PromptTokens)
		t.CompletionTokens += int64(s.CompletionTokens)
	}

	out := make([]entity.UsageTotals, 0, len(byAgent))
	for _, t := range byAgent {
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MessageCount > out[j].MessageCount })
	return out, nil
}

func (r *UsageStatRepository) SumForUser(_ context.Context, userId uuid.UUID) (entity.UsageTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total entity.UsageTotals
	for _, s := range r.stats {
		if s.UserId != userId {
			continue
		}
		total.MessageCount += int64(s.MessageCount)
		total.PromptTokens += int64(s.PromptTokens)
		total.CompletionTokens += int64(s.CompletionTokens)
	}
	return total, nil
}

func (r *UsageStatRepository) TopAgents(_ context.Context, days, limit int) ([]entity.UsageTotals, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	byAgent := make(map[string]*entity.UsageTotals)
	for _, s := range r.stats {
		if s.Day.Before(cutoff) {
			continue
		}
		t, ok := byAgent[s.AgentId]
		if !ok {
			t = &entity.UsageTotals{AgentId: s.AgentId}
			byAgent[s.AgentId] = t
		}
		t.MessageCount += int64(s.MessageCount)
		t.PromptTokens += int64(s.PromptTokens)
		t.CompletionTokens += int64(s.CompletionTokens)
	}

	out := make([]entity.UsageTotals, 0, len(byAgent))
	for _, t := range byAgent {
		out = append(out, *t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].MessageCount > out[j].MessageCount })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *UsageStatRepository) DailyTotals(_ context.Context, days int) ([]map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	byDay := make(map[string]*struct{ messages, tokens int64 })
	for _, s := range r.stats {
		if s.Day.Before(cutoff) {
			continue
		}
		key := s.Day.Format("2006-01-02")
		agg, ok := byDay[key]
		if !ok {
			agg = &struct{ messages, tokens int64 }{}
			byDay[key] = agg
		}
		agg.messages += int64(s.MessageCount)
		agg.tokens += int64(s.PromptTokens + s.CompletionTokens)
	}

	dates := make([]string, 0, len(byDay))
	for d := range byDay {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]map[string]interface{}, 0, len(dates))
	for _, d := range dates {
		out = append(out, map[string]interface{}{
			"date":     d,
			"messages": byDay[d].messages,
			"tokens":   byDay[d].tokens,
		})
	}
	return out, nil
}

func (r *UsageStatRepository) DeleteAllByUserId(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for slot := range r.stats {
		if slot.userId == userId {
			delete(r.stats, slot)
		}
	}
	return nil
}

var _ contract.UsageStatRepository = (*UsageStatRepository)(nil)
