package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type UsageStatRepository interface {
	// IncrementDaily adds the stat's counters onto the (user, agent, day)
	// row, inserting it when absent.
	IncrementDaily(ctx context.Context, stat *entity.UsageStat) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageStat, error)
	SumByAgent(ctx context.Context, userId uuid.UUID) ([]entity.UsageTotals, error)
	// SumForUser collapses a user's usage rows into one totals row.
	SumForUser(ctx context.Context, userId uuid.UUID) (entity.UsageTotals, error)
	// TopAgents ranks agents by message count across all users over the
	// trailing window.
	TopAgents(ctx context.Context, days, limit int) ([]entity.UsageTotals, error)
	// DailyTotals returns per-day message counts across all users, for the
	// admin dashboard chart.
	DailyTotals(ctx context.Context, days int) ([]map[string]interface{}, error)
	DeleteAllByUserId(ctx context.Context, userId uuid.UUID) error
}
