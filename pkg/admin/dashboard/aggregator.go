package dashboard

import (
	"context"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.AdminDashboardStats, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusActive))
	if err != nil {
		return nil, err
	}

	customAgents, err := uow.CustomAgentRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	// Trailing week of chat volume
	var messages7d, tokens7d int64
	daily, err := uow.UsageStatRepository().DailyTotals(ctx, 7)
	if err == nil {
		for _, day := range daily {
			m, _ := day["messages"].(int64)
			t, _ := day["tokens"].(int64)
			messages7d += m
			tokens7d += t
		}
	}

	// Most used agents this week (Limit 5)
	var topAgentDtos []dto.AgentUsageDTO
	topAgents, err := uow.UsageStatRepository().TopAgents(ctx, 7, 5)
	if err == nil {
		for _, t := range topAgents {
			topAgentDtos = append(topAgentDtos, dto.AgentUsageDTO{
				AgentId:          t.AgentId,
				MessageCount:     t.MessageCount,
				PromptTokens:     t.PromptTokens,
				CompletionTokens: t.CompletionTokens,
			})
		}
	}

	return &dto.AdminDashboardStats{
		TotalUsers:        int(totalUsers),
		ActiveUsers:       activeUsers,
		CustomAgents:      int(customAgents),
		MessagesLast7Days: messages7d,
		TokensLast7Days:   tokens7d,
		TopAgents:         topAgentDtos,
	}, nil
}

// GetUserGrowth retrieves user growth statistics
func (a *Aggregator) GetUserGrowth(ctx context.Context, uow unitofwork.UnitOfWork) ([]*dto.UserGrowthStats, error) {
	stats, err := uow.UserRepository().GetUserGrowth(ctx)
	if err != nil {
		return nil, err
	}
	var res []*dto.UserGrowthStats
	for _, st := range stats {
		dateStr, _ := st["date"].(string)
		countVal, _ := st["count"].(int64)

		res = append(res, &dto.UserGrowthStats{
			Date:  dateStr,
			Count: int(countVal),
		})
	}
	return res, nil
}

// GetMessageVolume retrieves daily chat volume for the trailing window
func (a *Aggregator) GetMessageVolume(ctx context.Context, uow unitofwork.UnitOfWork, days int) ([]*dto.MessageVolumeStats, error) {
	if days < 1 {
		days = 30
	}

	daily, err := uow.UsageStatRepository().DailyTotals(ctx, days)
	if err != nil {
		return nil, err
	}

	var res []*dto.MessageVolumeStats
	for _, day := range daily {
		dateStr, _ := day["date"].(string)
		messages, _ := day["messages"].(int64)
		tokens, _ := day["tokens"].(int64)

		res = append(res, &dto.MessageVolumeStats{
			Date:     dateStr,
			Messages: messages,
			Tokens:   tokens,
		})
	}
	return res, nil
}

// GetSystemLogs retrieves system logs
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, page, limit int, level string) ([]*dto.LogListResponse, error) {
	logs, err := loggerSvc.GetLogs(level, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	var res []*dto.LogListResponse
	for _, l := range logs {
		ts, _ := time.Parse(time.RFC3339, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(time.RFC3339, l.Timestamp)
	detailsMap := l.Details

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: detailsMap,
	}, nil
}
