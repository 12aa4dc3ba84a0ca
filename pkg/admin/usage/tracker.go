package usage

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"
	adminEvents "ai-assistant-be/pkg/admin/events"

	"github.com/google/uuid"
)

// ResetResult contains the totals that were cleared for a user
type ResetResult struct {
	User             *entity.User
	PreviousMessages int64
	PreviousTokens   int64
}

// Tracker handles chat usage administration
type Tracker struct {
	logger    logger.ILogger
	publisher adminEvents.Publisher
}

// NewTracker creates a new usage tracker
func NewTracker(logger logger.ILogger, publisher adminEvents.Publisher) *Tracker {
	return &Tracker{
		logger:    logger,
		publisher: publisher,
	}
}

// GetUsageOverview retrieves paginated users with their all-time chat totals
func (t *Tracker) GetUsageOverview(ctx context.Context, uow unitofwork.UnitOfWork, page, limit int) ([]*dto.UsageOverviewResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	users, err := uow.UserRepository().FindAll(ctx,
		specification.Pagination{Limit: limit, Offset: offset},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	var res []*dto.UsageOverviewResponse
	for _, user := range users {
		totals, err := uow.UsageStatRepository().SumForUser(ctx, user.Id)
		if err != nil {
			return nil, err
		}

		res = append(res, &dto.UsageOverviewResponse{
			UserId:        user.Id,
			Email:         user.Email,
			FullName:      user.FullName,
			TotalMessages: totals.MessageCount,
			TotalTokens:   totals.PromptTokens + totals.CompletionTokens,
		})
	}

	return res, nil
}

// ResetUsage clears all usage rows for a user
func (t *Tracker) ResetUsage(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (*ResetResult, error) {
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user not found")
	}

	totals, err := uow.UsageStatRepository().SumForUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	if err := uow.UsageStatRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return nil, err
	}

	previousTokens := totals.PromptTokens + totals.CompletionTokens
	t.publisher.PublishUsageReset(ctx, userId, user.Email, totals.MessageCount, previousTokens, "usage reset")

	t.logger.Info("ADMIN", "Reset chat usage", map[string]interface{}{
		"user_id":           userId,
		"previous_messages": totals.MessageCount,
	})

	return &ResetResult{
		User:             user,
		PreviousMessages: totals.MessageCount,
		PreviousTokens:   previousTokens,
	}, nil
}

// BulkResetUsage clears usage rows for multiple users
func (t *Tracker) BulkResetUsage(ctx context.Context, uow unitofwork.UnitOfWork, req dto.BulkResetUsageRequest) *dto.BulkResetUsageResponse {
	response := &dto.BulkResetUsageResponse{
		TotalRequested: len(req.UserIds),
		TotalReset:     0,
		FailedUserIds:  []uuid.UUID{},
	}

	for _, userId := range req.UserIds {
		user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
		if err != nil || user == nil {
			response.FailedUserIds = append(response.FailedUserIds, userId)
			continue
		}

		totals, err := uow.UsageStatRepository().SumForUser(ctx, userId)
		if err != nil {
			response.FailedUserIds = append(response.FailedUserIds, userId)
			continue
		}

		if err := uow.UsageStatRepository().DeleteAllByUserId(ctx, userId); err != nil {
			response.FailedUserIds = append(response.FailedUserIds, userId)
			continue
		}

		t.publisher.PublishUsageReset(ctx, userId, user.Email, totals.MessageCount, totals.PromptTokens+totals.CompletionTokens, "bulk usage reset")

		response.TotalReset++
	}

	t.logger.Info("ADMIN", "Bulk reset chat usage", map[string]interface{}{
		"total_requested": len(req.UserIds),
		"total_reset":     response.TotalReset,
	})

	return response
}
