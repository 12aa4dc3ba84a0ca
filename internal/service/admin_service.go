package service

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/admin/aisettings"
	"ai-assistant-be/pkg/admin/dashboard"
	adminEvents "ai-assistant-be/pkg/admin/events"
	"ai-assistant-be/pkg/admin/mapper"
	"ai-assistant-be/pkg/admin/usage"
	"ai-assistant-be/pkg/admin/user"

	"github.com/google/uuid"
)

type IAdminService interface {
	GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error)
	GetUserGrowth(ctx context.Context) ([]*dto.UserGrowthStats, error)
	GetMessageVolume(ctx context.Context, days int) ([]*dto.MessageVolumeStats, error)

	// User Management
	GetAllUsers(ctx context.Context, page, limit int, search string) ([]*dto.UserListResponse, error)
	GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error
	CreateUser(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error)
	BulkCreateUsers(ctx context.Context, fileContent []byte) (*dto.AdminBulkCreateUserResponse, error)
	UpdateUser(ctx context.Context, userId uuid.UUID, req dto.AdminUpdateUserRequest) (*dto.UserProfileResponse, error)
	DeleteUser(ctx context.Context, userId uuid.UUID) error
	PurgeUsers(ctx context.Context, req dto.AdminPurgeUsersRequest) (*dto.AdminPurgeUsersResponse, error)

	// Logs
	GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error)
	GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error)

	// Usage Tracking
	GetUsageOverview(ctx context.Context, page, limit int) ([]*dto.UsageOverviewResponse, error)
	ResetUsage(ctx context.Context, userId uuid.UUID) (*dto.AdminResetUsageResponse, error)
	BulkResetUsage(ctx context.Context, req dto.BulkResetUsageRequest) (*dto.BulkResetUsageResponse, error)

	// Runtime Settings
	GetAllSettings(ctx context.Context) ([]*dto.AiSettingResponse, error)
	UpdateSetting(ctx context.Context, key string, req dto.UpdateAiSettingRequest) (*dto.AiSettingResponse, error)
}

type adminService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger

	// Domain Components
	userManager         *user.Manager
	usageTracker        *usage.Tracker
	dashboardAggregator *dashboard.Aggregator
	eventPublisher      adminEvents.Publisher
	settingsManager     *aisettings.Manager
	settings            IAiSettingService
}

func NewAdminService(
	uowFactory unitofwork.RepositoryFactory,
	logger logger.ILogger,
	userManager *user.Manager,
	usageTracker *usage.Tracker,
	dashboardAggregator *dashboard.Aggregator,
	eventPublisher adminEvents.Publisher,
	settingsManager *aisettings.Manager,
	settings IAiSettingService,
) IAdminService {
	return &adminService{
		uowFactory:          uowFactory,
		logger:              logger,
		userManager:         userManager,
		usageTracker:        usageTracker,
		dashboardAggregator: dashboardAggregator,
		eventPublisher:      eventPublisher,
		settingsManager:     settingsManager,
		settings:            settings,
	}
}

// ============================================================================
// Dashboard & Stats
// ============================================================================

func (s *adminService) GetDashboardStats(ctx context.Context) (*dto.AdminDashboardStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetStats(ctx, uow)
}

func (s *adminService) GetUserGrowth(ctx context.Context) ([]*dto.UserGrowthStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetUserGrowth(ctx, uow)
}

func (s *adminService) GetMessageVolume(ctx context.Context, days int) ([]*dto.MessageVolumeStats, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.dashboardAggregator.GetMessageVolume(ctx, uow, days)
}

// ============================================================================
// User Management
// ============================================================================

func (s *adminService) GetAllUsers(ctx context.Context, page, limit int, search string) ([]*dto.UserListResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	users, err := s.userManager.FindAll(ctx, uow, page, limit, search)
	if err != nil {
		return nil, err
	}
	return mapper.UsersToListResponse(users), nil
}

func (s *adminService) GetUserDetail(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.userManager.FindOne(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return mapper.UserToProfileResponse(user), nil
}

func (s *adminService) UpdateUserStatus(ctx context.Context, userId uuid.UUID, status string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.userManager.UpdateStatus(ctx, uow, userId, status)
}

func (s *adminService) CreateUser(ctx context.Context, req dto.AdminCreateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.userManager.Create(ctx, uow, req)
	if err != nil {
		return nil, err
	}
	return mapper.UserToProfileResponse(user), nil
}

func (s *adminService) BulkCreateUsers(ctx context.Context, fileContent []byte) (*dto.AdminBulkCreateUserResponse, error) {
	var req dto.AdminBulkCreateUserRequest
	if err := json.Unmarshal(fileContent, &req); err != nil {
		return nil, fmt.Errorf("failed to parse JSON file: %w", err)
	}

	res := &dto.AdminBulkCreateUserResponse{
		Results: []dto.BulkCreateUserResult{},
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	for _, userReq := range req.Users {
		// Individual error handling for each user creation
		// Assuming "best effort" here.
		createdUser, err := s.userManager.Create(ctx, uow, userReq)
		if err != nil {
			res.FailedCount++
			res.Results = append(res.Results, dto.BulkCreateUserResult{
				Email:   userReq.Email,
				Success: false,
				Error:   err.Error(),
			})
		} else {
			res.CreatedCount++
			res.Results = append(res.Results, dto.BulkCreateUserResult{
				Email:   userReq.Email,
				Success: true,
				Id:      createdUser.Id.String(),
			})
		}
	}

	return res, nil
}

func (s *adminService) UpdateUser(ctx context.Context, userId uuid.UUID, req dto.AdminUpdateUserRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := s.userManager.Update(ctx, uow, userId, req)
	if err != nil {
		return nil, err
	}
	return mapper.UserToProfileResponse(user), nil
}

func (s *adminService) DeleteUser(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.userManager.Delete(ctx, uow, userId)
}

func (s *adminService) PurgeUsers(ctx context.Context, req dto.AdminPurgeUsersRequest) (*dto.AdminPurgeUsersResponse, error) {
	// Each user's purge is its own transaction so one failure does not
	// roll back the rest of the batch.
	res := &dto.AdminPurgeUsersResponse{
		FailedUsers: []dto.PurgeUserFailResult{},
	}

	for _, userId := range req.UserIds {
		uow := s.uowFactory.NewUnitOfWork(ctx)
		if err := uow.Begin(ctx); err != nil {
			s.logger.Error("ADMIN_PURGE", "Failed to begin transaction", map[string]interface{}{"user_id": userId, "error": err.Error()})
			res.FailedUsers = append(res.FailedUsers, dto.PurgeUserFailResult{UserId: userId, Error: "Failed to begin transaction"})
			continue
		}

		err := func() error {
			if err := uow.CustomAgentRepository().DeleteAllByOwnerIdUnscoped(ctx, userId); err != nil {
				return fmt.Errorf("purge agents: %w", err)
			}
			if err := uow.ChatTurnRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
				return fmt.Errorf("purge chat turns: %w", err)
			}
			if err := uow.ProviderKeyRepository().DeleteAllByUserId(ctx, userId); err != nil {
				return fmt.Errorf("purge provider keys: %w", err)
			}
			if err := uow.UsageStatRepository().DeleteAllByUserId(ctx, userId); err != nil {
				return fmt.Errorf("purge usage: %w", err)
			}
			if err := uow.UserRepository().DeleteUnscoped(ctx, userId); err != nil {
				return fmt.Errorf("purge user: %w", err)
			}
			return nil
		}()

		if err != nil {
			uow.Rollback()
			s.logger.Error("ADMIN_PURGE", "Failed to purge user", map[string]interface{}{"user_id": userId, "error": err.Error()})
			res.FailedUsers = append(res.FailedUsers, dto.PurgeUserFailResult{UserId: userId, Error: err.Error()})
		} else {
			if err := uow.Commit(); err != nil {
				s.logger.Error("ADMIN_PURGE", "Failed to commit purge", map[string]interface{}{"user_id": userId, "error": err.Error()})
				res.FailedUsers = append(res.FailedUsers, dto.PurgeUserFailResult{UserId: userId, Error: "Commit failed"})
			} else {
				res.DeletedCount++
				s.logger.Info("ADMIN_PURGE", "Successfully purged user", map[string]interface{}{"user_id": userId})
			}
		}
	}

	return res, nil
}

// ============================================================================
// Logs
// ============================================================================

func (s *adminService) GetSystemLogs(ctx context.Context, page, limit int, level string) ([]*dto.LogListResponse, error) {
	return s.dashboardAggregator.GetSystemLogs(ctx, s.logger, page, limit, level)
}

func (s *adminService) GetLogDetail(ctx context.Context, logId string) (*dto.LogDetailResponse, error) {
	return s.dashboardAggregator.GetLogDetail(ctx, s.logger, logId)
}

// ============================================================================
// Usage Tracking
// ============================================================================

func (s *adminService) GetUsageOverview(ctx context.Context, page, limit int) ([]*dto.UsageOverviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.usageTracker.GetUsageOverview(ctx, uow, page, limit)
}

func (s *adminService) ResetUsage(ctx context.Context, userId uuid.UUID) (*dto.AdminResetUsageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	result, err := s.usageTracker.ResetUsage(ctx, uow, userId)
	if err != nil {
		return nil, err
	}
	return &dto.AdminResetUsageResponse{
		UserId:           result.User.Id,
		UserEmail:        result.User.Email,
		PreviousMessages: result.PreviousMessages,
		PreviousTokens:   result.PreviousTokens,
	}, nil
}

func (s *adminService) BulkResetUsage(ctx context.Context, req dto.BulkResetUsageRequest) (*dto.BulkResetUsageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.usageTracker.BulkResetUsage(ctx, uow, req), nil
}

// ============================================================================
// Runtime Settings
// ============================================================================

func (s *adminService) GetAllSettings(ctx context.Context) ([]*dto.AiSettingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return s.settingsManager.GetAll(ctx, uow)
}

func (s *adminService) UpdateSetting(ctx context.Context, key string, req dto.UpdateAiSettingRequest) (*dto.AiSettingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	res, err := s.settingsManager.Update(ctx, uow, key, req)
	if err != nil {
		return nil, err
	}

	// The chat pipeline caches settings; drop the cache so the new value
	// takes effect on the next request.
	if s.settings != nil {
		s.settings.Invalidate()
	}

	return res, nil
}
