package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- User Management ---

type AdminUserListRequest struct {
	Page   int    `query:"page"`
	Limit  int    `query:"limit"`
	Search string `query:"search"`
	Role   string `query:"role"`
	Status string `query:"status"`
}

type UserListResponse struct {
	Id        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type UpdateUserStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active pending blocked"`
	Reason string `json:"reason,omitempty"`
}

type AdminCreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=user admin"`
}

type AdminBulkCreateUserRequest struct {
	Users []AdminCreateUserRequest `json:"users" validate:"required,min=1"`
}

type AdminBulkCreateUserResponse struct {
	CreatedCount int                    `json:"created_count"`
	FailedCount  int                    `json:"failed_count"`
	Results      []BulkCreateUserResult `json:"results"`
}

type BulkCreateUserResult struct {
	Email   string `json:"email"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Id      string `json:"id,omitempty"` // User ID if success
}

type AdminUpdateUserRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email" validate:"omitempty,email"`
	Role     string `json:"role" validate:"omitempty,oneof=user admin"`
	Status   string `json:"status" validate:"omitempty,oneof=active pending blocked"`
	Avatar   string `json:"avatar"`
}

type AdminPurgeUsersRequest struct {
	UserIds []uuid.UUID `json:"user_ids" validate:"required,min=1"`
}

type AdminPurgeUsersResponse struct {
	DeletedCount int                   `json:"deleted_count"`
	FailedUsers  []PurgeUserFailResult `json:"failed_users,omitempty"`
}

type PurgeUserFailResult struct {
	UserId uuid.UUID `json:"user_id"`
	Error  string    `json:"error"`
}

// --- Dashboard ---

type AdminDashboardStats struct {
	TotalUsers        int             `json:"total_users"`
	ActiveUsers       int             `json:"active_users"`
	CustomAgents      int             `json:"custom_agents"`
	MessagesLast7Days int64           `json:"messages_last_7_days"`
	TokensLast7Days   int64           `json:"tokens_last_7_days"`
	TopAgents         []AgentUsageDTO `json:"top_agents"`
}

// --- Usage Management ---

// UsageOverviewResponse is one row of the admin usage table: a user and
// their all-time chat totals.
type UsageOverviewResponse struct {
	UserId        uuid.UUID `json:"user_id"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	TotalMessages int64     `json:"total_messages"`
	TotalTokens   int64     `json:"total_tokens"`
}

type AdminResetUsageResponse struct {
	UserId           uuid.UUID `json:"user_id"`
	UserEmail        string    `json:"user_email"`
	PreviousMessages int64     `json:"previous_messages"`
	PreviousTokens   int64     `json:"previous_tokens"`
}

type BulkResetUsageRequest struct {
	UserIds []uuid.UUID `json:"user_ids" validate:"required,min=1"`
}

type BulkResetUsageResponse struct {
	TotalRequested int         `json:"total_requested"`
	TotalReset     int         `json:"total_reset"`
	FailedUserIds  []uuid.UUID `json:"failed_user_ids,omitempty"`
}
