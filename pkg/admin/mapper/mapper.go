package mapper

import (
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
)

// UserToListResponse converts entity to list response DTO
func UserToListResponse(u *entity.User) *dto.UserListResponse {
	if u == nil {
		return nil
	}
	return &dto.UserListResponse{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
	}
}

// UsersToListResponse converts multiple entities to list response DTOs
func UsersToListResponse(users []*entity.User) []*dto.UserListResponse {
	var res []*dto.UserListResponse
	for _, u := range users {
		res = append(res, UserToListResponse(u))
	}
	return res
}

// UserToProfileResponse converts entity to profile response DTO
func UserToProfileResponse(u *entity.User) *dto.UserProfileResponse {
	if u == nil {
		return nil
	}

	avatarURL := ""
	if u.AvatarURL != nil {
		avatarURL = *u.AvatarURL
	}

	return &dto.UserProfileResponse{
		Id:        u.Id,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      string(u.Role),
		Status:    string(u.Status),
		AvatarURL: avatarURL,
		CreatedAt: u.CreatedAt,
	}
}

// UsageTotalsToAgentDTO converts an aggregate row to the usage DTO
func UsageTotalsToAgentDTO(t entity.UsageTotals) dto.AgentUsageDTO {
	return dto.AgentUsageDTO{
		AgentId:          t.AgentId,
		MessageCount:     t.MessageCount,
		PromptTokens:     t.PromptTokens,
		CompletionTokens: t.CompletionTokens,
	}
}

// LogToListResponse converts log entry to list response DTO
func LogToListResponse(l interface {
	GetId() string
	GetLevel() string
	GetModule() string
	GetMessage() string
	GetTimestamp() string
}) *dto.LogListResponse {
	ts, _ := time.Parse(time.RFC3339, l.GetTimestamp())
	return &dto.LogListResponse{
		Id:        l.GetId(),
		Level:     l.GetLevel(),
		Module:    l.GetModule(),
		Message:   l.GetMessage(),
		CreatedAt: ts,
	}
}
