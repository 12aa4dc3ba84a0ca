// FILE: internal/dto/admin_log_dto.go
package dto

import (
	"time"
)

// Note: LogListResponse uses string for Id because log IDs are MD5 hashes, not UUIDs

// --- Admin Graph DTOs ---

type UserGrowthStats struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// MessageVolumeStats is one point of the daily chat volume chart.
type MessageVolumeStats struct {
	Date     string `json:"date"`
	Messages int64  `json:"messages"`
	Tokens   int64  `json:"tokens"`
}

// --- System Log DTOs ---

type LogListResponse struct {
	Id        string    `json:"id"` // MD5 hash, not UUID
	Level     string    `json:"level"`
	Module    string    `json:"module"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

type LogDetailResponse struct {
	LogListResponse
	Details map[string]interface{} `json:"details"`
}

// --- OAuth DTOs ---

type OAuthLoginURLResponse struct {
	URL string `json:"url"`
}

type OAuthCallbackRequest struct {
	Code  string `json:"code" validate:"required"`
	State string `json:"state"`
}
