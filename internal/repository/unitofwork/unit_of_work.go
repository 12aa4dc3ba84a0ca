package unitofwork

import (
	"context"

	"ai-assistant-be/internal/repository/contract"
)

// UnitOfWork scopes repository access to a single transaction. Callers that
// only read may skip Begin and use the repositories directly.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	CustomAgentRepository() contract.CustomAgentRepository
	ChatTurnRepository() contract.ChatTurnRepository
	ProviderKeyRepository() contract.ProviderKeyRepository
	UsageStatRepository() contract.UsageStatRepository
	AiSettingRepository() contract.IAiSettingRepository
}

// RepositoryFactory hands out a fresh UnitOfWork per request.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
