package memory

import (
	"context"
	"fmt"

	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/unitofwork"
)

// UnitOfWork satisfies the transactional interface over the memory stores.
// There is no real transaction; Begin/Commit/Rollback only track pairing so
// misuse shows up in tests the same way it would against the database.
type UnitOfWork struct {
	stores *Stores
	active bool
}

// Stores bundles the singleton memory repositories. All units of work from
// one factory share them, so writes are visible across requests.
type Stores struct {
	Users        *UserRepository
	CustomAgents *CustomAgentRepository
	ChatTurns    *ChatTurnRepository
	ProviderKeys *ProviderKeyRepository
	UsageStats   *UsageStatRepository
	AiSettings   *AiSettingRepository
}

func NewStores() *Stores {
	return &Stores{
		Users:        NewUserRepository(),
		CustomAgents: NewCustomAgentRepository(),
		ChatTurns:    NewChatTurnRepository(),
		ProviderKeys: NewProviderKeyRepository(),
		UsageStats:   NewUsageStatRepository(),
		AiSettings:   NewAiSettingRepository(),
	}
}

func NewUnitOfWork(stores *Stores) unitofwork.UnitOfWork {
	return &UnitOfWork{stores: stores}
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	if u.active {
		return fmt.Errorf("transaction already started")
	}
	u.active = true
	return nil
}

func (u *UnitOfWork) Commit() error {
	if !u.active {
		return fmt.Errorf("no transaction to commit")
	}
	u.active = false
	return nil
}

func (u *UnitOfWork) Rollback() error {
	if !u.active {
		return fmt.Errorf("no transaction to rollback")
	}
	u.active = false
	return nil
}

func (u *UnitOfWork) UserRepository() contract.UserRepository {
	return u.stores.Users
}

func (u *UnitOfWork) CustomAgentRepository() contract.CustomAgentRepository {
	return u.stores.CustomAgents
}

func (u *UnitOfWork) ChatTurnRepository() contract.ChatTurnRepository {
	return u.stores.ChatTurns
}

func (u *UnitOfWork) ProviderKeyRepository() contract.ProviderKeyRepository {
	return u.stores.ProviderKeys
}

func (u *UnitOfWork) UsageStatRepository() contract.UsageStatRepository {
	return u.stores.UsageStats
}

func (u *UnitOfWork) AiSettingRepository() contract.IAiSettingRepository {
	return u.stores.AiSettings
}

// RepositoryFactory produces memory units of work over one shared store set.
type RepositoryFactory struct {
	stores *Stores
}

func NewRepositoryFactory() *RepositoryFactory {
	return &RepositoryFactory{stores: NewStores()}
}

func (f *RepositoryFactory) Stores() *Stores {
	return f.stores
}

func (f *RepositoryFactory) NewUnitOfWork(_ context.Context) unitofwork.UnitOfWork {
	return NewUnitOfWork(f.stores)
}

var _ unitofwork.RepositoryFactory = (*RepositoryFactory)(nil)
