package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type userRecord struct {
	user    entity.User
	deleted bool
}

// UserRepository is the map-backed counterpart of the GORM user store. It
// exists for tests and the no-database demo mode; tokens and providers live
// in plain slices since their cardinality is tiny there.
type UserRepository struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*userRecord
	resetTokens   []entity.PasswordResetToken
	verifyTokens  []entity.EmailVerificationToken
	refreshTokens []entity.UserRefreshToken
	userProviders []entity.UserProvider
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users: make(map[uuid.UUID]*userRecord),
	}
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if user.Id == uuid.Nil {
		user.Id = uuid.New()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if _, exists := r.users[user.Id]; exists {
		return fmt.Errorf("user %s already exists", user.Id)
	}
	for _, rec := range r.users {
		if !rec.deleted && rec.user.Email == user.Email {
			return fmt.Errorf("duplicate email %s", user.Email)
		}
	}
	r.users[user.Id] = &userRecord{user: *user}
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.UpdatedAt = time.Now()
	rec, ok := r.users[user.Id]
	if !ok {
		r.users[user.Id] = &userRecord{user: *user}
		return nil
	}
	rec.user = *user
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[id]; ok {
		rec.deleted = true
	}
	return nil
}

func (r *UserRepository) DeleteUnscoped(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

func (r *UserRepository) match(rec *userRecord, q query, includeDeleted bool) bool {
	if rec.deleted && !includeDeleted {
		return false
	}
	u := rec.user
	if !q.matchesID(u.Id) {
		return false
	}
	if q.email != nil && u.Email != *q.email {
		return false
	}
	if q.active && u.Status != entity.UserStatusActive {
		return false
	}
	if q.search != nil {
		hay := strings.ToLower(u.Email + " " + u.FullName)
		if !strings.Contains(hay, *q.search) {
			return false
		}
	}
	return true
}

func (r *UserRepository) findOne(q query, includeDeleted bool) *entity.User {
	for _, rec := range r.users {
		if r.match(rec, q, includeDeleted) {
			found := rec.user
			return &found
		}
	}
	return nil
}

func (r *UserRepository) FindOne(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findOne(parseSpecs(specs...), false), nil
}

func (r *UserRepository) FindOneUnscoped(_ context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.findOne(parseSpecs(specs...), true), nil
}

func (r *UserRepository) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.User, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*entity.User
	for _, rec := range r.users {
		if r.match(rec, q, false) {
			found := rec.user
			out = append(out, &found)
		}
	}

	orderByTime(out, q, func(u *entity.User) int64 { return u.CreatedAt.UnixNano() })
	return paginate(out, q), nil
}

func (r *UserRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	users, err := r.FindAll(ctx, specs...)
	if err != nil {
		return 0, err
	}
	return int64(len(users)), nil
}

func (r *UserRepository) Restore(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[id]; ok {
		rec.deleted = false
		rec.user.Status = entity.UserStatusActive
	}
	return nil
}

// Token Management

func (r *UserRepository) CreatePasswordResetToken(_ context.Context, token *entity.PasswordResetToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	r.resetTokens = append(r.resetTokens, *token)
	return nil
}

func (r *UserRepository) FindPasswordResetToken(_ context.Context, specs ...specification.Specification) (*entity.PasswordResetToken, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.resetTokens {
		t := r.resetTokens[i]
		if q.token != nil && t.Token != *q.token {
			continue
		}
		if q.userID != nil && t.UserId != *q.userID {
			continue
		}
		return &t, nil
	}
	return nil, nil
}

func (r *UserRepository) MarkTokenUsed(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.resetTokens {
		if r.resetTokens[i].Id == id {
			r.resetTokens[i].Used = true
		}
	}
	return nil
}

func (r *UserRepository) CreateEmailVerificationToken(_ context.Context, token *entity.EmailVerificationToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	r.verifyTokens = append(r.verifyTokens, *token)
	return nil
}

func (r *UserRepository) FindEmailVerificationToken(_ context.Context, specs ...specification.Specification) (*entity.EmailVerificationToken, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.verifyTokens {
		t := r.verifyTokens[i]
		if q.token != nil && t.Token != *q.token {
			continue
		}
		if q.userID != nil && t.UserId != *q.userID {
			continue
		}
		return &t, nil
	}
	return nil, nil
}

func (r *UserRepository) DeleteEmailVerificationToken(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.verifyTokens {
		if r.verifyTokens[i].Id == id {
			r.verifyTokens = append(r.verifyTokens[:i], r.verifyTokens[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *UserRepository) CreateRefreshToken(_ context.Context, token *entity.UserRefreshToken) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if token.Id == uuid.Nil {
		token.Id = uuid.New()
	}
	r.refreshTokens = append(r.refreshTokens, *token)
	return nil
}

func (r *UserRepository) FindRefreshToken(_ context.Context, specs ...specification.Specification) (*entity.UserRefreshToken, error) {
	q := parseSpecs(specs...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.refreshTokens {
		t := r.refreshTokens[i]
		if q.tokenHash != nil && t.TokenHash != *q.tokenHash {
			continue
		}
		if q.userID != nil && t.UserId != *q.userID {
			continue
		}
		return &t, nil
	}
	return nil, nil
}

func (r *UserRepository) RevokeRefreshToken(_ context.Context, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.refreshTokens {
		if r.refreshTokens[i].TokenHash == tokenHash {
			r.refreshTokens[i].Revoked = true
		}
	}
	return nil
}

// Business Specific

func (r *UserRepository) GetByIdWithAvatar(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.users[id]
	if !ok || rec.deleted {
		return nil, nil
	}
	found := rec.user
	if found.AvatarURL == nil {
		for i := range r.userProviders {
			p := r.userProviders[i]
			if p.UserId == id && p.AvatarURL != "" {
				url := p.AvatarURL
				found.AvatarURL = &url
				break
			}
		}
	}
	return &found, nil
}

func (r *UserRepository) ActivateUser(_ context.Context, userId uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[userId]; ok {
		now := time.Now()
		rec.user.Status = entity.UserStatusActive
		rec.user.EmailVerified = true
		rec.user.EmailVerifiedAt = &now
	}
	return nil
}

func (r *UserRepository) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[id]; ok {
		rec.user.Status = entity.UserStatus(status)
	}
	return nil
}

func (r *UserRepository) UpdateAvatar(_ context.Context, userId uuid.UUID, avatarURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[userId]; ok {
		rec.user.AvatarURL = &avatarURL
	}
	return nil
}

func (r *UserRepository) UpdatePassword(_ context.Context, userId uuid.UUID, hash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec, ok := r.users[userId]; ok {
		rec.user.PasswordHash = &hash
	}
	return nil
}

func (r *UserRepository) SaveUserProvider(_ context.Context, provider *entity.UserProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.userProviders {
		p := &r.userProviders[i]
		if p.ProviderName == provider.ProviderName && p.ProviderUserId == provider.ProviderUserId {
			p.AvatarURL = provider.AvatarURL
			return nil
		}
	}
	if provider.Id == uuid.Nil {
		provider.Id = uuid.New()
	}
	r.userProviders = append(r.userProviders, *provider)
	return nil
}

func (r *UserRepository) FindUserProvider(_ context.Context, providerName, providerUserId string) (*entity.UserProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := range r.userProviders {
		p := r.userProviders[i]
		if p.ProviderName == providerName && p.ProviderUserId == providerUserId {
			return &p, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) SearchUsers(ctx context.Context, query string, limit, offset int) ([]*entity.User, error) {
	return r.FindAll(ctx,
		specification.UserSearchQuery{Query: query},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: offset},
	)
}

func (r *UserRepository) GetUserGrowth(_ context.Context) ([]map[string]interface{}, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := time.Now().AddDate(0, 0, -30)
	byDate := make(map[string]int64)
	for _, rec := range r.users {
		if rec.user.CreatedAt.Before(cutoff) {
			continue
		}
		byDate[rec.user.CreatedAt.Format("2006-01-02")]++
	}

	dates := make([]string, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Strings(dates)

	out := make([]map[string]interface{}, 0, len(dates))
	for _, d := range dates {
		out = append(out, map[string]interface{}{"date": d, "count": byDate[d]})
	}
	return out, nil
}

func (r *UserRepository) CountByStatus(_ context.Context, status string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, rec := range r.users {
		if !rec.deleted && string(rec.user.Status) == status {
			count++
		}
	}
	return count, nil
}

var _ contract.UserRepository = (*UserRepository)(nil)
