// FILE: internal/service/user_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/security"
	"ai-assistant-be/internal/repository/specification"
	"ai-assistant-be/internal/repository/unitofwork"

	"ai-assistant-be/pkg/events"
	pktNats "ai-assistant-be/pkg/nats" // Renamed to avoid collision

	"github.com/google/uuid"
	"github.com/samber/lo"
)

type IUserService interface {
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error
	DeleteAccount(ctx context.Context, userId uuid.UUID) error
	UploadAvatar(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (string, error)

	// Provider keys
	SaveProviderKey(ctx context.Context, userId uuid.UUID, req *dto.SaveProviderKeyRequest) (*dto.ProviderKeyResponse, error)
	GetProviderKeys(ctx context.Context, userId uuid.UUID) ([]*dto.ProviderKeyResponse, error)
	DeleteProviderKey(ctx context.Context, userId uuid.UUID, provider string) error
}

type userService struct {
	uowFactory     unitofwork.RepositoryFactory
	cipher         *security.KeyCipher
	eventPublisher *pktNats.Publisher
}

func NewUserService(uowFactory unitofwork.RepositoryFactory, cipher *security.KeyCipher, eventPublisher *pktNats.Publisher) IUserService {
	return &userService{
		uowFactory:     uowFactory,
		cipher:         cipher,
		eventPublisher: eventPublisher,
	}
}

func (s *userService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().GetByIdWithAvatar(ctx, userId)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	avatarURL := ""
	if user.AvatarURL != nil {
		avatarURL = *user.AvatarURL
	}

	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		AvatarURL: avatarURL,
		CreatedAt: user.CreatedAt,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	repo := uow.UserRepository()
	user, err := repo.FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	user.FullName = req.FullName

	if req.Email != "" && req.Email != user.Email {
		existing, err := repo.FindOne(ctx, specification.ByEmail{Email: req.Email})
		if err != nil {
			return err
		}
		if existing != nil {
			return fmt.Errorf("email %s is already registered", req.Email)
		}
		user.Email = req.Email
	}

	return repo.Update(ctx, user)
}

// DeleteAccount removes the user and everything keyed by them: custom
// agents, conversations, stored keys and usage rows go in one transaction.
func (s *userService) DeleteAccount(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.CustomAgentRepository().DeleteAllByOwnerIdUnscoped(ctx, userId); err != nil {
		return err
	}
	if err := uow.ChatTurnRepository().DeleteAllByUserIdUnscoped(ctx, userId); err != nil {
		return err
	}
	if err := uow.ProviderKeyRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.UsageStatRepository().DeleteAllByUserId(ctx, userId); err != nil {
		return err
	}
	if err := uow.UserRepository().Delete(ctx, userId); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if s.eventPublisher != nil {
		evt := events.BaseEvent{
			Type: "USER_DELETED",
			Data: map[string]interface{}{
				"user_id":     userId,
				"occurred_at": time.Now(),
			},
			OccurredAt: time.Now(),
		}
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish USER_DELETED event: %v\n", err)
		}
	}

	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, userId uuid.UUID, file *multipart.FileHeader) (string, error) {
	// 1. Validate File Size (e.g., Max 2MB)
	if file.Size > 2*1024*1024 {
		return "", fmt.Errorf("file too large (max 2MB)")
	}

	// 2. Open File
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// 3. Create Upload Directory
	uploadDir := "./uploads/avatars"
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}

	// 4. Generate Unique Filename
	ext := filepath.Ext(file.Filename)
	filename := fmt.Sprintf("%s_%d%s", userId.String(), time.Now().Unix(), ext)
	dstPath := filepath.Join(uploadDir, filename)

	// 5. Save File
	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}

	// 6. Generate Public URL
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:3000"
	}
	publicURL := fmt.Sprintf("%s/uploads/avatars/%s", baseURL, filename)

	// 7. Update User Profile in DB
	uow := s.uowFactory.NewUnitOfWork(ctx)
	err = uow.UserRepository().UpdateAvatar(ctx, userId, publicURL)
	if err != nil {
		return "", err
	}

	return publicURL, nil
}

// ============================================================================
// Provider Key Management
// ============================================================================

// SaveProviderKey validates the key shape, encrypts it and stores it for
// (user, provider), replacing any previous key.
func (s *userService) SaveProviderKey(ctx context.Context, userId uuid.UUID, req *dto.SaveProviderKeyRequest) (*dto.ProviderKeyResponse, error) {
	if err := validateProviderKeyFormat(req.Provider, req.ApiKey); err != nil {
		return nil, err
	}
	if s.cipher == nil {
		return nil, fmt.Errorf("key storage is not configured")
	}

	encrypted, err := s.cipher.Encrypt(req.ApiKey)
	if err != nil {
		return nil, err
	}

	key := entity.ProviderKey{
		UserId:   userId,
		Provider: req.Provider,
		Cipher:   encrypted,
		Last4:    security.Last4(req.ApiKey),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ProviderKeyRepository()
	if err := repo.Upsert(ctx, &key); err != nil {
		return nil, err
	}

	// Re-read so the response carries the persisted timestamps.
	stored, err := repo.FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByProvider{Provider: req.Provider},
	)
	if err != nil || stored == nil {
		return providerKeyToResponse(&key), nil
	}
	return providerKeyToResponse(stored), nil
}

func (s *userService) GetProviderKeys(ctx context.Context, userId uuid.UUID) ([]*dto.ProviderKeyResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	keys, err := uow.ProviderKeyRepository().FindAll(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.OrderBy{Field: "provider"},
	)
	if err != nil {
		return nil, err
	}

	return lo.Map(keys, func(k *entity.ProviderKey, _ int) *dto.ProviderKeyResponse {
		return providerKeyToResponse(k)
	}), nil
}

func (s *userService) DeleteProviderKey(ctx context.Context, userId uuid.UUID, provider string) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	key, err := uow.ProviderKeyRepository().FindOne(ctx,
		specification.UserOwnedBy{UserID: userId},
		specification.ByProvider{Provider: provider},
	)
	if err != nil {
		return err
	}
	if key == nil {
		return ErrNotFound
	}

	return uow.ProviderKeyRepository().Delete(ctx, userId, provider)
}

// validateProviderKeyFormat rejects keys that cannot belong to the provider.
// OpenAI keys start with "sk-", Anthropic keys with "sk-ant-".
func validateProviderKeyFormat(provider, apiKey string) error {
	switch provider {
	case entity.ProviderOpenAI:
		if !strings.HasPrefix(apiKey, "sk-") {
			return fmt.Errorf("%w: openai keys start with sk-", ErrInvalidProviderKey)
		}
	case entity.ProviderAnthropic:
		if !strings.HasPrefix(apiKey, "sk-ant-") {
			return fmt.Errorf("%w: anthropic keys start with sk-ant-", ErrInvalidProviderKey)
		}
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidProviderKey, provider)
	}
	return nil
}

func providerKeyToResponse(k *entity.ProviderKey) *dto.ProviderKeyResponse {
	return &dto.ProviderKeyResponse{
		Provider:  k.Provider,
		Last4:     k.Last4,
		CreatedAt: k.CreatedAt,
		UpdatedAt: k.UpdatedAt,
	}
}
