// FILE: internal/service/user_service_test.go
package service

import (
	"context"
	"testing"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/pkg/security"
	"ai-assistant-be/internal/repository/memory"
	"ai-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type userFixture struct {
	svc    IUserService
	stores *memory.Stores
	cipher *security.KeyCipher
}

func newUserFixture(t *testing.T, withCipher bool) *userFixture {
	t.Helper()

	factory := memory.NewRepositoryFactory()

	var cipher *security.KeyCipher
	if withCipher {
		var err error
		cipher, err = security.NewKeyCipher("fedcba9876543210fedcba9876543210")
		if err != nil {
			t.Fatalf("Failed to build cipher: %v", err)
		}
	}

	return &userFixture{
		svc:    NewUserService(factory, cipher, nil),
		stores: factory.Stores(),
		cipher: cipher,
	}
}

func seedUser(t *testing.T, f *userFixture, email string) uuid.UUID {
	t.Helper()
	u := &entity.User{
		Id:        uuid.New(),
		Email:     email,
		FullName:  "Test Person",
		Role:      entity.UserRoleUser,
		Status:    entity.UserStatusActive,
		CreatedAt: time.Now(),
	}
	if err := f.stores.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
	return u.Id
}

func TestSaveProviderKeyEncryptsAtRest(t *testing.T) {
	f := newUserFixture(t, true)
	userId := seedUser(t, f, "keys@example.com")
	rawKey := "sk-test-key-abcd1234"

	resp, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   rawKey,
	})
	assert.NoError(t, err)
	assert.Equal(t, entity.ProviderOpenAI, resp.Provider)
	assert.Equal(t, "1234", resp.Last4)

	stored, err := f.stores.ProviderKeys.FindOne(context.Background(),
		specification.UserOwnedBy{UserID: userId},
		specification.ByProvider{Provider: entity.ProviderOpenAI},
	)
	assert.NoError(t, err)
	if assert.NotNil(t, stored) {
		// Only ciphertext hits the store; the raw key round-trips through
		// the cipher.
		assert.NotEqual(t, rawKey, stored.Cipher)
		assert.NotContains(t, stored.Cipher, "abcd1234")

		decrypted, err := f.cipher.Decrypt(stored.Cipher)
		assert.NoError(t, err)
		assert.Equal(t, rawKey, decrypted)
	}
}

func TestSaveProviderKeyReplacesExisting(t *testing.T) {
	f := newUserFixture(t, true)
	userId := seedUser(t, f, "rotate@example.com")

	_, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   "sk-old-key-00001111",
	})
	assert.NoError(t, err)

	resp, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   "sk-new-key-00002222",
	})
	assert.NoError(t, err)
	assert.Equal(t, "2222", resp.Last4)
	assert.NotNil(t, resp.UpdatedAt)

	keys, err := f.svc.GetProviderKeys(context.Background(), userId)
	assert.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestSaveProviderKeyRejectsMalformedKeys(t *testing.T) {
	f := newUserFixture(t, true)
	userId := seedUser(t, f, "malformed@example.com")

	cases := []struct {
		name     string
		provider string
		apiKey   string
	}{
		{"openai key without prefix", entity.ProviderOpenAI, "ak-not-an-openai-key"},
		{"anthropic key with openai prefix", entity.ProviderAnthropic, "sk-but-not-sk-ant-key"},
		{"unknown provider", "gemini", "sk-whatever-key-1234"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
				Provider: tc.provider,
				ApiKey:   tc.apiKey,
			})
			assert.ErrorIs(t, err, ErrInvalidProviderKey)
		})
	}

	keys, err := f.svc.GetProviderKeys(context.Background(), userId)
	assert.NoError(t, err)
	assert.Empty(t, keys)
}

func TestSaveProviderKeyWithoutCipherConfigured(t *testing.T) {
	f := newUserFixture(t, false)
	userId := seedUser(t, f, "nocipher@example.com")

	_, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   "sk-valid-format-1234",
	})
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "not configured")
	}
}

func TestGetProviderKeysMasksAndOrders(t *testing.T) {
	f := newUserFixture(t, true)
	userId := seedUser(t, f, "list@example.com")

	_, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   "sk-openai-key-aa11",
	})
	assert.NoError(t, err)
	_, err = f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderAnthropic,
		ApiKey:   "sk-ant-key-long-bb22",
	})
	assert.NoError(t, err)

	keys, err := f.svc.GetProviderKeys(context.Background(), userId)
	assert.NoError(t, err)
	if assert.Len(t, keys, 2) {
		assert.Equal(t, entity.ProviderAnthropic, keys[0].Provider)
		assert.Equal(t, "bb22", keys[0].Last4)
		assert.Equal(t, entity.ProviderOpenAI, keys[1].Provider)
		assert.Equal(t, "aa11", keys[1].Last4)
	}

	// Another user sees none of them.
	other, err := f.svc.GetProviderKeys(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Empty(t, other)
}

func TestDeleteProviderKey(t *testing.T) {
	f := newUserFixture(t, true)
	userId := seedUser(t, f, "delete@example.com")

	_, err := f.svc.SaveProviderKey(context.Background(), userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   "sk-soon-gone-key-99",
	})
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteProviderKey(context.Background(), userId, entity.ProviderOpenAI))

	keys, err := f.svc.GetProviderKeys(context.Background(), userId)
	assert.NoError(t, err)
	assert.Empty(t, keys)

	err = f.svc.DeleteProviderKey(context.Background(), userId, entity.ProviderOpenAI)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProfile(t *testing.T) {
	f := newUserFixture(t, false)
	userId := seedUser(t, f, "profile@example.com")

	resp, err := f.svc.GetProfile(context.Background(), userId)
	assert.NoError(t, err)
	assert.Equal(t, "profile@example.com", resp.Email)
	assert.Equal(t, "Test Person", resp.FullName)
	assert.Equal(t, string(entity.UserRoleUser), resp.Role)

	_, err = f.svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newUserFixture(t, false)
	userId := seedUser(t, f, "old@example.com")
	seedUser(t, f, "taken@example.com")

	t.Run("rename and change email", func(t *testing.T) {
		err := f.svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{
			FullName: "Renamed Person",
			Email:    "new@example.com",
		})
		assert.NoError(t, err)

		resp, err := f.svc.GetProfile(context.Background(), userId)
		assert.NoError(t, err)
		assert.Equal(t, "Renamed Person", resp.FullName)
		assert.Equal(t, "new@example.com", resp.Email)
	})

	t.Run("email already registered", func(t *testing.T) {
		err := f.svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{
			FullName: "Renamed Person",
			Email:    "taken@example.com",
		})
		if assert.Error(t, err) {
			assert.Contains(t, err.Error(), "already registered")
		}
	})

	t.Run("keeping the own email is not a conflict", func(t *testing.T) {
		err := f.svc.UpdateProfile(context.Background(), userId, &dto.UpdateProfileRequest{
			FullName: "Renamed Person",
			Email:    "new@example.com",
		})
		assert.NoError(t, err)
	})
}

func TestDeleteAccountCascades(t *testing.T) {
	f := newUserFixture(t, true)
	userId := seedUser(t, f, "cascade@example.com")
	ctx := context.Background()

	err := f.stores.CustomAgents.Create(ctx, &entity.CustomAgent{
		Id:           uuid.New(),
		OwnerId:      userId,
		Name:         "Doomed Agent",
		Category:     "Personal",
		SystemPrompt: "x",
	})
	assert.NoError(t, err)

	err = f.stores.ChatTurns.Create(ctx, &entity.ChatTurn{
		Id:      uuid.New(),
		UserId:  userId,
		AgentId: "financial-controller",
		Role:    entity.ChatTurnRoleUser,
		Content: "hello",
	})
	assert.NoError(t, err)

	_, err = f.svc.SaveProviderKey(ctx, userId, &dto.SaveProviderKeyRequest{
		Provider: entity.ProviderOpenAI,
		ApiKey:   "sk-cascade-key-7777",
	})
	assert.NoError(t, err)

	assert.NoError(t, f.svc.DeleteAccount(ctx, userId))

	_, err = f.svc.GetProfile(ctx, userId)
	assert.ErrorIs(t, err, ErrNotFound)

	agents, err := f.stores.CustomAgents.FindAll(ctx, specification.OwnedBy{OwnerID: userId})
	assert.NoError(t, err)
	assert.Empty(t, agents)

	turns, err := f.stores.ChatTurns.FindRecent(ctx, userId, "financial-controller", 0)
	assert.NoError(t, err)
	assert.Empty(t, turns)

	keys, err := f.stores.ProviderKeys.FindAll(ctx, specification.UserOwnedBy{UserID: userId})
	assert.NoError(t, err)
	assert.Empty(t, keys)
}
