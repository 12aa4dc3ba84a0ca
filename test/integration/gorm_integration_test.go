package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.CustomAgentRepository())
	assert.NotNil(t, uow.ChatTurnRepository())
	assert.NotNil(t, uow.ProviderKeyRepository())
	assert.NotNil(t, uow.UsageStatRepository())
	assert.NotNil(t, uow.AiSettingRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Custom Agent Repository", func(t *testing.T) {
		count, err := uow.CustomAgentRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("CustomAgent count: %d", count)
	})

	t.Run("Check Transactional Turn Pair", func(t *testing.T) {
		// A chat exchange is two rows that must land together.
		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     "user",
			Status:   "active",
		}

		err := uow.UserRepository().Create(context.Background(), user)
		assert.NoError(t, err)
		defer uow.UserRepository().DeleteUnscoped(context.Background(), userId)

		ctx := context.Background()
		txUow := uowFactory.NewUnitOfWork(ctx)
		err = txUow.Begin(ctx)
		assert.NoError(t, err)
		defer txUow.Rollback()

		now := time.Now()
		pair := []*entity.ChatTurn{
			{
				Id:        uuid.New(),
				UserId:    userId,
				AgentId:   "startup-strategist",
				Role:      entity.ChatTurnRoleUser,
				Content:   "integration ping",
				CreatedAt: now,
			},
			{
				Id:        uuid.New(),
				UserId:    userId,
				AgentId:   "startup-strategist",
				Role:      entity.ChatTurnRoleAssistant,
				Content:   "integration pong",
				CreatedAt: now.Add(time.Second),
			},
		}
		err = txUow.ChatTurnRepository().CreateBatch(ctx, pair)
		assert.NoError(t, err)

		err = txUow.Commit()
		assert.NoError(t, err)

		// Read the pair back in order, then clean up.
		turns, err := uow.ChatTurnRepository().FindRecent(ctx, userId, "startup-strategist", 0)
		assert.NoError(t, err)
		if assert.Len(t, turns, 2) {
			assert.Equal(t, entity.ChatTurnRoleUser, turns[0].Role)
			assert.Equal(t, entity.ChatTurnRoleAssistant, turns[1].Role)
		}

		err = uow.ChatTurnRepository().DeleteAllByUserIdUnscoped(ctx, userId)
		assert.NoError(t, err)

		t.Log("Successfully created turn pair in Transaction")
	})
}
