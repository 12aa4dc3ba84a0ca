package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/controller"
	"ai-assistant-be/internal/handler"
	"ai-assistant-be/internal/pkg/logger"
	"ai-assistant-be/internal/pkg/mailer"
	"ai-assistant-be/internal/pkg/ratelimit"
	"ai-assistant-be/internal/pkg/security"
	"ai-assistant-be/internal/repository/unitofwork"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/internal/websocket"
	"ai-assistant-be/pkg/admin/aisettings"
	"ai-assistant-be/pkg/admin/dashboard"
	adminEvents "ai-assistant-be/pkg/admin/events"
	"ai-assistant-be/pkg/admin/usage"
	"ai-assistant-be/pkg/admin/user"
	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/prompt"

	pktNats "ai-assistant-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// chatCompletedTopic is the in-process bus topic carrying completed
// exchanges from the chat service to the usage consumer.
const chatCompletedTopic = "CHAT_COMPLETED"

type Container struct {
	// Controllers
	AgentController controller.IAgentController
	ChatController  controller.IChatController
	UserController  controller.IUserController
	AuthController  controller.IAuthController
	OAuthController controller.IOAuthController
	UsageController controller.IUsageController
	AdminController controller.IAdminController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Realtime
	RealtimeHandler *handler.RealtimeHandler
	WebSocketHub    *websocket.Hub

	// Infrastructure handles for the health endpoint
	DB    *gorm.DB
	Redis *redis.Client
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/realtime.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// A missing encryption secret disables stored provider keys.
	cipher, err := security.NewKeyCipher(cfg.KeyEncryptionSecret)
	if err != nil {
		log.Printf("[WARN] Provider key encryption disabled: %v", err)
	}

	limiter := ratelimit.NewLimiter(
		rdb,
		cfg.RateLimit.Limit,
		time.Duration(cfg.RateLimit.WindowSeconds)*time.Second,
	)

	// 3. Agent Catalog & Prompt Pipeline
	registry := agent.NewRegistry()
	agentSource := service.NewAgentSource(uowFactory)
	resolver := agent.NewResolver(registry, agentSource)
	counter := prompt.NewCounter("cl100k_base")

	settingService := service.NewAiSettingService(uowFactory, service.ChatDefaults{
		Provider:         cfg.LLM.Provider,
		Model:            cfg.LLM.Model,
		MaxTokens:        cfg.LLM.MaxTokens,
		MaxHistoryTurns:  cfg.LLM.MaxHistoryTurns,
		MaxContextTokens: cfg.LLM.MaxContextTokens,
	})

	// 4. Services
	publisherService := service.NewPublisherService(chatCompletedTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		chatCompletedTopic,
		uowFactory,
	)

	chatService := service.NewChatService(
		uowFactory,
		resolver,
		counter,
		settingService,
		service.ProviderConfig{
			OpenAIKey:      cfg.LLM.OpenAIKey,
			AnthropicKey:   cfg.LLM.AnthropicKey,
			OllamaBaseURL:  cfg.LLM.OllamaBaseURL,
			RequestTimeout: time.Duration(cfg.LLM.RequestTimeoutSeconds) * time.Second,
		},
		cipher,
		limiter,
		publisherService,
		natsPub,
		wsHub, // Hub implements RealtimeDelivery
		sysLogger,
	)

	agentService := service.NewAgentService(uowFactory, resolver, natsPub, wsHub)
	usageService := service.NewUsageService(uowFactory, resolver)
	userService := service.NewUserService(uowFactory, cipher, natsPub)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)
	oauthService := service.NewOAuthService(uowFactory)

	// Admin Domain Components
	adminEventPublisher := adminEvents.NewNatsPublisher(natsPub, sysLogger)
	userManager := user.NewManager(sysLogger, adminEventPublisher)
	usageTracker := usage.NewTracker(sysLogger, adminEventPublisher)
	dashboardAggregator := dashboard.NewAggregator(sysLogger)
	settingsManager := aisettings.NewManager(adminEventPublisher)

	adminService := service.NewAdminService(
		uowFactory,
		sysLogger,
		userManager,
		usageTracker,
		dashboardAggregator,
		adminEventPublisher,
		settingsManager,
		settingService,
	)

	// 4.5 Event Audit Worker
	auditService := service.NewEventAuditService(natsSub, sysLogger)
	if natsSub != nil {
		go auditService.Start()
	}

	// Handler
	realtimeHandler := handler.NewRealtimeHandler(wsHub, wsLogger)

	// 5. Controllers
	// Note: We return the container with public fields for the server to register
	return &Container{
		RealtimeHandler: realtimeHandler,
		WebSocketHub:    wsHub,
		DB:              db,
		Redis:           rdb,
		AgentController: controller.NewAgentController(agentService),
		ChatController:  controller.NewChatController(chatService),
		UserController:  controller.NewUserController(userService),
		AuthController:  controller.NewAuthController(authService),
		OAuthController: controller.NewOAuthController(oauthService),
		UsageController: controller.NewUsageController(usageService),
		AdminController: controller.NewAdminController(adminService, authService),

		ConsumerService: consumerService,
	}
}
