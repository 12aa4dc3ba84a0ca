package server

import (
	"log"

	"ai-assistant-be/internal/bootstrap"
	"ai-assistant-be/internal/config"
	"ai-assistant-be/internal/pkg/serverutils"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	app       *fiber.App
	cfg       *config.Config
	container *bootstrap.Container
}

func New(cfg *config.Config, container *bootstrap.Container) *Server {
	// Initialize Fiber App
	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // 10MB
	})

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.App.CorsAllowedOrigins,
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET, POST, PUT, PATCH, DELETE, OPTIONS",
		ExposeHeaders:    "Content-Length, Content-Type, Authorization",
	}))

	// OpenTelemetry tracing middleware (traces all HTTP requests)
	app.Use(otelfiber.Middleware())

	app.Use(serverutils.ErrorHandlerMiddleware())

	// Static
	app.Static("/uploads", "./uploads")

	// Routes
	registerRoutes(app, container)

	return &Server{
		app:       app,
		cfg:       cfg,
		container: container,
	}
}

func (s *Server) GetApp() *fiber.App {
	return s.app
}

func (s *Server) Run() error {
	log.Printf("✅ Server is running on http://localhost:%s", s.cfg.App.Port)
	return s.app.Listen(":" + s.cfg.App.Port)
}

func registerRoutes(app *fiber.App, c *bootstrap.Container) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	app.Get("/health", healthHandler(c))

	api := app.Group("/api")

	c.AuthController.RegisterRoutes(api)
	c.OAuthController.RegisterRoutes(api)
	c.UserController.RegisterRoutes(api)

	c.AgentController.RegisterRoutes(api)
	c.ChatController.RegisterRoutes(api)
	c.UsageController.RegisterRoutes(api)

	c.AdminController.RegisterRoutes(api)

	// The websocket upgrade lives on the app root, outside /api.
	c.RealtimeHandler.RegisterRoutes(app)
}

// healthHandler reports liveness. A down database fails the check; a down
// Redis is reported but the service keeps serving in degraded mode.
func healthHandler(c *bootstrap.Container) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		code := fiber.StatusOK
		overall := "ok"
		dbState := "up"
		redisState := "up"

		sqlDB, err := c.DB.DB()
		if err != nil || sqlDB.PingContext(ctx.Context()) != nil {
			dbState = "down"
			overall = "down"
			code = fiber.StatusServiceUnavailable
		}

		if c.Redis == nil || c.Redis.Ping(ctx.Context()).Err() != nil {
			redisState = "down"
		}

		return ctx.Status(code).JSON(fiber.Map{
			"status":   overall,
			"database": dbState,
			"redis":    redisState,
		})
	}
}
