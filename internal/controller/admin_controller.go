// FILE: internal/controller/admin_controller.go
package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"
	"os"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type IAdminController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error

	// Dashboard
	GetDashboardStats(ctx *fiber.Ctx) error
	GetUserGrowth(ctx *fiber.Ctx) error
	GetMessageVolume(ctx *fiber.Ctx) error

	// User Management
	GetAllUsers(ctx *fiber.Ctx) error
	CreateUser(ctx *fiber.Ctx) error
	BulkCreateUsers(ctx *fiber.Ctx) error
	GetUserDetail(ctx *fiber.Ctx) error
	UpdateUserStatus(ctx *fiber.Ctx) error
	UpdateUser(ctx *fiber.Ctx) error
	DeleteUser(ctx *fiber.Ctx) error
	PurgeUsers(ctx *fiber.Ctx) error

	// Logs
	GetLogs(ctx *fiber.Ctx) error
	GetLogDetail(ctx *fiber.Ctx) error

	// Usage Tracking
	GetUsageOverview(ctx *fiber.Ctx) error
	ResetUsage(ctx *fiber.Ctx) error
	BulkResetUsage(ctx *fiber.Ctx) error

	// Runtime Settings
	GetAllSettings(ctx *fiber.Ctx) error
	UpdateSetting(ctx *fiber.Ctx) error
}

type adminController struct {
	service     service.IAdminService
	authService service.IAuthService
}

func NewAdminController(service service.IAdminService, authService service.IAuthService) IAdminController {
	return &adminController{
		service:     service,
		authService: authService,
	}
}

// Middleware to check for Admin Role
// This logic assumes JWT claims have "role": "admin"
func (c *adminController) adminMiddleware(ctx *fiber.Ctx) error {
	authHeader := ctx.Get("Authorization")

	// Check if Authorization header exists and has Bearer prefix
	if len(authHeader) < 7 || authHeader[:7] != "Bearer " {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Missing or invalid authorization header"))
	}
	tokenStr := authHeader[7:]

	// Get JWT secret
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_secret"
	}

	// Parse with Claims
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	})

	if err != nil || token == nil || !token.Valid {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid or expired token"))
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "Invalid token claims"))
	}

	// Check admin role
	role, ok := claims["role"].(string)
	if !ok {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: Role missing"))
	}
	if role != "admin" {
		return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "Access denied: Admins only"))
	}

	// Store user_id in context for handlers
	if userId, exists := claims["user_id"]; exists {
		ctx.Locals("user_id", userId)
	}

	return ctx.Next()
}

func (c *adminController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/admin")

	// Public Admin Route (Login)
	h.Post("/login", c.Login)

	// Protected Routes
	h.Use(c.adminMiddleware) // Enforce Admin Middleware for all routes below

	// Dashboard
	h.Get("/dashboard", c.GetDashboardStats)
	h.Get("/growth", c.GetUserGrowth)
	h.Get("/message-volume", c.GetMessageVolume)

	// Users
	h.Get("/users", c.GetAllUsers)
	h.Post("/users", c.CreateUser)
	h.Post("/users/bulk", c.BulkCreateUsers)
	h.Post("/users/purge", c.PurgeUsers)
	h.Get("/users/:id", c.GetUserDetail)
	h.Put("/users/:id/status", c.UpdateUserStatus)
	h.Put("/users/:id", c.UpdateUser)
	h.Delete("/users/:id", c.DeleteUser)

	// Logs
	h.Get("/logs", c.GetLogs)
	h.Get("/logs/:id", c.GetLogDetail)

	// Usage Tracking; bulk before :userId so "bulk" never parses as an id
	h.Get("/usage", c.GetUsageOverview)
	h.Delete("/usage/bulk", c.BulkResetUsage)
	h.Delete("/usage/:userId", c.ResetUsage)

	// Runtime Settings
	h.Get("/settings", c.GetAllSettings)
	h.Put("/settings/:key", c.UpdateSetting)
}

// Login Handler
func (c *adminController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	ipAddress := ctx.IP()
	userAgent := ctx.Get("User-Agent")

	res, err := c.authService.LoginAdmin(ctx.Context(), &req, ipAddress, userAgent)
	if err != nil {
		// Differentiate errors if needed, generic 401 for security
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Admin login successful", res))
}

// --- Dashboard Endpoints ---

func (c *adminController) GetDashboardStats(ctx *fiber.Ctx) error {
	stats, err := c.service.GetDashboardStats(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Dashboard stats", stats))
}

func (c *adminController) GetUserGrowth(ctx *fiber.Ctx) error {
	stats, err := c.service.GetUserGrowth(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("User growth stats", stats))
}

func (c *adminController) GetMessageVolume(ctx *fiber.Ctx) error {
	days, _ := strconv.Atoi(ctx.Query("days", "30"))

	stats, err := c.service.GetMessageVolume(ctx.Context(), days)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Message volume stats", stats))
}

// --- User Management Endpoints ---

func (c *adminController) GetAllUsers(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	search := ctx.Query("q", "")

	users, err := c.service.GetAllUsers(ctx.Context(), page, limit, search)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("User list", users))
}

func (c *adminController) CreateUser(ctx *fiber.Ctx) error {
	var req dto.AdminCreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	result, err := c.service.CreateUser(ctx.Context(), req)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			return ctx.Status(fiber.StatusConflict).JSON(serverutils.ErrorResponse(409, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("User created", result))
}

func (c *adminController) BulkCreateUsers(ctx *fiber.Ctx) error {
	// Parse Multipart Form
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Missing file"))
	}

	// Open file
	file, err := fileHeader.Open()
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to open file"))
	}
	defer file.Close()

	// Read content
	content := make([]byte, fileHeader.Size)
	_, err = file.Read(content)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, "Failed to read file"))
	}

	result, err := c.service.BulkCreateUsers(ctx.Context(), content)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Bulk creation completed", result))
}

func (c *adminController) GetUserDetail(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	userId, _ := uuid.Parse(idParam)

	user, err := c.service.GetUserDetail(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "User not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("User detail", user))
}

func (c *adminController) UpdateUserStatus(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	userId, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid User ID"))
	}

	var req dto.UpdateUserStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	err = c.service.UpdateUserStatus(ctx.Context(), userId, req.Status)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User status updated", nil))
}

func (c *adminController) UpdateUser(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	userId, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid User ID"))
	}

	var req dto.AdminUpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	res, err := c.service.UpdateUser(ctx.Context(), userId, req)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("User updated", res))
}

func (c *adminController) DeleteUser(ctx *fiber.Ctx) error {
	idParam := ctx.Params("id")
	userId, err := uuid.Parse(idParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid User ID"))
	}

	if err := c.service.DeleteUser(ctx.Context(), userId); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("User deleted", nil))
}

func (c *adminController) PurgeUsers(ctx *fiber.Ctx) error {
	var req dto.AdminPurgeUsersRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	result, err := c.service.PurgeUsers(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	// Partial failures still return 200 OK with the failure details
	return ctx.JSON(serverutils.SuccessResponse("Users purged", result))
}

// --- Log Endpoints ---

func (c *adminController) GetLogs(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "10"))
	level := ctx.Query("level", "")

	logs, err := c.service.GetSystemLogs(ctx.Context(), page, limit, level)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("System logs", logs))
}

func (c *adminController) GetLogDetail(ctx *fiber.Ctx) error {
	logId := ctx.Params("id") // Log ID is a string (MD5 hash), not UUID

	l, err := c.service.GetLogDetail(ctx.Context(), logId)
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Log not found"))
	}
	return ctx.JSON(serverutils.SuccessResponse("Log detail", l))
}

// --- Usage Tracking Endpoints ---

// GetUsageOverview returns a paginated list of users with their chat usage
func (c *adminController) GetUsageOverview(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	usage, err := c.service.GetUsageOverview(ctx.Context(), page, limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage overview", usage))
}

// ResetUsage clears the recorded usage for a single user
func (c *adminController) ResetUsage(ctx *fiber.Ctx) error {
	userIdParam := ctx.Params("userId")
	userId, err := uuid.Parse(userIdParam)
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid user ID"))
	}

	resp, err := c.service.ResetUsage(ctx.Context(), userId)
	if err != nil {
		if err.Error() == "user not found" {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Usage reset", resp))
}

// BulkResetUsage clears the recorded usage for multiple users
func (c *adminController) BulkResetUsage(ctx *fiber.Ctx) error {
	var req dto.BulkResetUsageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if len(req.UserIds) == 0 {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "user_ids is required"))
	}

	resp, err := c.service.BulkResetUsage(ctx.Context(), req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	return ctx.JSON(serverutils.SuccessResponse("Bulk usage reset completed", resp))
}

// --- Runtime Settings Endpoints ---

// GetAllSettings returns all runtime AI settings
func (c *adminController) GetAllSettings(ctx *fiber.Ctx) error {
	settings, err := c.service.GetAllSettings(ctx.Context())
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("AI settings", settings))
}

// UpdateSetting updates a runtime AI setting value
func (c *adminController) UpdateSetting(ctx *fiber.Ctx) error {
	key := ctx.Params("key")
	if key == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Setting key is required"))
	}

	var req dto.UpdateAiSettingRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	setting, err := c.service.UpdateSetting(ctx.Context(), key, req)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not found") {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, msg))
		}
		if strings.Contains(msg, "must be") || strings.Contains(msg, "requires") || strings.Contains(msg, "cannot be") {
			return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, msg))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Setting updated", setting))
}
