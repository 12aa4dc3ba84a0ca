// FILE: internal/controller/chat_controller.go
package controller

import (
	"errors"
	"fmt"
	"time"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/agent"
	"ai-assistant-be/pkg/llm"
	"ai-assistant-be/pkg/prompt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
	ClearHistory(ctx *fiber.Ctx) error
	ExportHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IChatService
}

func NewChatController(service service.IChatService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("/", c.SendMessage)
	h.Get("/:agent_id/history", c.GetHistory)
	h.Delete("/:agent_id/history", c.ClearHistory)
	h.Get("/:agent_id/export", c.ExportHistory)
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.SendMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SendMessage(ctx.Context(), userId, &req)
	if err != nil {
		return mapChatError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Message sent", res))
}

// mapChatError translates pipeline failures into statuses. Upstream provider
// failures surface as gateway errors so clients can tell their own mistakes
// apart from provider ones.
func mapChatError(ctx *fiber.Ctx, err error) error {
	var rateErr *dto.RateLimitedError
	if errors.As(err, &rateErr) {
		return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.BaseResponse[*dto.RateLimitedError]{
			Success: false,
			Code:    429,
			Message: rateErr.Error(),
			Data:    rateErr,
		})
	}

	switch {
	case errors.Is(err, prompt.ErrEmptyMessage), errors.Is(err, llm.ErrUnsupportedModel):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case errors.Is(err, llm.ErrAuth):
		return ctx.Status(fiber.StatusBadGateway).JSON(serverutils.ErrorResponse(502, err.Error()))
	case errors.Is(err, llm.ErrRateLimited):
		return ctx.Status(fiber.StatusTooManyRequests).JSON(serverutils.ErrorResponse(429, err.Error()))
	case errors.Is(err, llm.ErrTransient):
		return ctx.Status(fiber.StatusGatewayTimeout).JSON(serverutils.ErrorResponse(504, err.Error()))
	case errors.Is(err, agent.ErrStoreUnavailable):
		return ctx.Status(fiber.StatusServiceUnavailable).JSON(serverutils.ErrorResponse(503, err.Error()))
	}
	return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetHistory(ctx.Context(), userId, ctx.Params("agent_id"))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Chat history", res))
}

func (c *chatController) ClearHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	if err := c.service.ClearHistory(ctx.Context(), userId, ctx.Params("agent_id")); err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Chat history cleared", nil))
}

// ExportHistory streams the full conversation as a CSV download.
func (c *chatController) ExportHistory(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	agentId := ctx.Params("agent_id")
	data, err := c.service.ExportHistory(ctx.Context(), userId, agentId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}

	filename := fmt.Sprintf("chat_%s_%s.csv", agentId, time.Now().Format("2006-01-02"))
	ctx.Set(fiber.HeaderContentType, "text/csv")
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(data)
}
