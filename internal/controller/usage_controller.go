// FILE: internal/controller/usage_controller.go
package controller

import (
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IUsageController interface {
	RegisterRoutes(r fiber.Router)
	GetSummary(ctx *fiber.Ctx) error
}

type usageController struct {
	service service.IUsageService
}

func NewUsageController(service service.IUsageService) IUsageController {
	return &usageController{service: service}
}

func (c *usageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/usage")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/summary", c.GetSummary)
}

func (c *usageController) GetSummary(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetSummary(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Usage summary", res))
}
