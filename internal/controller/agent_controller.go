// FILE: internal/controller/agent_controller.go
package controller

import (
	"errors"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IAgentController interface {
	RegisterRoutes(r fiber.Router)
	GetCatalog(ctx *fiber.Ctx) error
	GetCategories(ctx *fiber.Ctx) error
	GetAgent(ctx *fiber.Ctx) error
	CreateAgent(ctx *fiber.Ctx) error
	UpdateAgent(ctx *fiber.Ctx) error
	DeleteAgent(ctx *fiber.Ctx) error
}

type agentController struct {
	service service.IAgentService
}

func NewAgentController(service service.IAgentService) IAgentController {
	return &agentController{service: service}
}

func (c *agentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/agents")
	h.Use(serverutils.JwtMiddleware)
	h.Get("/", c.GetCatalog)
	h.Get("/categories", c.GetCategories)
	h.Get("/:id", c.GetAgent)
	h.Post("/", c.CreateAgent)
	h.Put("/:id", c.UpdateAgent)
	h.Delete("/:id", c.DeleteAgent)
}

func (c *agentController) GetCatalog(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	search := ctx.Query("search", "")
	category := ctx.Query("category", "")

	res, err := c.service.GetCatalog(ctx.Context(), userId, search, category)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Agent catalog", res))
}

func (c *agentController) GetCategories(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetCategories(ctx.Context(), userId)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Agent categories", res))
}

// GetAgent resolves one catalog entry. Predefined ids are slugs, custom ids
// are UUID strings; the catalog handles both.
func (c *agentController) GetAgent(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	res, err := c.service.GetAgent(ctx.Context(), userId, ctx.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Agent not found"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Agent detail", res))
}

func (c *agentController) CreateAgent(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	var req dto.CreateAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.CreateAgent(ctx.Context(), userId, &req)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Agent created", res))
}

func (c *agentController) UpdateAgent(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	agentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid agent ID"))
	}

	var req dto.UpdateAgentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}
	req.Id = agentId

	res, err := c.service.UpdateAgent(ctx.Context(), userId, &req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Agent not found"))
		}
		if errors.Is(err, service.ErrNotOwner) {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "You do not own this agent"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse("Agent updated", res))
}

func (c *agentController) DeleteAgent(ctx *fiber.Ctx) error {
	userIdStr := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)

	agentId, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid agent ID"))
	}

	if err := c.service.DeleteAgent(ctx.Context(), userId, agentId); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, "Agent not found"))
		}
		if errors.Is(err, service.ErrNotOwner) {
			return ctx.Status(fiber.StatusForbidden).JSON(serverutils.ErrorResponse(403, "You do not own this agent"))
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(serverutils.ErrorResponse(500, err.Error()))
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Agent deleted", nil))
}
