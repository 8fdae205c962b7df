package controller

import (
	"errors"

	"pdf-chatbot-be/internal/dto"
	"pdf-chatbot-be/internal/pkg/serverutils"
	"pdf-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAskController interface {
	RegisterRoutes(r fiber.Router)
	Ask(ctx *fiber.Ctx) error
}

type askController struct {
	queryService service.IQueryService
}

func NewAskController(queryService service.IQueryService) IAskController {
	return &askController{
		queryService: queryService,
	}
}

func (c *askController) RegisterRoutes(r fiber.Router) {
	r.Post("/ask/", c.Ask)
}

func (c *askController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.queryService.Ask(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrPdfNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "PDF not found")
		}
		return err
	}

	return ctx.JSON(res)
}
