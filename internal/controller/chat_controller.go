package controller

import (
	"data-explorer-be/internal/dto"
	"data-explorer-be/internal/pkg/serverutils"
	"data-explorer-be/internal/service"
	"data-explorer-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Configure(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IPageService
}

func NewChatController(service service.IPageService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Put("/config", c.Configure)
	h.Post("/ask", c.Ask)
	h.Delete("/history", c.Clear)
}

func (c *chatController) Configure(ctx *fiber.Ctx) error {
	var req dto.ChatConfigRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	event := service.ConfigureChatEvent{Credentials: llm.Credentials{
		Provider:   req.Provider,
		APIKey:     req.APIKey,
		Endpoint:   req.Endpoint,
		APIVersion: req.APIVersion,
		Deployment: req.Deployment,
	}}
	return dispatch(ctx, c.service, event, "Chat settings saved")
}

// Ask answers 409 when the session has no agent yet. Once the question
// reaches the model it answers 200; a failed answer shows up in the chat
// section of the view.
func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.AskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	return dispatch(ctx, c.service, service.AskEvent{Question: req.Question}, "Question answered")
}

func (c *chatController) Clear(ctx *fiber.Ctx) error {
	return dispatch(ctx, c.service, service.ClearChatEvent{}, "Chat history cleared")
}
