package controller

import (
	"data-explorer-be/internal/dto"
	"data-explorer-be/internal/pkg/serverutils"
	"data-explorer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Login(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
}

type authController struct {
	service service.IPageService
}

func NewAuthController(service service.IPageService) IAuthController {
	return &authController{service: service}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/login", c.Login)
	h.Post("/logout", c.Logout)
}

// Login answers 200 even for wrong credentials; the auth section of the
// page view carries the outcome.
func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	return dispatch(ctx, c.service, service.LoginEvent{Username: req.Username, Password: req.Password}, "Login processed")
}

func (c *authController) Logout(ctx *fiber.Ctx) error {
	return dispatch(ctx, c.service, service.LogoutEvent{}, "Logged out")
}
