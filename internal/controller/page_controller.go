package controller

import (
	"data-explorer-be/internal/pkg/serverutils"
	"data-explorer-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPageController interface {
	RegisterRoutes(r fiber.Router)
	Render(ctx *fiber.Ctx) error
}

type pageController struct {
	service service.IPageService
}

func NewPageController(service service.IPageService) IPageController {
	return &pageController{service: service}
}

func (c *pageController) RegisterRoutes(r fiber.Router) {
	r.Get("/page", c.Render)
}

func (c *pageController) Render(ctx *fiber.Ctx) error {
	return dispatch(ctx, c.service, service.RenderEvent{}, "Page rendered")
}

// dispatch runs one page event for the caller's session and writes the
// resulting page view.
func dispatch(ctx *fiber.Ctx, svc service.IPageService, event service.Event, message string) error {
	res, err := svc.Handle(ctx.UserContext(), service.Request{
		SessionID: serverutils.SessionID(ctx),
		Cookie:    func(name string) string { return ctx.Cookies(name) },
		Event:     event,
	})
	if err != nil {
		return err
	}

	if res.Cookie != nil {
		if res.Cookie.Clear {
			ctx.ClearCookie(res.Cookie.Name)
		} else {
			ctx.Cookie(&fiber.Cookie{
				Name:     res.Cookie.Name,
				Value:    res.Cookie.Value,
				Path:     "/",
				Expires:  res.Cookie.Expires,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
	}

	switch {
	case res.Denied:
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(fiber.StatusUnauthorized, service.ErrNotAuthenticated.Error(), res.View))
	case res.Rejected:
		return ctx.Status(fiber.StatusUnprocessableEntity).JSON(serverutils.ErrorResponse(fiber.StatusUnprocessableEntity, res.View.Upload.Error, res.View))
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res.View))
}
