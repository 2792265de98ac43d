package controller

import (
	"errors"
	"fmt"
	"io"

	"data-explorer-be/internal/pkg/serverutils"
	"data-explorer-be/internal/service"
	"data-explorer-be/pkg/frame"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type IDatasetController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Explorer(ctx *fiber.Ctx) error
	Sample(ctx *fiber.Ctx) error
}

type datasetController struct {
	service service.IPageService
}

func NewDatasetController(service service.IPageService) IDatasetController {
	return &datasetController{service: service}
}

func (c *datasetController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/dataset")
	h.Post("/upload", c.Upload)
	h.Delete("/", c.Remove)
	h.Get("/explorer", c.Explorer)
	h.Get("/sample", c.Sample)
}

// Upload takes a multipart "file" and an optional "encoding" field. A
// request without a file removes the current dataset.
func (c *datasetController) Upload(ctx *fiber.Ctx) error {
	var upload *frame.Upload

	fh, err := ctx.FormFile("file")
	switch {
	case errors.Is(err, fasthttp.ErrMissingFile):
	case err != nil:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("failed to open upload: %w", err)
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			return fmt.Errorf("failed to read upload: %w", err)
		}
		upload = &frame.Upload{Name: fh.Filename, Content: content}
	}

	event := service.UploadEvent{File: upload, Encoding: ctx.FormValue("encoding")}
	return dispatch(ctx, c.service, event, "Dataset uploaded")
}

func (c *datasetController) Remove(ctx *fiber.Ctx) error {
	return dispatch(ctx, c.service, service.UploadEvent{}, "Dataset removed")
}

func (c *datasetController) Explorer(ctx *fiber.Ctx) error {
	spec, err := c.service.Explorer(ctx.UserContext(), serverutils.SessionID(ctx), func(name string) string { return ctx.Cookies(name) })
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Explorer ready", spec))
}

func (c *datasetController) Sample(ctx *fiber.Ctx) error {
	asset, err := c.service.Sample(ctx.UserContext(), serverutils.SessionID(ctx), func(name string) string { return ctx.Cookies(name) })
	if err != nil {
		return err
	}

	ctx.Attachment(asset.Name)
	ctx.Set(fiber.HeaderContentType, "text/csv")
	return ctx.SendStream(asset.Body, int(asset.Size))
}
