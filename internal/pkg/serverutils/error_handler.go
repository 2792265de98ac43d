package serverutils

import (
	"errors"

	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/internal/service"
	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware turns errors returned by handlers into the
// response envelope. Anything unrecognised is a 500 and gets logged.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}
		return HandleError(ctx, err, log)
	}
}

func HandleError(ctx *fiber.Ctx, err error, log logger.ILogger) error {
	code := StatusFor(err)
	var data interface{}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		data = validationErr.Fields
	}

	message := err.Error()
	if code == fiber.StatusInternalServerError {
		log.Error("http", "request failed", map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"error":  err.Error(),
		})
	}

	return ctx.Status(code).JSON(ErrorResponse[any](code, message, data))
}

// StatusFor maps an error to the HTTP status it is reported with.
// Unrecognised errors are 500.
func StatusFor(err error) int {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	var validationErr *ValidationError
	var encodingErr *frame.EncodingError
	switch {
	case errors.As(err, &fiberErr):
		code = fiberErr.Code
	case errors.As(err, &validationErr):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrAgentUnavailable):
		code = fiber.StatusConflict
	case errors.Is(err, llm.ErrUnknownProvider):
		code = fiber.StatusBadRequest
	case errors.As(err, &encodingErr):
		code = fiber.StatusUnprocessableEntity
	case errors.Is(err, frame.ErrUnsupportedFormat):
		code = fiber.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrInvalidEncoding):
		code = fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated):
		code = fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNoActiveFrame), errors.Is(err, service.ErrFeatureDisabled):
		code = fiber.StatusNotFound
	}
	return code
}
