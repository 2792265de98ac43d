package serverutils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"data-explorer-be/internal/pkg/logger"
	"data-explorer-be/internal/service"
	"data-explorer-be/pkg/frame"
	"data-explorer-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestValidateRequest(t *testing.T) {
	type req struct {
		Question string `validate:"required"`
		Provider string `validate:"required,oneof=openai azure"`
	}

	assert.NoError(t, ValidateRequest(req{Question: "q", Provider: "azure"}))

	err := ValidateRequest(req{Provider: "bard"})
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "required", ve.Fields["question"])
	assert.Equal(t, "oneof=openai azure", ve.Fields["provider"])
}

func TestErrorHandlerMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(ErrorHandlerMiddleware(logger.NewFromZap(zap.NewNop())))
	app.Get("/fiber", func(*fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/validation", func(*fiber.Ctx) error { return &ValidationError{Fields: map[string]string{"q": "required"}} })
	app.Get("/provider", func(*fiber.Ctx) error { return fmt.Errorf("configure: %w", llm.ErrUnknownProvider) })
	app.Get("/format", func(*fiber.Ctx) error { return frame.ErrUnsupportedFormat })
	app.Get("/encoding", func(*fiber.Ctx) error { return &frame.EncodingError{Encoding: "ascii"} })
	app.Get("/login", func(*fiber.Ctx) error { return service.ErrNotAuthenticated })
	app.Get("/frame", func(*fiber.Ctx) error { return service.ErrNoActiveFrame })
	app.Get("/agent", func(*fiber.Ctx) error {
		return fmt.Errorf("%w: %w", service.ErrAgentUnavailable, service.ErrNoActiveFrame)
	})
	app.Get("/boom", func(*fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		path string
		code int
	}{
		{"/fiber", fiber.StatusTeapot},
		{"/validation", fiber.StatusBadRequest},
		{"/provider", fiber.StatusBadRequest},
		{"/format", fiber.StatusUnsupportedMediaType},
		{"/encoding", fiber.StatusUnprocessableEntity},
		{"/login", fiber.StatusUnauthorized},
		{"/frame", fiber.StatusNotFound},
		{"/agent", fiber.StatusConflict},
		{"/boom", fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.NoError(t, err)
			assert.Equal(t, tt.code, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var env Response[any]
			require.NoError(t, json.Unmarshal(body, &env))
			assert.False(t, env.Success)
			assert.Equal(t, tt.code, env.Code)
		})
	}
}

func TestSessionMiddleware(t *testing.T) {
	app := fiber.New()
	app.Use(SessionMiddleware("sid", time.Hour))
	app.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.SendString(SessionID(ctx).String())
	})

	// New visitor gets a cookie
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	cookies := resp.Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sid", cookies[0].Name)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, cookies[0].Value, string(body))

	// Returning visitor keeps the id
	known := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sid", Value: known.String()})
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Empty(t, resp.Cookies())
	body, _ = io.ReadAll(resp.Body)
	assert.Equal(t, known.String(), string(body))
}
