package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const localSessionID = "session_id"

// SessionMiddleware makes sure every request carries a session id cookie
// and exposes the id to handlers through SessionID.
func SessionMiddleware(cookieName string, ttl time.Duration) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		id, err := uuid.Parse(ctx.Cookies(cookieName))
		if err != nil {
			id = uuid.New()
			ctx.Cookie(&fiber.Cookie{
				Name:     cookieName,
				Value:    id.String(),
				Path:     "/",
				Expires:  time.Now().Add(ttl),
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}
		ctx.Locals(localSessionID, id)
		return ctx.Next()
	}
}

func SessionID(ctx *fiber.Ctx) uuid.UUID {
	id, _ := ctx.Locals(localSessionID).(uuid.UUID)
	return id
}
