package middleware

import (
	"context"

	common_models "go-ojs/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// RequestIDMiddleware assigns X-Request-ID and copies it into the user context
func RequestIDMiddleware() []fiber.Handler {
	return []fiber.Handler{
		requestid.New(),
		func(c *fiber.Ctx) error {
			if id, ok := c.Locals("requestid").(string); ok && id != "" {
				c.SetUserContext(context.WithValue(c.UserContext(), common_models.RequestIDKey, id))
			}
			return c.Next()
		},
	}
}
