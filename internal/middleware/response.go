package middleware

import (
	"presupuesto-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ResponseFormatter injects the standard success/error helpers into Locals.
// Handlers should typically import the response pkg and call response.OK etc.
func ResponseFormatter() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals("response_ok", func(msg string, payload fiber.Map) error {
			return response.OK(c, msg, payload)
		})
		c.Locals("response_fail", func(msg string, code int) error {
			return response.Fail(c, msg, code)
		})
		return c.Next()
	}
}
