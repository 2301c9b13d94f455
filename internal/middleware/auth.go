package middleware

import (
	"presupuesto-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

const userLocal = "user"

// RequireAuth ensures a user is in the session. 401 in the standard envelope
// when not.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := c.Locals(userLocal)
		if user == nil {
			return response.Unauthorized(c, "No autenticado")
		}
		c.Locals("auth", user)
		return c.Next()
	}
}

// GetUser returns the session user from Locals (nil if not logged in).
func GetUser(c *fiber.Ctx) interface{} {
	return c.Locals(userLocal)
}

// GetUserID extracts the numeric user id from the session user. The session
// round-trips through JSON, so the id may arrive as float64.
func GetUserID(c *fiber.Ctx) (uint, bool) {
	m, ok := GetUser(c).(map[string]interface{})
	if !ok {
		return 0, false
	}
	switch v := m["id_usuario"].(type) {
	case float64:
		return uint(v), true
	case int:
		return uint(v), true
	case uint:
		return v, true
	}
	return 0, false
}
