package response

import (
	"github.com/gofiber/fiber/v2"
)

// Every response uses the legacy flat envelope: {"success": bool, "msg": string}
// with payload keys merged at the top level, matching what the frontend parses.

// OK sends 200 with success:true, msg, and the payload keys merged in.
func OK(c *fiber.Ctx, msg string, payload fiber.Map) error {
	return send(c, fiber.StatusOK, msg, payload)
}

// Created sends 201 with the same shape.
func Created(c *fiber.Ctx, msg string, payload fiber.Map) error {
	return send(c, fiber.StatusCreated, msg, payload)
}

// Fail sends success:false with msg at the given status code.
func Fail(c *fiber.Ctx, msg string, statusCode int) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"success": false,
		"msg":     msg,
	})
}

// Unauthorized sends 401 in the standard shape; used by the auth middleware so
// every error looks the same to clients.
func Unauthorized(c *fiber.Ctx, msg string) error {
	return Fail(c, msg, fiber.StatusUnauthorized)
}

func send(c *fiber.Ctx, status int, msg string, payload fiber.Map) error {
	body := fiber.Map{
		"success": true,
		"msg":     msg,
	}
	for k, v := range payload {
		body[k] = v
	}
	return c.Status(status).JSON(body)
}
