package auth

import (
	"context"
	"strconv"

	authsvc "presupuesto-backend/internal/auth"
	"presupuesto-backend/internal/middleware"
	"presupuesto-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const userSessionsPrefix = "user_sessions:"

// Handlers holds dependencies for auth endpoints.
type Handlers struct {
	UserFinder authsvc.UserFinder
	Rdb        *redis.Client
	Config     middleware.SessionConfig
}

// LoginRequest body.
type LoginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"password"`
}

// Login POST /api/v1/auth/login — authenticate, create session, set cookie.
func (h *Handlers) Login(c *fiber.Ctx) error {
	if h.UserFinder == nil {
		return response.Fail(c, "Error interno del servidor", fiber.StatusInternalServerError)
	}
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Fail(c, authsvc.ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest)
	}
	if req.Email == "" || req.Password == "" {
		return response.Fail(c, authsvc.ErrEmailPasswordRequired.Error(), fiber.StatusBadRequest)
	}

	user, err := h.UserFinder.FindByEmailAndPassword(req.Email, req.Password)
	if err != nil {
		switch err {
		case authsvc.ErrEmailPasswordRequired:
			return response.Fail(c, err.Error(), fiber.StatusBadRequest)
		case authsvc.ErrInvalidEmail, authsvc.ErrIncorrectPassword:
			return response.Fail(c, err.Error(), fiber.StatusUnauthorized)
		default:
			return response.Fail(c, "Error interno del servidor", fiber.StatusInternalServerError)
		}
	}

	sessionID := middleware.RegenerateSessionID(c)
	middleware.SetSessionUser(c, middleware.SessionUser{
		UserID:   user.ID,
		Fullname: user.Fullname,
		Email:    user.Email,
	})

	ctx := context.Background()
	if err := h.Rdb.SAdd(ctx, userSessionsPrefix+strconv.FormatUint(uint64(user.ID), 10), sessionID).Err(); err != nil {
		return response.Fail(c, "Error interno del servidor", fiber.StatusInternalServerError)
	}

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = "s:" + sessionID
	c.Cookie(&cookie)

	return response.OK(c, "Sesión iniciada", fiber.Map{
		"user": fiber.Map{
			"id_usuario":      user.ID,
			"nombre_completo": user.Fullname,
			"correo":          user.Email,
		},
	})
}

// Me GET /api/v1/auth/me — return the current session user.
func (h *Handlers) Me(c *fiber.Ctx) error {
	sessionUser := middleware.GetUser(c)
	user, err := authsvc.VerifyUser(sessionUser)
	if err != nil {
		log.Info().Str("path", "/auth/me").Err(err).Msg("returning 401")
		return response.Fail(c, authsvc.ErrNotAuthenticated.Error(), fiber.StatusUnauthorized)
	}
	return response.OK(c, "Autenticado", fiber.Map{"user": user})
}

// Logout DELETE /api/v1/auth/logout — drop the Redis session, clear cookie.
func (h *Handlers) Logout(c *fiber.Ctx) error {
	sessionID := middleware.GetSessionID(c)
	ctx := context.Background()

	if userID, ok := middleware.GetUserID(c); ok && sessionID != "" {
		_ = h.Rdb.SRem(ctx, userSessionsPrefix+strconv.FormatUint(uint64(userID), 10), sessionID).Err()
	}
	if sessionID != "" {
		_ = h.Rdb.Del(ctx, middleware.SessionRedisPrefix+sessionID).Err()
	}
	middleware.DestroySession(c)

	cookie := middleware.SessionCookieConfig(h.Config)
	cookie.Value = ""
	cookie.MaxAge = -1
	c.Cookie(&cookie)

	return response.OK(c, "Sesión cerrada", nil)
}
