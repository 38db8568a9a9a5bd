package handlers

import (
	"errors"
	"time"

	"acenumerik.fr/middlewares"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler signs back-office users in and out.
type AuthHandler struct {
	auth         services.IAuthService
	secureCookie bool
}

// NewAuthHandler sets the Secure flag on the token cookie when secureCookie is true.
func NewAuthHandler(auth services.IAuthService, secureCookie bool) *AuthHandler {
	return &AuthHandler{auth: auth, secureCookie: secureCookie}
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Login issues a bearer token. The token is also set as an http-only cookie
// so signed-in visitors see gated sections of the public site.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil || req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "e-mail et mot de passe requis"})
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
		case errors.Is(err, services.ErrUserInactive):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": services.ErrTokenIssueFailed.Error()})
	}

	c.Cookie(&fiber.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    result.Token,
		Expires:  result.ExpiresAt,
		HTTPOnly: true,
		Secure:   h.secureCookie,
		SameSite: "Lax",
	})
	return c.JSON(result)
}

// Logout expires the token cookie.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    "",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: "Lax",
	})
	return c.SendStatus(fiber.StatusNoContent)
}
