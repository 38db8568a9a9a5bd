package middlewares

import (
	"strings"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/accesscontrol"
	"acenumerik.fr/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	LocalUserID   = "userID"
	LocalRole     = "role"
	LocalUserName = "userName"

	// TokenCookie lets signed-in visitors of the public site carry their token.
	TokenCookie = "acenumerik_token"
)

// JWTAuth rejects requests without a valid bearer token.
func JWTAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentification requise"})
		}
		if err := setIdentity(c, secret, raw); err != nil {
			configslog.Log.Debug("Rejected bearer token", zap.String("path", c.Path()), zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "jeton invalide ou expiré"})
		}
		return c.Next()
	}
}

// OptionalAuth identifies the visitor when a token is present and lets
// anonymous requests through.
func OptionalAuth(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			raw = c.Cookies(TokenCookie)
		}
		if raw != "" {
			_ = setIdentity(c, secret, raw)
		}
		return c.Next()
	}
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func setIdentity(c *fiber.Ctx, secret, raw string) error {
	claims, err := utils.ParseToken(secret, raw)
	if err != nil {
		return err
	}
	userID, err := claims.UserID()
	if err != nil {
		return err
	}
	c.Locals(LocalUserID, userID)
	c.Locals(LocalRole, accesscontrol.Role(claims.Role))
	c.Locals(LocalUserName, claims.Name)
	return nil
}

// CurrentUserID returns 0 for anonymous requests.
func CurrentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(LocalUserID).(uint)
	return id
}

// CurrentRole returns RoleAnonymous for anonymous requests.
func CurrentRole(c *fiber.Ctx) accesscontrol.Role {
	role, ok := c.Locals(LocalRole).(accesscontrol.Role)
	if !ok {
		return accesscontrol.RoleAnonymous
	}
	return role
}
