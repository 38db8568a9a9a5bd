package middlewares

import (
	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/accesscontrol"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireAccess lets the request through only when the policy table allows
// the caller's role on resource. It must run after JWTAuth.
func RequireAccess(resource accesscontrol.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := CurrentRole(c)
		if accesscontrol.Evaluate(resource, role) == accesscontrol.Allow {
			return c.Next()
		}
		configslog.Log.Warn("Access denied",
			zap.String("resource", string(resource)),
			zap.String("role", string(role)),
			zap.Uint("userID", CurrentUserID(c)),
		)
		if role == accesscontrol.RoleAnonymous {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "authentification requise"})
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "accès refusé"})
	}
}
