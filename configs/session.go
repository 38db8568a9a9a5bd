package configs

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/gofiber/fiber/v2/utils"
)

var sessionStore *session.Store

// SetupSession returns the cookie session store used for flash messages on the public site.
func SetupSession() *session.Store {
	if sessionStore != nil {
		return sessionStore
	}
	sessionStore = session.New(session.Config{
		Expiration:     24 * time.Hour,
		KeyLookup:      "cookie:acenumerik_session",
		CookieHTTPOnly: true,
		CookieSecure:   Get().IsProduction(),
		CookieSameSite: "Lax",
	})
	return sessionStore
}

// SetupCSRF protects the public html forms. The token is exposed as c.Locals("csrf").
func SetupCSRF() fiber.Handler {
	return csrf.New(csrf.Config{
		KeyLookup:      "form:csrf_token",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieHTTPOnly: true,
		CookieSecure:   Get().IsProduction(),
		Expiration:     time.Hour,
		KeyGenerator:   utils.UUIDv4,
		ContextKey:     "csrf",
		Next: func(c *fiber.Ctx) bool {
			// JSON booking calls from the site widget carry no form token.
			return c.Is("json")
		},
	})
}
