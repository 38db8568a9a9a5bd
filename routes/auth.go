package routes

import (
	authHandlers "acenumerik.fr/handlers/auth"
	"acenumerik.fr/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerAuthRoutes(app *fiber.App, deps Dependencies) {
	authHandler := authHandlers.NewAuthHandler(deps.Auth, deps.Config.IsProduction())
	limiter := middlewares.NewRateLimiter(deps.Config.Booking.RatePerMinute, deps.Config.Booking.RateBurst)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", limiter.Handler(), authHandler.Login) // JSON or form, returns a bearer token
	authGroup.Post("/logout", authHandler.Logout)                  // clears the site cookie
}
