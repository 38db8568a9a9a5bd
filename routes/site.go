package routes

import (
	"acenumerik.fr/configs"
	siteHandlers "acenumerik.fr/handlers/site"
	"acenumerik.fr/middlewares"

	"github.com/gofiber/fiber/v2"
)

func registerSiteRoutes(app *fiber.App, deps Dependencies) {
	homeHandler := siteHandlers.NewHomeHandler(deps.Sections, siteHandlers.Catalog{
		Team:           deps.Team,
		Testimonials:   deps.Testimonials,
		FAQs:           deps.FAQs,
		Pricing:        deps.Pricing,
		TrustedClients: deps.TrustedClients,
	})
	blogHandler := siteHandlers.NewBlogHandler(deps.BlogPosts)
	careersHandler := siteHandlers.NewCareersHandler(deps.Jobs, deps.CVs)
	bookingHandler := siteHandlers.NewBookingHandler(deps.AppointmentTypes, deps.Availability, deps.Appointments)
	contactHandler := siteHandlers.NewContactHandler(deps.Leads)
	healthHandler := siteHandlers.NewHealthHandler(deps.Ping)

	limiter := middlewares.NewRateLimiter(deps.Config.Booking.RatePerMinute, deps.Config.Booking.RateBurst)

	app.Get("/healthz", healthHandler.Check)

	// Registered last so the admin API and auth routes never reach the CSRF check.
	site := app.Group("", configs.SetupCSRF())
	site.Get("/", homeHandler.Home)

	site.Get("/blog", blogHandler.List)       // published posts
	site.Get("/blog/:slug", blogHandler.Show) // one post, markdown rendered

	site.Get("/careers", careersHandler.List)
	site.Post("/careers/apply", limiter.Handler(), careersHandler.Apply) // spontaneous application
	site.Get("/careers/:slug", careersHandler.Show)
	site.Post("/careers/:slug/apply", limiter.Handler(), careersHandler.Apply)

	site.Get("/booking", bookingHandler.Page)
	site.Get("/booking/slots", bookingHandler.Slots) // ?date=YYYY-MM-DD&type=ID
	site.Post("/booking", limiter.Handler(), bookingHandler.Book)

	site.Post("/contact", limiter.Handler(), contactHandler.Submit)
}
