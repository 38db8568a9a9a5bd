package routes

import (
	"context"

	"acenumerik.fr/configs"
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// Dependencies are the services the routes are wired to. main builds them once.
type Dependencies struct {
	Config *configs.Config

	Sections     services.ISectionService
	Templates    services.ITemplateService
	Availability services.IAvailabilityService
	Appointments services.IAppointmentService
	Leads        services.ILeadService
	CVs          services.ICVService
	Auth         services.IAuthService
	Users        services.IUserService

	Team             services.IContentService[models.TeamMember]
	Testimonials     services.IContentService[models.Testimonial]
	FAQs             services.IContentService[models.FAQ]
	Pricing          services.IContentService[models.PricingPlan]
	TrustedClients   services.IContentService[models.TrustedClient]
	Jobs             services.IContentService[models.Job]
	BlogPosts        services.IContentService[models.BlogPost]
	AppointmentTypes services.IContentService[models.AppointmentType]

	Ping func(ctx context.Context) error
}

// SetupRoutes installs the global middleware chain and every route group.
func SetupRoutes(app *fiber.App, deps Dependencies) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeLocals(deps.Config))

	registerAuthRoutes(app, deps)
	registerAdminRoutes(app, deps)
	registerSiteRoutes(app, deps)

	app.Use(notFoundHandler)
}

// initializeLocals identifies signed-in visitors and exposes the site name to views.
func initializeLocals(cfg *configs.Config) fiber.Handler {
	identify := middlewares.OptionalAuth(cfg.Auth.JWTSecret)
	return func(c *fiber.Ctx) error {
		c.Locals("appName", cfg.App.Name)
		return identify(c)
	}
}

func notFoundHandler(c *fiber.Ctx) error {
	accepts := c.Accepts("application/json", "text/html")
	switch accepts {
	case "application/json":
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "ressource introuvable"})
	default:
		return c.Status(fiber.StatusNotFound).Render("errors/404", fiber.Map{"Title": "Page introuvable"}, "layouts/error_layout")
	}
}
