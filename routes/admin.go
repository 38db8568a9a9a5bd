package routes

import (
	adminHandlers "acenumerik.fr/handlers/admin"
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/accesscontrol"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// registerAdminRoutes mounts the JSON back office under /api/admin. Every
// group is gated by the policy table in pkg/accesscontrol.
func registerAdminRoutes(app *fiber.App, deps Dependencies) {
	sectionHandler := adminHandlers.NewSectionHandler(deps.Sections)
	templateHandler := adminHandlers.NewTemplateHandler(deps.Templates, deps.Sections)
	appointmentHandler := adminHandlers.NewAppointmentHandler(deps.Appointments, deps.Availability)
	leadHandler := adminHandlers.NewLeadHandler(deps.Leads)
	cvHandler := adminHandlers.NewCVHandler(deps.CVs)
	userHandler := adminHandlers.NewUserHandler(deps.Users)

	api := app.Group("/api/admin",
		cors.New(cors.Config{
			AllowOrigins: deps.Config.App.BaseURL,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET,POST,PUT,PATCH,DELETE",
		}),
		middlewares.JWTAuth(deps.Config.Auth.JWTSecret),
	)

	api.Get("/me", middlewares.RequireAccess(accesscontrol.ResourceDashboard), userHandler.Me)

	sections := api.Group("/sections", middlewares.RequireAccess(accesscontrol.ResourceSections))
	sections.Get("/", sectionHandler.List)
	sections.Post("/", sectionHandler.Add)
	sections.Put("/order", sectionHandler.Reorder)  // {"ids": [...]}, partial lists allowed
	sections.Post("/save", sectionHandler.Save)     // persist the in-memory configuration
	sections.Post("/reload", sectionHandler.Reload) // discard unsaved changes
	sections.Delete("/:id", sectionHandler.Remove)  // hide standard, delete custom/external
	sections.Patch("/:id/visibility", sectionHandler.UpdateVisibility)
	sections.Patch("/:id/title", sectionHandler.UpdateTitle)
	sections.Get("/:id/data", sectionHandler.Data)
	sections.Put("/:id/data", sectionHandler.UpdateData)

	templates := api.Group("/templates", middlewares.RequireAccess(accesscontrol.ResourceTemplates))
	templates.Get("/", templateHandler.List)
	templates.Post("/", templateHandler.Create)         // snapshot of the current sections
	templates.Post("/:id/apply", templateHandler.Apply) // replace and save
	templates.Delete("/:id", templateHandler.Delete)

	adminHandlers.NewContentHandler[models.TeamMember](deps.Team, "sort_order").
		Register(api.Group("/team", middlewares.RequireAccess(accesscontrol.ResourceTeam)))
	adminHandlers.NewContentHandler[models.Testimonial](deps.Testimonials, "sort_order").
		Register(api.Group("/testimonials", middlewares.RequireAccess(accesscontrol.ResourceTestimonials)))
	adminHandlers.NewContentHandler[models.FAQ](deps.FAQs, "sort_order").
		Register(api.Group("/faqs", middlewares.RequireAccess(accesscontrol.ResourceFAQs)))
	adminHandlers.NewContentHandler[models.PricingPlan](deps.Pricing, "sort_order").
		Register(api.Group("/pricing", middlewares.RequireAccess(accesscontrol.ResourcePricing)))
	adminHandlers.NewContentHandler[models.TrustedClient](deps.TrustedClients, "sort_order").
		Register(api.Group("/clients", middlewares.RequireAccess(accesscontrol.ResourceTrustedClients)))
	adminHandlers.NewContentHandler[models.Job](deps.Jobs, "created_at").
		Register(api.Group("/jobs", middlewares.RequireAccess(accesscontrol.ResourceJobs)))
	adminHandlers.NewContentHandler[models.BlogPost](deps.BlogPosts, "created_at").
		Register(api.Group("/blog", middlewares.RequireAccess(accesscontrol.ResourceBlog)))
	adminHandlers.NewContentHandler[models.AppointmentType](deps.AppointmentTypes, "name").
		Register(api.Group("/appointment-types", middlewares.RequireAccess(accesscontrol.ResourceAppointmentTypes)))

	appointments := api.Group("/appointments", middlewares.RequireAccess(accesscontrol.ResourceAppointments))
	appointments.Get("/", appointmentHandler.List)       // ?from=&to=&status=&type=
	appointments.Get("/slots", appointmentHandler.Slots) // ?date=&type=
	appointments.Get("/:id", appointmentHandler.Get)
	appointments.Post("/:id/confirm", appointmentHandler.Confirm)
	appointments.Post("/:id/complete", appointmentHandler.Complete)
	appointments.Post("/:id/cancel", appointmentHandler.Cancel)

	leads := api.Group("/leads", middlewares.RequireAccess(accesscontrol.ResourceLeads))
	leads.Get("/", leadHandler.List)
	leads.Post("/", leadHandler.Create)
	leads.Get("/:id", leadHandler.Get)
	leads.Patch("/:id/status", leadHandler.ChangeStatus)
	leads.Post("/:id/notes", leadHandler.AddNote)
	leads.Delete("/:id", leadHandler.Delete)

	cvs := api.Group("/cvs", middlewares.RequireAccess(accesscontrol.ResourceCVs))
	cvs.Get("/", cvHandler.List) // ?job=&status=&skill=
	cvs.Get("/:id", cvHandler.Get)
	cvs.Patch("/:id", cvHandler.Update)
	cvs.Delete("/:id", cvHandler.Delete)

	users := api.Group("/users", middlewares.RequireAccess(accesscontrol.ResourceUsers))
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Patch("/:id/active", userHandler.SetActive)
}
