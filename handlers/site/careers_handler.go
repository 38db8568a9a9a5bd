package handlers

import (
	"errors"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/flashmessages"
	"acenumerik.fr/pkg/renderer"
	"acenumerik.fr/repositories"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CareersHandler serves the job board and the application form.
type CareersHandler struct {
	jobs services.IContentService[models.Job]
	cvs  services.ICVService
}

// NewCareersHandler creates a CareersHandler.
func NewCareersHandler(jobs services.IContentService[models.Job], cvs services.ICVService) *CareersHandler {
	return &CareersHandler{jobs: jobs, cvs: cvs}
}

// List renders the published jobs.
func (h *CareersHandler) List(c *fiber.Ctx) error {
	flash, _ := flashmessages.GetFlashMessages(c)
	jobs, err := h.jobs.ListPublic(c.UserContext())
	if err != nil {
		configslog.Log.Error("Job list failed", zap.Error(err))
		jobs = []models.Job{}
	}
	data := fiber.Map{"Title": "Carrières", "Jobs": jobs}
	renderer.SetFlashMessages(data, flash)
	return renderer.Render(c, "site/careers", "layouts/main", data)
}

// Show renders one published job and its application form.
func (h *CareersHandler) Show(c *fiber.Ctx) error {
	job, err := h.findJob(c)
	if err != nil {
		return renderer.Render(c, "errors/404", "layouts/error_layout", fiber.Map{"Title": "Offre introuvable"}, fiber.StatusNotFound)
	}
	flash, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": job.Title, "Job": job, "FormData": flashmessages.GetFlashFormData(c)}
	renderer.SetFlashMessages(data, flash)
	return renderer.Render(c, "site/job", "layouts/main", data)
}

// Apply files a CV for the job. Spontaneous applications post to /careers/apply.
func (h *CareersHandler) Apply(c *fiber.Ctx) error {
	var job *models.Job
	redirectTo := "/careers"
	if c.Params("slug") != "" {
		found, err := h.findJob(c)
		if err != nil {
			_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, services.ErrCVJobClosed.Error())
			return c.Redirect(redirectTo, fiber.StatusSeeOther)
		}
		job = found
		redirectTo = "/careers/" + found.Slug
	}

	var app services.Application
	if err := c.BodyParser(&app); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Formulaire invalide.")
		return c.Redirect(redirectTo, fiber.StatusSeeOther)
	}
	if _, err := h.cvs.Apply(c.UserContext(), job, app); err != nil {
		msg := "Votre candidature n'a pas pu être envoyée, merci de réessayer."
		if errors.Is(err, services.ErrCVInvalidInput) || errors.Is(err, services.ErrCVJobClosed) {
			msg = err.Error()
		}
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, msg)
		_ = flashmessages.SetFlashFormData(c, app)
		return c.Redirect(redirectTo, fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Merci, votre candidature a bien été reçue.")
	return c.Redirect(redirectTo, fiber.StatusSeeOther)
}

func (h *CareersHandler) findJob(c *fiber.Ctx) (*models.Job, error) {
	return h.jobs.FindPublicOne(c.UserContext(), repositories.WhereEq("slug", c.Params("slug")))
}
