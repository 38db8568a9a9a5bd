package handlers

import (
	"acenumerik.fr/middlewares"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// TemplateHandler manages the saved section templates.
type TemplateHandler struct {
	templates services.ITemplateService
	sections  services.ISectionService
}

// NewTemplateHandler creates a TemplateHandler.
func NewTemplateHandler(templates services.ITemplateService, sections services.ISectionService) *TemplateHandler {
	return &TemplateHandler{templates: templates, sections: sections}
}

// List returns every template.
func (h *TemplateHandler) List(c *fiber.Ctx) error {
	templates, err := h.templates.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"templates": templates})
}

// Create snapshots the live configuration under the posted name.
func (h *TemplateHandler) Create(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	tpl, err := h.templates.CreateFromCurrent(c.UserContext(), middlewares.CurrentUserID(c), req.Name, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tpl)
}

// Apply restores a template and returns the resulting sections.
func (h *TemplateHandler) Apply(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	if err := h.templates.Apply(c.UserContext(), id); err != nil {
		if services.IsSectionInputError(err) {
			return respondError(c, err)
		}
		return c.Status(StatusFor(err)).JSON(fiber.Map{
			"error":    err.Error(),
			"dirty":    h.sections.Dirty(),
			"sections": h.sections.Sections(),
		})
	}
	return c.JSON(fiber.Map{"sections": h.sections.Sections(), "dirty": h.sections.Dirty()})
}

// Delete removes a template.
func (h *TemplateHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	if err := h.templates.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
