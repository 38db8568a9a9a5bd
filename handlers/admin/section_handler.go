package handlers

import (
	"encoding/json"

	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// SectionHandler exposes the homepage section editor as JSON.
type SectionHandler struct {
	sections services.ISectionService
}

// NewSectionHandler creates a SectionHandler.
func NewSectionHandler(sections services.ISectionService) *SectionHandler {
	return &SectionHandler{sections: sections}
}

type addSectionRequest struct {
	Type  models.SectionType `json:"type"`
	Title string             `json:"title"`
	models.SectionOptions
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// changeResponse reports whether a mutation touched the configuration.
// Unknown ids are not errors; they leave everything unchanged.
func (h *SectionHandler) changeResponse(c *fiber.Ctx, changed bool) error {
	return c.JSON(fiber.Map{
		"changed":  changed,
		"dirty":    h.sections.Dirty(),
		"sections": h.sections.Sections(),
	})
}

// List returns every section in order and the dirty flag.
func (h *SectionHandler) List(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"sections": h.sections.Sections(), "dirty": h.sections.Dirty()})
}

// Data returns the typed payload of one section.
func (h *SectionHandler) Data(c *fiber.Ctx) error {
	payload, ok := h.sections.Data(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "section introuvable"})
	}
	return c.JSON(fiber.Map{"type": payload.SectionType(), "data": payload})
}

// Add appends a section of the requested type.
func (h *SectionHandler) Add(c *fiber.Ctx) error {
	var req addSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	section, err := h.sections.Add(req.Type, req.Title, req.SectionOptions)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"section": section, "sections": h.sections.Sections()})
}

// Remove hides a standard section or deletes any other.
func (h *SectionHandler) Remove(c *fiber.Ctx) error {
	return h.changeResponse(c, h.sections.Remove(c.Params("id")))
}

// Reorder applies the posted order, full or partial.
func (h *SectionHandler) Reorder(c *fiber.Ctx) error {
	var req reorderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	before := h.sections.Sections()
	after := h.sections.Reorder(req.IDs)
	return c.JSON(fiber.Map{"changed": !sameOrder(before, after), "dirty": h.sections.Dirty(), "sections": after})
}

func sameOrder(a, b []models.Section) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Order != b[i].Order {
			return false
		}
	}
	return true
}

// UpdateVisibility shows or hides one section.
func (h *SectionHandler) UpdateVisibility(c *fiber.Ctx) error {
	var req struct {
		Visible *bool `json:"visible"`
	}
	if err := c.BodyParser(&req); err != nil || req.Visible == nil {
		return badRequest(c, "le champ visible est obligatoire")
	}
	return h.changeResponse(c, h.sections.UpdateVisibility(c.Params("id"), *req.Visible))
}

// UpdateTitle renames one section.
func (h *SectionHandler) UpdateTitle(c *fiber.Ctx) error {
	var req struct {
		Title string `json:"title"`
	}
	if err := c.BodyParser(&req); err != nil || req.Title == "" {
		return badRequest(c, "le titre est obligatoire")
	}
	return h.changeResponse(c, h.sections.UpdateTitle(c.Params("id"), req.Title))
}

// UpdateData replaces the payload of one section with the raw JSON body.
func (h *SectionHandler) UpdateData(c *fiber.Ctx) error {
	raw := json.RawMessage(c.Body())
	if !json.Valid(raw) {
		return badRequest(c, "JSON invalide")
	}
	changed, err := h.sections.UpdateData(c.Params("id"), raw)
	if err != nil {
		return respondError(c, err)
	}
	return h.changeResponse(c, changed)
}

// Save persists the configuration. A failed save answers 503 and keeps the edits.
func (h *SectionHandler) Save(c *fiber.Ctx) error {
	if err := h.sections.Save(c.UserContext()); err != nil {
		// The in-memory configuration is kept; the client may retry.
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error(), "dirty": true})
	}
	return c.JSON(fiber.Map{"dirty": h.sections.Dirty(), "savedBy": middlewares.CurrentUserID(c)})
}

// Reload discards unsaved changes.
func (h *SectionHandler) Reload(c *fiber.Ctx) error {
	if err := h.sections.Load(c.UserContext()); err != nil {
		return respondError(c, err)
	}
	return h.List(c)
}
