package handlers

import (
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// LeadHandler serves the lead pipeline.
type LeadHandler struct {
	leads services.ILeadService
}

// NewLeadHandler creates a LeadHandler.
func NewLeadHandler(leads services.ILeadService) *LeadHandler {
	return &LeadHandler{leads: leads}
}

// List returns one page of leads.
func (h *LeadHandler) List(c *fiber.Ctx) error {
	result, err := h.leads.List(c.UserContext(), listParams(c, "created_at"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Get returns one lead with its notes.
func (h *LeadHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	lead, err := h.leads.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// Create records a lead entered by hand.
func (h *LeadHandler) Create(c *fiber.Ctx) error {
	var lead models.Lead
	if err := c.BodyParser(&lead); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	created, err := h.leads.CreateManual(c.UserContext(), middlewares.CurrentUserID(c), lead)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// ChangeStatus moves a lead along the pipeline.
func (h *LeadHandler) ChangeStatus(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	var req struct {
		Status models.LeadStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	lead, err := h.leads.ChangeStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(lead)
}

// AddNote appends a note signed by the current user.
func (h *LeadHandler) AddNote(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	var req struct {
		Body string `json:"body"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	note, err := h.leads.AddNote(c.UserContext(), middlewares.CurrentUserID(c), id, req.Body)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(note)
}

// Delete removes a lead.
func (h *LeadHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	if err := h.leads.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
