package handlers

import (
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/repositories"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// CVHandler serves the CV library.
type CVHandler struct {
	cvs services.ICVService
}

// NewCVHandler creates a CVHandler.
func NewCVHandler(cvs services.ICVService) *CVHandler {
	return &CVHandler{cvs: cvs}
}

// List filters by ?job=, ?status= and ?skill=.
func (h *CVHandler) List(c *fiber.Ctx) error {
	params := listParams(c, "created_at")
	filter := repositories.CVFilter{
		JobID:  uint(c.QueryInt("job")),
		Status: models.CVStatus(params.Status),
		Skill:  c.Query("skill"),
	}
	params.Status = ""
	result, err := h.cvs.List(c.UserContext(), filter, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Get returns one CV with its job.
func (h *CVHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	cv, err := h.cvs.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cv)
}

// Update changes the status, the notes or both.
func (h *CVHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	var req struct {
		Status *models.CVStatus `json:"status"`
		Notes  *string          `json:"notes"`
	}
	if err := c.BodyParser(&req); err != nil || (req.Status == nil && req.Notes == nil) {
		return badRequest(c, "statut ou notes attendus")
	}
	userID := middlewares.CurrentUserID(c)
	if req.Status != nil {
		if err := h.cvs.UpdateStatus(c.UserContext(), userID, id, *req.Status); err != nil {
			return respondError(c, err)
		}
	}
	if req.Notes != nil {
		if err := h.cvs.UpdateNotes(c.UserContext(), userID, id, *req.Notes); err != nil {
			return respondError(c, err)
		}
	}
	return h.Get(c)
}

// Delete removes a CV.
func (h *CVHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	if err := h.cvs.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
