package handlers

import (
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/repositories"
	"acenumerik.fr/services"
	"acenumerik.fr/utils"

	"github.com/gofiber/fiber/v2"
)

// AppointmentHandler serves the appointment back office.
type AppointmentHandler struct {
	appointments services.IAppointmentService
	availability services.IAvailabilityService
}

// NewAppointmentHandler creates an AppointmentHandler.
func NewAppointmentHandler(appointments services.IAppointmentService, availability services.IAvailabilityService) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments, availability: availability}
}

// List accepts from/to (YYYY-MM-DD, to inclusive), status and type filters.
func (h *AppointmentHandler) List(c *fiber.Ctx) error {
	loc := h.availability.Location()
	var filter repositories.AppointmentFilter
	if from := c.Query("from"); from != "" {
		day, err := utils.ParseDate(from, loc)
		if err != nil {
			return badRequest(c, err.Error())
		}
		filter.From = &day
	}
	if to := c.Query("to"); to != "" {
		day, err := utils.ParseDate(to, loc)
		if err != nil {
			return badRequest(c, err.Error())
		}
		end := day.AddDate(0, 0, 1)
		filter.To = &end
	}
	if status := models.AppointmentStatus(c.Query("status")); status != "" {
		if !status.Valid() {
			return badRequest(c, "statut inconnu")
		}
		filter.Status = status
	}
	filter.TypeID = uint(c.QueryInt("type"))

	params := listParams(c, "start_time")
	params.Status = ""
	result, err := h.appointments.List(c.UserContext(), filter, params)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Get returns one appointment with its type.
func (h *AppointmentHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	appointment, err := h.appointments.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(appointment)
}

// Slots returns the full slot grid, unavailable slots included.
func (h *AppointmentHandler) Slots(c *fiber.Ctx) error {
	slots, err := h.availability.GenerateSlots(c.UserContext(), c.Query("date"), uint(c.QueryInt("type")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"slots": slots})
}

// Confirm accepts a pending appointment.
func (h *AppointmentHandler) Confirm(c *fiber.Ctx) error {
	return h.transition(c, models.AppointmentConfirmed)
}

// Complete closes a confirmed appointment.
func (h *AppointmentHandler) Complete(c *fiber.Ctx) error {
	return h.transition(c, models.AppointmentCompleted)
}

// Cancel frees the slot of a pending or confirmed appointment.
func (h *AppointmentHandler) Cancel(c *fiber.Ctx) error {
	return h.transition(c, models.AppointmentCanceled)
}

func (h *AppointmentHandler) transition(c *fiber.Ctx, next models.AppointmentStatus) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	appointment, err := h.appointments.ChangeStatus(c.UserContext(), middlewares.CurrentUserID(c), id, next)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(appointment)
}
