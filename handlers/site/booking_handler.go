package handlers

import (
	"errors"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/middlewares"
	"acenumerik.fr/models"
	"acenumerik.fr/pkg/flashmessages"
	"acenumerik.fr/pkg/renderer"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// BookingHandler serves the public booking page and its JSON endpoints.
type BookingHandler struct {
	types        services.IContentService[models.AppointmentType]
	availability services.IAvailabilityService
	appointments services.IAppointmentService
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(
	types services.IContentService[models.AppointmentType],
	availability services.IAvailabilityService,
	appointments services.IAppointmentService,
) *BookingHandler {
	return &BookingHandler{types: types, availability: availability, appointments: appointments}
}

// Page renders the booking page with the active types and opening hours.
func (h *BookingHandler) Page(c *fiber.Ctx) error {
	flash, _ := flashmessages.GetFlashMessages(c)
	types, err := h.types.ListPublic(c.UserContext())
	if err != nil {
		configslog.Log.Error("Appointment type list failed", zap.Error(err))
		types = []models.AppointmentType{}
	}
	hours := h.availability.BusinessHours()
	data := fiber.Map{
		"Title":    "Prendre rendez-vous",
		"Types":    types,
		"Opening":  hours.Open.String(),
		"Closing":  hours.Close.String(),
		"FormData": flashmessages.GetFlashFormData(c),
	}
	renderer.SetFlashMessages(data, flash)
	return renderer.Render(c, "site/booking", "layouts/main", data)
}

// Slots answers GET /booking/slots?date=YYYY-MM-DD&type=ID.
func (h *BookingHandler) Slots(c *fiber.Ctx) error {
	slots, err := h.availability.GenerateSlots(c.UserContext(), c.Query("date"), uint(c.QueryInt("type")))
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": publicMessage(err)})
	}
	return c.JSON(fiber.Map{"date": c.Query("date"), "slots": slots})
}

// Book accepts the widget's JSON or the plain html form.
func (h *BookingHandler) Book(c *fiber.Ctx) error {
	var req services.BookingRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, req, fiber.StatusBadRequest, "Formulaire de réservation invalide.")
	}
	if id := middlewares.CurrentUserID(c); id != 0 {
		req.UserID = &id
	}

	appointment, err := h.appointments.Book(c.UserContext(), req)
	if err != nil {
		return h.fail(c, req, statusFor(err), publicMessage(err))
	}
	if c.Is("json") {
		return c.Status(fiber.StatusCreated).JSON(appointment)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		"Merci ! Votre demande de rendez-vous du "+appointment.StartTime.Format("02/01/2006 à 15:04")+" a bien été enregistrée.")
	return c.Redirect("/booking", fiber.StatusSeeOther)
}

func (h *BookingHandler) fail(c *fiber.Ctx, req services.BookingRequest, status int, msg string) error {
	if c.Is("json") {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, msg)
	_ = flashmessages.SetFlashFormData(c, req)
	return c.Redirect("/booking", fiber.StatusSeeOther)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrAppointmentTypeNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrSlotUnavailable):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidDate), errors.Is(err, services.ErrAppInvalidInput),
		errors.Is(err, services.ErrSlotInPast), errors.Is(err, services.ErrLeadInvalidInput):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// publicMessage hides internal failures from visitors.
func publicMessage(err error) string {
	if statusFor(err) == fiber.StatusInternalServerError {
		configslog.Log.Error("Public request failed", zap.Error(err))
		return "Une erreur est survenue, merci de réessayer."
	}
	return err.Error()
}
