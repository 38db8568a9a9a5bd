package handlers

import (
	"context"

	"acenumerik.fr/pkg/flashmessages"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// ContactHandler receives the contact form.
type ContactHandler struct {
	leads services.ILeadService
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(leads services.ILeadService) *ContactHandler {
	return &ContactHandler{leads: leads}
}

// Submit records the message as a lead and answers JSON or redirects.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req services.ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return h.reply(c, req, fiber.StatusBadRequest, "Formulaire de contact invalide.")
	}
	if _, err := h.leads.CreateFromContact(c.UserContext(), req); err != nil {
		return h.reply(c, req, statusFor(err), publicMessage(err))
	}
	if c.Is("json") {
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Message reçu, nous revenons vers vous rapidement."})
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Merci, votre message a bien été envoyé.")
	return c.Redirect("/#contact", fiber.StatusSeeOther)
}

func (h *ContactHandler) reply(c *fiber.Ctx, req services.ContactRequest, status int, msg string) error {
	if c.Is("json") {
		return c.Status(status).JSON(fiber.Map{"error": msg})
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, msg)
	_ = flashmessages.SetFlashFormData(c, req)
	return c.Redirect("/#contact", fiber.StatusSeeOther)
}

// HealthHandler reports liveness and whether the database answers.
type HealthHandler struct {
	ping func(ctx context.Context) error
}

// NewHealthHandler checks the database with ping. A nil ping only reports liveness.
func NewHealthHandler(ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{ping: ping}
}

// Check answers 503 when the database does not respond.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	if h.ping != nil {
		if err := h.ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
	}
	return c.JSON(fiber.Map{"status": "ok"})
}
