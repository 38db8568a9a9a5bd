package handlers

import (
	"acenumerik.fr/middlewares"
	"acenumerik.fr/pkg/accesscontrol"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler manages back-office accounts.
type UserHandler struct {
	users services.IUserService
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users services.IUserService) *UserHandler {
	return &UserHandler{users: users}
}

// Me describes the caller and the admin areas their role may open.
func (h *UserHandler) Me(c *fiber.Ctx) error {
	role := middlewares.CurrentRole(c)
	user, err := h.users.Get(c.UserContext(), middlewares.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"user": user, "resources": accesscontrol.ResourcesFor(role)})
}

// List returns one page of users.
func (h *UserHandler) List(c *fiber.Ctx) error {
	result, err := h.users.List(c.UserContext(), listParams(c, "created_at"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Create adds an account.
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var input services.NewUser
	if err := c.BodyParser(&input); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	user, err := h.users.Create(c.UserContext(), middlewares.CurrentUserID(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// SetActive enables or disables an account.
func (h *UserHandler) SetActive(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	var req struct {
		Active *bool `json:"active"`
	}
	if err := c.BodyParser(&req); err != nil || req.Active == nil {
		return badRequest(c, "le champ active est obligatoire")
	}
	if err := h.users.SetActive(c.UserContext(), middlewares.CurrentUserID(c), id, *req.Active); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
