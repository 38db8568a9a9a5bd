package handlers

import (
	"acenumerik.fr/middlewares"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
)

// ContentHandler serves the admin CRUD of one catalogue table.
type ContentHandler[T any] struct {
	service services.IContentService[T]
	sortBy  string
}

// NewContentHandler lists by sortBy unless the query says otherwise.
func NewContentHandler[T any](service services.IContentService[T], sortBy string) *ContentHandler[T] {
	return &ContentHandler[T]{service: service, sortBy: sortBy}
}

// List returns one page of rows.
func (h *ContentHandler[T]) List(c *fiber.Ctx) error {
	result, err := h.service.List(c.UserContext(), listParams(c, h.sortBy))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// Get returns one row.
func (h *ContentHandler[T]) Get(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	entity, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity)
}

// Create inserts the posted row.
func (h *ContentHandler[T]) Create(c *fiber.Ctx) error {
	entity := new(T)
	if err := c.BodyParser(entity); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	if err := h.service.Create(c.UserContext(), middlewares.CurrentUserID(c), entity); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(entity)
}

// Update replaces one row with the posted fields.
func (h *ContentHandler[T]) Update(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	entity := new(T)
	if err := c.BodyParser(entity); err != nil {
		return badRequest(c, "corps de requête invalide")
	}
	if err := h.service.Update(c.UserContext(), middlewares.CurrentUserID(c), id, entity); err != nil {
		return respondError(c, err)
	}
	return c.JSON(entity)
}

// Delete removes one row.
func (h *ContentHandler[T]) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c)
	if !ok {
		return badRequest(c, "identifiant invalide")
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Register mounts the five CRUD routes on group.
func (h *ContentHandler[T]) Register(group fiber.Router) {
	group.Get("/", h.List)         // list
	group.Post("/", h.Create)      // create
	group.Get("/:id", h.Get)       // show
	group.Put("/:id", h.Update)    // replace
	group.Delete("/:id", h.Delete) // delete
}
