package handlers

import (
	"errors"
	"strconv"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/queryparams"
	"acenumerik.fr/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

var (
	notFoundErrors = []error{
		services.ErrAppointmentNotFound, services.ErrAppointmentTypeNotFound, services.ErrContentNotFound,
		services.ErrLeadNotFound, services.ErrCVNotFound, services.ErrTemplateNotFound, services.ErrUserNotFound,
	}
	conflictErrors = []error{
		services.ErrInvalidStatusTransition, services.ErrSlotUnavailable, services.ErrLeadInvalidTransition,
		services.ErrTemplateNameTaken, services.ErrUserEmailTaken,
	}
	badRequestErrors = []error{
		services.ErrAppInvalidInput, services.ErrInvalidDate, services.ErrSlotInPast, services.ErrContentInvalidInput,
		services.ErrSectionInvalidInput, services.ErrLeadInvalidInput, services.ErrCVInvalidInput, services.ErrCVJobClosed,
		services.ErrTemplateNameRequired, services.ErrTemplateCorrupt, services.ErrUserInvalidInput,
	}
)

// StatusFor maps a service error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case matchesAny(err, notFoundErrors):
		return fiber.StatusNotFound
	case matchesAny(err, conflictErrors):
		return fiber.StatusConflict
	case matchesAny(err, badRequestErrors):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func matchesAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// respondError writes {"error": msg}. Internal errors are logged and hidden.
func respondError(c *fiber.Ctx, err error) error {
	status := StatusFor(err)
	if status == fiber.StatusInternalServerError {
		configslog.Log.Error("Admin API error", zap.String("method", c.Method()), zap.String("path", c.Path()), zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": "une erreur interne est survenue"})
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func paramID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func listParams(c *fiber.Ctx, sortBy string) queryparams.ListParams {
	params := queryparams.DefaultListParams(sortBy)
	if err := c.QueryParser(&params); err != nil {
		return queryparams.DefaultListParams(sortBy)
	}
	params.Validate()
	return params
}
