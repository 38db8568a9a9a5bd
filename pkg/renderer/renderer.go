package renderer

import (
	"errors"
	"net/http"
	"strings"

	"acenumerik.fr/configs/configslog"
	"acenumerik.fr/pkg/flashmessages"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	FlashSuccessKeyView = "Success"
	FlashErrorKeyView   = "Error"
)

// SetFlashMessages copies pending flash messages into the view data.
func SetFlashMessages(data fiber.Map, flash flashmessages.FlashMessages) {
	if flash.Success != "" {
		data[FlashSuccessKeyView] = flash.Success
	}
	if flash.Error != "" {
		data[FlashErrorKeyView] = flash.Error
	}
}

// Render renders view inside layout with common locals added. status defaults to 200.
func Render(c *fiber.Ctx, view, layout string, data fiber.Map, status ...int) error {
	if data == nil {
		data = fiber.Map{}
	}
	if _, ok := data["CsrfToken"]; !ok {
		data["CsrfToken"] = c.Locals("csrf")
	}
	if _, ok := data["CurrentPath"]; !ok {
		data["CurrentPath"] = c.Path()
	}

	code := http.StatusOK
	if len(status) > 0 {
		code = status[0]
	}
	if err := c.Status(code).Render(view, data, layout); err != nil {
		configslog.Log.Error("Template render failed", zap.String("view", view), zap.Error(err))
		return c.Status(http.StatusInternalServerError).SendString("render error")
	}
	return nil
}

// ErrorHandler is the app-wide fiber error handler. API and JSON callers get
// {"error": ...}; browsers get the error pages.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := http.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	if code >= http.StatusInternalServerError {
		configslog.Log.Error("Unhandled request error", zap.String("path", c.Path()), zap.Error(err))
	}

	if strings.HasPrefix(c.Path(), "/api/") || c.Accepts("html") == "" {
		message := "Une erreur interne est survenue."
		if fe != nil && code < http.StatusInternalServerError {
			message = fe.Message
		}
		return c.Status(code).JSON(fiber.Map{"error": message})
	}

	view, title := "errors/500", "Erreur serveur"
	if code == http.StatusNotFound {
		view, title = "errors/404", "Page introuvable"
	}
	return Render(c, view, "layouts/error_layout", fiber.Map{"Title": title}, code)
}
