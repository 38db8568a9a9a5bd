package flashmessages

import (
	"encoding/json"

	"acenumerik.fr/configs"

	"github.com/gofiber/fiber/v2"
)

const (
	FlashSuccessKey  = "flash_success"
	FlashErrorKey    = "flash_error"
	flashFormDataKey = "flash_form_data"
)

// FlashMessages holds the messages read back from the session.
type FlashMessages struct {
	Success string
	Error   string
}

// SetFlashMessage stores a one-shot message in the session.
func SetFlashMessage(c *fiber.Ctx, key, message string) error {
	sess, err := configs.SetupSession().Get(c)
	if err != nil {
		return err
	}
	sess.Set(key, message)
	return sess.Save()
}

// GetFlashMessages reads and clears the pending messages.
func GetFlashMessages(c *fiber.Ctx) (FlashMessages, error) {
	var out FlashMessages
	sess, err := configs.SetupSession().Get(c)
	if err != nil {
		return out, err
	}
	if v, ok := sess.Get(FlashSuccessKey).(string); ok {
		out.Success = v
		sess.Delete(FlashSuccessKey)
	}
	if v, ok := sess.Get(FlashErrorKey).(string); ok {
		out.Error = v
		sess.Delete(FlashErrorKey)
	}
	return out, sess.Save()
}

// SetFlashFormData keeps submitted form values so the form can be refilled after a redirect.
func SetFlashFormData(c *fiber.Ctx, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	sess, err := configs.SetupSession().Get(c)
	if err != nil {
		return err
	}
	sess.Set(flashFormDataKey, string(raw))
	return sess.Save()
}

// GetFlashFormData returns and clears the form values saved by SetFlashFormData.
func GetFlashFormData(c *fiber.Ctx) map[string]any {
	sess, err := configs.SetupSession().Get(c)
	if err != nil {
		return nil
	}
	raw, ok := sess.Get(flashFormDataKey).(string)
	if !ok {
		return nil
	}
	sess.Delete(flashFormDataKey)
	_ = sess.Save()
	var out map[string]any
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
