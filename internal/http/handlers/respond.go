package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"shopfront/internal/domain"
	applog "shopfront/internal/log"
	"shopfront/internal/validate"
)

// fail maps domain errors to a status and {"message": ...}. Anything
// unrecognized is returned to the fiber ErrorHandler.
func fail(c *fiber.Ctx, action string, err error) error {
	var status int
	msg := err.Error()
	switch {
	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrEmptyCart):
		status = fiber.StatusBadRequest
		applog.Security(c, "validation.fail", map[string]any{"action": action, "reason": msg})
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrAccessDenied):
		status = fiber.StatusForbidden
		applog.Security(c, "access.denied", map[string]any{"action": action})
	case errors.Is(err, domain.ErrPurchaseRequired):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	case errors.Is(err, domain.ErrBadCreds), errors.Is(err, domain.ErrUnauthenticated):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrDataIntegrity):
		applog.Error(c, action+".integrity", err, nil)
		status, msg = fiber.StatusInternalServerError, domain.ErrDataIntegrity.Error()
	default:
		applog.Error(c, action+".fail", err, nil)
		return err
	}
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// ErrorHandler is the app-wide fallback. It logs and hides internals.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "Something went wrong. Please try again."})
}

// bind decodes the JSON body into v and runs its validate tags.
func bind(c *fiber.Ctx, v any) error {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return domain.Invalid("malformed JSON body")
	}
	return validate.Struct(v)
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, ok := validate.ID(c.Params(name))
	if !ok {
		return 0, domain.Invalid("%s must be a positive integer", name)
	}
	return id, nil
}
