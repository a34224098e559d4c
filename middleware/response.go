package middleware

import (
	"errors"

	"coursehub/apperr"
	"coursehub/logger"

	"github.com/gofiber/fiber/v2"
)

// JsonResponse writes {"message": ..., <data keys>...}. An empty message is left out.
func JsonResponse(c *fiber.Ctx, statusCode int, message string, data fiber.Map) error {
	body := fiber.Map{}
	for k, v := range data {
		body[k] = v
	}
	if message != "" {
		body["message"] = message
	}
	return c.Status(statusCode).JSON(body)
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
		"message": "Validation failed!",
		"errors":  errors,
	})
}

// ErrorResponse renders err with the status of its kind. Internal causes are never exposed.
func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return JsonResponse(c, fiber.StatusInternalServerError, "Internal server error!", nil)
	}
	switch appErr.Kind {
	case apperr.KindValidation:
		return ValidationErrorResponse(c, appErr.Fields)
	case apperr.KindInternal:
		msg := appErr.Message
		if msg == "" {
			msg = "Internal server error!"
		}
		return JsonResponse(c, fiber.StatusInternalServerError, msg, nil)
	default:
		return JsonResponse(c, appErr.Status(), appErr.Message, nil)
	}
}

// ErrorHandler is the fiber error handler: it logs server-side failures and renders every
// error with the same envelope as the controllers.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return JsonResponse(c, fiberErr.Code, fiberErr.Message, nil)
		}
		if kind := apperr.KindOf(err); kind == apperr.KindInternal || kind == apperr.KindExternal {
			log.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return ErrorResponse(c, err)
	}
}
