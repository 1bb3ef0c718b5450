package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/krishkalaria12/imageworld/apperr"
	"github.com/rs/zerolog"
)

// ErrorHandler renders every error returned from a handler as the JSON error envelope.
func ErrorHandler(log zerolog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status, message := statusFor(err)

		if status >= fiber.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg(message)
		}

		return c.Status(status).JSON(fiber.Map{
			"status":  "error",
			"message": message,
			"data":    nil,
		})
	}
}

func statusFor(err error) (int, string) {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return fiber.StatusInternalServerError, "Server error"
	}

	switch appErr.Kind {
	case apperr.KindValidation, apperr.KindConflict, apperr.KindLimitExceeded:
		return fiber.StatusBadRequest, appErr.Message
	case apperr.KindUnauthorized:
		return fiber.StatusUnauthorized, appErr.Message
	case apperr.KindForbidden:
		return fiber.StatusForbidden, appErr.Message
	case apperr.KindNotFound:
		return fiber.StatusNotFound, appErr.Message
	default:
		return fiber.StatusInternalServerError, appErr.Message
	}
}
