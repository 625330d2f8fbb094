package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/example/novawear/internal/apperr"
)

// ErrorHandler is the app-level Fiber error handler. Classified service
// errors map to statuses by kind; everything else is an internal failure
// whose cause is logged but never sent to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{
			"success": false,
			"message": fiberErr.Message,
		})
	}

	kind := apperr.KindOf(err)
	if kind == apperr.KindInternal {
		log.Printf("internal error: %v", err)
	}

	return c.Status(statusForKind(kind)).JSON(fiber.Map{
		"success": false,
		"message": apperr.MessageOf(err),
	})
}

func statusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return fiber.StatusBadRequest
	case apperr.KindAuth:
		return fiber.StatusUnauthorized
	case apperr.KindForbidden:
		return fiber.StatusForbidden
	case apperr.KindNotFound:
		return fiber.StatusNotFound
	case apperr.KindConflict:
		// Duplicate registration surfaces as a plain bad request, matching
		// the public API contract.
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}
