package handlers

import (
	"errors"
	"os"

	"seatfinder/internal/repositories"
	"seatfinder/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// respondError maps the service error taxonomy to HTTP statuses.
// Validation and duplicate errors carry their specific reason back to the
// caller; storage faults render as a generic failure notice.
func respondError(c *fiber.Ctx, err error) error {
	var validationError *services.ValidationError
	switch {
	case errors.As(err, &validationError):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"error":   validationError.Error(),
		})
	case errors.Is(err, repositories.ErrDuplicateUsername),
		errors.Is(err, repositories.ErrDuplicateEmail),
		errors.Is(err, repositories.ErrDuplicateEntry):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": "Duplicate",
			"error":   err.Error(),
		})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"message": "Not found",
			"error":   err.Error(),
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	default:
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Internal error",
		})
	}
}

// currentUserID pulls the authenticated user's ID out of the locals set
// by the JWT middleware.
func currentUserID(c *fiber.Ctx) string {
	if id, ok := c.Locals("user_id").(string); ok {
		return id
	}
	return ""
}

// currentUsername pulls the authenticated username out of the locals.
func currentUsername(c *fiber.Ctx) string {
	if name, ok := c.Locals("username").(string); ok {
		return name
	}
	return ""
}
