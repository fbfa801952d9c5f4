package handlers

import (
	"errors"

	"homework-desk/internal/core/domain"
	"homework-desk/internal/core/services"
	"homework-desk/internal/pkg/logger"
	"homework-desk/internal/pkg/observability"
	"homework-desk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// fail maps a service error onto the response envelope. fallback is the
// message for unexpected failures, which are logged and reported.
func fail(c *fiber.Ctx, err error, fallback string) error {
	var (
		ve  *domain.ValidationError
		dup *domain.DuplicateError
	)

	switch {
	case errors.As(err, &ve):
		return response.ValidationFailed(c, "Validation failed", ve.Fields)
	case errors.Is(err, services.ErrFileTooLarge):
		return response.TooLarge(c, "Attachment is too large")
	case errors.As(err, &dup):
		return response.Conflict(c, dup.Error())
	case errors.Is(err, domain.ErrConflict):
		return response.Conflict(c, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		return response.Unauthorized(c, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		return response.Forbidden(c, "You don't have permission to access this resource")
	case errors.Is(err, domain.ErrNotFound):
		return response.NotFound(c, "Resource not found")
	}

	logger.Log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("❌ " + fallback)
	observability.CaptureRequestErr(err, c.Method(), c.Path())
	return response.InternalServerError(c, fallback)
}
