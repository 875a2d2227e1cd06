package handlers

import (
	"errors"
	"log/slog"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/amrella/amrella-backend/internal/services"
	"github.com/amrella/amrella-backend/internal/validation"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errBadBody = errors.New("invalid request body")

var statusBySentinel = []struct {
	err    error
	status int
}{
	{policy.ErrUnauthenticated, fiber.StatusUnauthorized},
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrInvalidToken, fiber.StatusUnauthorized},
	{policy.ErrForbidden, fiber.StatusForbidden},
	{services.ErrRegistrationClosed, fiber.StatusForbidden},
	{services.ErrReportNotFound, fiber.StatusNotFound},
	{services.ErrTicketNotFound, fiber.StatusNotFound},
	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrSettingNotFound, fiber.StatusNotFound},
	{services.ErrReportStateConflict, fiber.StatusConflict},
	{services.ErrTicketClosed, fiber.StatusConflict},
	{services.ErrEmailTaken, fiber.StatusConflict},
	{errBadBody, fiber.StatusBadRequest},
}

// respondError writes the error body for err. Unknown errors become a 500
// with a generic message and are reported to Sentry.
func respondError(c *fiber.Ctx, err error) error {
	for _, s := range statusBySentinel {
		if errors.Is(err, s.err) {
			return c.Status(s.status).JSON(dto.ErrorResponse{Error: true, Message: s.err.Error()})
		}
	}

	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: true, Message: verr.Message})
	}
	var ferr *validation.Error
	if errors.As(err, &ferr) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: ferr.Fields,
		})
	}

	slog.ErrorContext(c.UserContext(), "request failed", "error", err)
	if hub := sentryfiber.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

// parseBody decodes and validates the JSON body into out.
func parseBody(c *fiber.Ctx, v *validation.Validator, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return errBadBody
	}
	return v.Struct(out)
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, &services.ValidationError{Message: "invalid " + name}
	}
	return id, nil
}
