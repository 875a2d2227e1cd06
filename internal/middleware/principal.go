package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amrella/amrella-backend/internal/dto"
	"github.com/amrella/amrella-backend/internal/metrics"
	"github.com/amrella/amrella-backend/internal/policy"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// PrincipalResolver loads the current principal for a verified user ID.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID uuid.UUID) (*policy.Principal, error)
}

// LoadPrincipal runs after JWTProtected. It reads the caller's role from the
// database on every request and stores the principal in the user context.
func LoadPrincipal(resolver PrincipalResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if !ok || token == nil {
			return unauthorized(c)
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return unauthorized(c)
		}
		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			return unauthorized(c)
		}

		p, err := resolver.ResolvePrincipal(c.UserContext(), userID)
		if err != nil {
			if errors.Is(err, policy.ErrUnauthenticated) {
				return unauthorized(c)
			}
			slog.ErrorContext(c.UserContext(), "failed to resolve principal", "error", err, "user_id", userID)
			return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
				Error: true, Message: "Failed to load session",
			})
		}

		c.SetUserContext(policy.NewContext(c.UserContext(), p))
		return c.Next()
	}
}

// Require rejects callers the policy does not allow to perform action.
func Require(action policy.Action, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := policy.CanPerform(Principal(c), action)
		switch {
		case err == nil:
			return c.Next()
		case errors.Is(err, policy.ErrUnauthenticated):
			m.PolicyDenied(string(action), "unauthenticated")
			return unauthorized(c)
		default:
			m.PolicyDenied(string(action), "forbidden")
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient permissions",
			})
		}
	}
}

// Principal returns the caller resolved by LoadPrincipal, or nil.
func Principal(c *fiber.Ctx) *policy.Principal {
	return policy.FromContext(c.UserContext())
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}
