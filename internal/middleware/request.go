package middleware

import (
	"github.com/amrella/amrella-backend/internal/logging"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/utils"
)

// RequestContext copies the request ID, method and path into the user
// context so service logs carry them. It must run after requestid.
//
// The values outlive the request (PGHandler buffers records), so they are
// copied out of fasthttp's reusable buffers.
func RequestContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID, _ := c.Locals(requestid.ConfigDefault.ContextKey).(string)
		c.SetUserContext(logging.WithRequest(c.UserContext(), logging.Request{
			TraceID: utils.CopyString(traceID),
			Method:  utils.CopyString(c.Method()),
			Path:    utils.CopyString(c.Path()),
		}))
		return c.Next()
	}
}
