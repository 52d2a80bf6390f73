package middlewares

import (
	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/groupby/internal/pkg/flog"
)

const ContextKeyRequestID = "request_id"

// RequestID copies the request id generated by the logger middleware into ctx.Locals
// and onto the sentry scope of the request.
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := flog.IDFromFiberCtx(c)
		if ok {
			c.Locals(ContextKeyRequestID, id.String())
			if hub := fibersentry.GetHubFromContext(c); hub != nil {
				hub.Scope().SetTag(ContextKeyRequestID, id.String())
			}
		}
		return c.Next()
	}
}
