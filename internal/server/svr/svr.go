package svr

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/groupby/internal/pkg/cachectrl"
)

// Admin is the router group every admin listing endpoint is mounted on.
type Admin struct {
	fiber.Router
}

// Meta serves build information and health checks.
type Meta struct {
	fiber.Router
}

func CreateEndpointGroups(app *fiber.App) (*Admin, *Meta) {
	admin := app.Group("/api/admin", func(c *fiber.Ctx) error {
		// change lists depend on live data and must never be cached by intermediaries
		cachectrl.OptOut(c)
		return c.Next()
	})
	meta := app.Group("/api/_")

	return &Admin{Router: admin}, &Meta{Router: meta}
}
