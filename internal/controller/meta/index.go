package meta

import (
	"github.com/gofiber/fiber/v2"

	"exusiai.dev/groupby/internal/pkg/bininfo"
)

func RegisterIndex(app *fiber.App) {
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to the Groupby admin API",
			"version": bininfo.Version,
		})
	})
}
