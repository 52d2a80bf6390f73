package meta

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"go.uber.org/fx"

	"exusiai.dev/groupby/internal/pkg/bininfo"
	"exusiai.dev/groupby/internal/pkg/cachectrl"
	"exusiai.dev/groupby/internal/server/svr"
	"exusiai.dev/groupby/internal/service"
)

type Meta struct {
	fx.In

	HealthService *service.Health
}

func RegisterMeta(meta *svr.Meta, c Meta) {
	meta.Get("/bininfo", c.BinInfo)

	meta.Get("/health", cache.New(cache.Config{
		// cache it for a second to mitigate potential DDoS
		Expiration: time.Second,
	}), c.Health)
}

func (c *Meta) BinInfo(ctx *fiber.Ctx) error {
	built, _ := time.Parse(time.RFC3339, bininfo.BuildTime)
	cachectrl.OptIn(ctx, built, time.Hour)

	return ctx.JSON(fiber.Map{
		"version": bininfo.Version,
		"build":   bininfo.BuildTime,
	})
}

func (c *Meta) Health(ctx *fiber.Ctx) error {
	if err := c.HealthService.Ping(ctx.UserContext()); err != nil {
		return err
	}

	stats := c.HealthService.DB.Stats()
	return ctx.JSON(fiber.Map{
		"status":   "ok",
		"listings": len(c.HealthService.Registry.All()),
		"db": fiber.Map{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
		},
	})
}
