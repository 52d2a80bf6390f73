package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// Chained registers middlewares on r in the given order.
func Chained(r fiber.Router, middlewares ...fiber.Handler) {
	for _, middleware := range middlewares {
		r.Use(middleware)
	}
}
