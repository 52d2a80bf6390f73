package httpserver

import (
	"errors"
	"strconv"

	"github.com/gofiber/contrib/fibersentry"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"exusiai.dev/groupby/internal/pkg/adminerr"
	"exusiai.dev/groupby/internal/pkg/flog"
)

func handleCustomError(ctx *fiber.Ctx, e *adminerr.AdminError) error {
	flog.WarnFrom(ctx).
		Str("evt.name", "http.error.client").
		Err(e).
		Str("method", ctx.Method()).
		Str("path", ctx.Path()).
		Msg(e.Message)

	body := fiber.Map{
		"code":    e.ErrorCode,
		"message": e.Message,
	}

	// Add extra details if needed
	if e.Extras != nil && len(*e.Extras) > 0 {
		for k, v := range *e.Extras {
			body[k] = v
		}
	}

	return ctx.Status(e.StatusCode).JSON(body)
}

func ErrorHandler(ctx *fiber.Ctx, err error) error {
	var e *adminerr.AdminError
	if errors.As(err, &e) {
		return handleCustomError(ctx, e)
	}

	// Default 500 statuscode
	re := *adminerr.ErrInternalError

	var fe *fiber.Error
	if errors.As(err, &fe) {
		re.StatusCode = fe.Code
		re.ErrorCode = "UNKNOWN_ERROR"
		re.Message = fe.Message
	}

	if re.StatusCode >= fiber.StatusInternalServerError {
		log.Error().
			Stack().
			Err(err).
			Str("evt.name", "http.error.internal").
			Str("method", ctx.Method()).
			Str("path", ctx.Path()).
			Int("status", re.StatusCode).
			Msg("Internal Server Error")

		if hub := fibersentry.GetHubFromContext(ctx); hub != nil {
			hub.Scope().SetTag("status", strconv.Itoa(re.StatusCode))
			hub.CaptureException(err)
		}
	}

	return handleCustomError(ctx, &re)
}
