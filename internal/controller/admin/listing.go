package admin

import (
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/fx"

	"exusiai.dev/groupby/internal/listing"
	"exusiai.dev/groupby/internal/pkg/flog"
	"exusiai.dev/groupby/internal/server/svr"
	"exusiai.dev/groupby/internal/service"
)

type Listing struct {
	fx.In

	Registry          *listing.Registry
	ChangeListService *service.ChangeList
}

func RegisterListing(admin *svr.Admin, c Listing) {
	admin.Get("/listings", c.GetListings)
	admin.Get("/listings/:listing", c.GetChangeList)
	admin.Get("/listings/:listing/filters", c.GetFilters)
}

func (c *Listing) GetListings(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"listings": c.Registry.Index(),
	})
}

// GetChangeList renders the change list of a listing. The response carries "grouped": true
// when the groupby query parameter selected a valid grouping.
func (c *Listing) GetChangeList(ctx *fiber.Ctx) error {
	name := ctx.Params("listing")
	params := queryParams(ctx)

	view, err := c.ChangeListService.Render(ctx.UserContext(), name, params)
	if err != nil {
		return err
	}

	flog.DebugFrom(ctx).
		Str("evt.name", "admin.changelist.rendered").
		Str("listing", name).
		Str("groupby", params.Get("groupby")).
		Msg("change list rendered")

	return ctx.JSON(view)
}

func (c *Listing) GetFilters(ctx *fiber.Ctx) error {
	specs, err := c.ChangeListService.Filters(ctx.Params("listing"), queryParams(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(fiber.Map{
		"filters": specs,
	})
}

func queryParams(ctx *fiber.Ctx) url.Values {
	params := url.Values{}
	ctx.Request().URI().QueryArgs().VisitAll(func(key, value []byte) {
		params.Add(string(key), string(value))
	})
	return params
}
