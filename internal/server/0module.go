package server

import (
	"go.uber.org/fx"

	"exusiai.dev/groupby/internal/server/httpserver"
	"exusiai.dev/groupby/internal/server/svr"
)

func Module() fx.Option {
	return fx.Module("server",
		fx.Provide(httpserver.Create),
		fx.Provide(svr.CreateEndpointGroups))
}
