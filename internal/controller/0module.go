package controller

import (
	"go.uber.org/fx"

	controlleradmin "exusiai.dev/groupby/internal/controller/admin"
	controllermeta "exusiai.dev/groupby/internal/controller/meta"
)

func Module() fx.Option {
	return fx.Module("controller",
		// Controllers (admin listings)
		controlleradmin.Module(),

		// Controllers (meta)
		controllermeta.Module(),
	)
}
