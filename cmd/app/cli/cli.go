package cli

import (
	"context"

	"go.uber.org/fx"

	"exusiai.dev/groupby/internal/app"
	"exusiai.dev/groupby/internal/app/appcontext"
)

// Start builds the application without the HTTP server and starts it, so that module can
// populate the dependencies of a script.
func Start(module fx.Option) error {
	return app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background())
}
