package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/groupby/cmd/app/cli/runscript"
	"exusiai.dev/groupby/cmd/app/server"
	"exusiai.dev/groupby/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "groupby",
		Description: "Admin listing backend with grouped aggregate reports. Built with Go, fiber, bun and go.uber.org/fx.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			runscript.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
