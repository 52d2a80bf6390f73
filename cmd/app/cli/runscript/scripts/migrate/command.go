package script_migrate

import (
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/groupby/internal/repo"
)

type CommandDeps struct {
	fx.In

	CatRepo *repo.Cat
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "migrate",
		Description: "create the tables of the demo listing if they do not exist yet",
		Action: func(ctx *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			if err := deps.CatRepo.CreateTable(ctx.Context); err != nil {
				return errors.Wrap(err, "failed to migrate")
			}
			log.Info().Str("evt.name", "script.migrate.done").Msg("script finished")
			return nil
		},
	}
}
