package script_generatecats

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/groupby/internal/service"
)

type CommandDeps struct {
	fx.In

	Generator *service.CatGenerator
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "generate-cats",
		Description: "generate sample cat data for the demo listing",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "count",
				Value: 100,
				Usage: "number of cats to generate",
			},
			&cli.BoolFlag{
				Name:  "clear",
				Usage: "delete existing cats before generating new ones",
			},
			&cli.Int64Flag{
				Name:  "seed",
				Usage: "seed of the random generator, for reproducible data",
			},
		},
		Action: func(ctx *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(ctx, deps)
		},
	}
}
