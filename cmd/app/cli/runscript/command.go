package runscript

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/groupby/cmd/app/cli"
	script_generatecats "exusiai.dev/groupby/cmd/app/cli/runscript/scripts/generatecats"
	script_migrate "exusiai.dev/groupby/cmd/app/cli/runscript/scripts/migrate"
)

func depsFn[T any]() func() (T, error) {
	return func() (T, error) {
		var deps T
		err := cliapp.Start(fx.Populate(&deps))
		return deps, err
	}
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: []*cli.Command{
			script_migrate.Command(depsFn[script_migrate.CommandDeps]()),
			script_generatecats.Command(depsFn[script_generatecats.CommandDeps]()),
		},
	}
}
