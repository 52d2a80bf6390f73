package script_generatecats

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/groupby/internal/service"
)

func run(ctx *cli.Context, deps CommandDeps) error {
	count := ctx.Int("count")
	if count < 0 {
		return fmt.Errorf("count must not be negative, got %d", count)
	}

	gen := deps.Generator
	if ctx.IsSet("seed") {
		gen = gen.WithSeed(ctx.Int64("seed"))
	}

	log.Info().
		Str("evt.name", "script.generatecats.start").
		Int("count", count).
		Bool("clear", ctx.Bool("clear")).
		Msg("running script")

	res, err := gen.Generate(ctx.Context, service.GenerateOptions{
		Count: count,
		Clear: ctx.Bool("clear"),
	})
	if err != nil {
		return errors.Wrap(err, "failed to generate cats")
	}

	if ctx.Bool("clear") {
		fmt.Fprintf(ctx.App.Writer, "Deleted %d existing cats\n", res.Deleted)
	}
	fmt.Fprintf(ctx.App.Writer, "Successfully created %d cats.\n", res.Created)

	return nil
}
