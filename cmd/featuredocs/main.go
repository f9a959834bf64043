package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/featuredocs/cmd/featuredocs/commands"
	"git.home.luguber.info/inful/featuredocs/internal/foundation/errors"
	"git.home.luguber.info/inful/featuredocs/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := commands.NewGlobal()
	parser := kong.Must(cli,
		kong.Name("featuredocs"),
		kong.Description("Generate feature documentation from a screenshot manifest and keep package.json versions aligned."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
		kong.Bind(global),
	)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Unknown flags and missing arguments exit with the usage code.
		errors.NewCLIErrorAdapter(false, nil).
			HandleError(errors.WrapError(err, errors.CategoryValidation, "invalid command line").Build())
		return
	}

	if err := ctx.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, global.Logger).HandleError(err)
	}
}
