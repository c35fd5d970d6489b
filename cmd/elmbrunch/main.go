package main

import (
	"log/slog"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/elmbrunch/cmd/elmbrunch/commands"
	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/version"
)

func main() {
	cli := &commands.CLI{}
	parser := kong.Parse(cli,
		kong.Name("elmbrunch"),
		kong.Description("Compile Elm main modules to JavaScript assets."),
		kong.Vars{"version": version.String()},
		kong.UsageOnError(),
	)

	err := parser.Run(&commands.Global{Logger: slog.Default()}, cli)
	ferrors.NewCLIErrorAdapter(cli.Verbose, slog.Default()).HandleError(err)
}
