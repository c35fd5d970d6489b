package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/metrics"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	NoWait bool `name:"no-wait" help:"Do not check compile results; exit successfully once every compile was launched"`

	runner process.Runner `kong:"-"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return b.run(ctx, root)
}

func (b *BuildCmd) run(ctx context.Context, root *CLI) error {
	a, err := setup(ctx, root, metrics.NoopRecorder{}, b.runner)
	if err != nil {
		return err
	}
	defer a.Close()

	report, err := a.pipeline.Run(ctx)
	if err != nil {
		return err
	}
	log := slog.With(logfields.BuildID(report.BuildID))

	if b.NoWait {
		log.Info("Compiles launched", slog.Int("launches", len(report.Handles)))
		return nil
	}

	summary, err := report.Wait(ctx)
	log.Info("Build finished",
		logfields.Files(report.Files),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed))
	if err != nil {
		return err
	}
	fmt.Printf("Compiled %d Elm module(s)\n", summary.Succeeded)
	return nil
}
