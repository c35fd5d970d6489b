package commands

import (
	"context"
	"log/slog"
	"os"

	"git.home.luguber.info/inful/elmbrunch/internal/config"
	"git.home.luguber.info/inful/elmbrunch/internal/elm"
	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/host"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/metrics"
	"git.home.luguber.info/inful/elmbrunch/internal/notify"
	"git.home.luguber.info/inful/elmbrunch/internal/plugin"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
	"git.home.luguber.info/inful/elmbrunch/internal/retry"
)

// app is the wired host: configuration, dispatcher, plugins and pipeline.
type app struct {
	cfg        *config.Config
	dispatcher *process.Dispatcher
	pipeline   *host.Pipeline
	publisher  *notify.Publisher
}

// setup loads the configuration at root.Config and wires every component.
// runner may be nil to run real processes.
func setup(ctx context.Context, root *CLI, recorder metrics.Recorder, runner process.Runner) (*app, error) {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(cfg.Logging.NewLogger(os.Stderr, root.Verbose))

	pc := config.NormalizeElm(cfg)
	opts := []process.DispatcherOption{
		process.WithMaxConcurrency(pc.MaxConcurrency),
		process.WithRecorder(recorder),
		process.WithObserver(elm.LogResult),
	}

	a := &app{cfg: cfg}
	if cfg.Notify.NATSURL != "" {
		pub, err := notify.Connect(ctx, cfg.Notify.NATSURL, cfg.Notify.Subject, retry.FromNotify(cfg.Notify))
		if err != nil {
			slog.Warn("Compile notifications disabled", logfields.Error(err))
		} else {
			a.publisher = pub
			opts = append(opts, process.WithObserver(pub.Observe))
		}
	}

	a.dispatcher = process.NewDispatcher(runner, opts...)

	registry := plugin.NewRegistry()
	compiler := elm.NewCompiler(pc, a.dispatcher, elm.WithRecorder(recorder))
	if err := registry.Register(compiler); err != nil {
		a.Close()
		return nil, ferrors.WrapError(err, ferrors.CategoryInternal, "failed to register compiler plugin").Build()
	}
	slog.Debug("Plugin registered",
		logfields.Plugin(compiler.Metadata().String()),
		slog.Int("plugins", registry.Count()))

	a.pipeline = host.NewPipeline(registry, cfg.Paths.Watched)
	return a, nil
}

// runPass runs one pass and waits for its launches, logging the outcome.
// Used by watch mode, where a failed pass must not stop the loop.
func (a *app) runPass(ctx context.Context) {
	report, err := a.pipeline.Run(ctx)
	if err != nil {
		slog.Error("Build pass failed", logfields.BuildID(report.BuildID), logfields.Error(err))
		return
	}
	summary, err := report.Wait(ctx)
	attrs := []any{
		logfields.BuildID(report.BuildID),
		slog.Int("succeeded", summary.Succeeded),
		slog.Int("failed", summary.Failed),
	}
	if err != nil {
		slog.Warn("Build pass finished with errors", attrs...)
		return
	}
	slog.Info("Build pass finished", attrs...)
}

// Close waits for running compiles and releases the NATS connection.
func (a *app) Close() {
	if a.dispatcher != nil {
		a.dispatcher.Wait()
	}
	if a.publisher != nil {
		a.publisher.Close()
	}
}
