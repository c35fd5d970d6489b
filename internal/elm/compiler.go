package elm

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/elmbrunch/internal/config"
	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/metrics"
	"git.home.luguber.info/inful/elmbrunch/internal/plugin"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
	"git.home.luguber.info/inful/elmbrunch/internal/version"
)

const (
	// PluginName is the registry name of the Elm compiler.
	PluginName = "elm-brunch"
	// Extension is the source extension the plugin is bound to.
	Extension = "elm"
	// Target is the asset type the plugin produces.
	Target = "javascript"
)

// Launcher starts commands asynchronously. *process.Dispatcher implements it.
type Launcher interface {
	Launch(ctx context.Context, cmd process.Command) *process.Handle
}

// Compiler is the Elm compiler plugin.
type Compiler struct {
	cfg      config.PluginConfig
	launcher Launcher
	recorder metrics.Recorder
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithRecorder counts aggregate-hook calls as build passes.
func WithRecorder(r metrics.Recorder) Option {
	return func(c *Compiler) {
		if r != nil {
			c.recorder = r
		}
	}
}

// NewCompiler creates the plugin for cfg. Launches go through launcher.
func NewCompiler(cfg config.PluginConfig, launcher Launcher, opts ...Option) *Compiler {
	c := &Compiler{cfg: cfg, launcher: launcher, recorder: metrics.NoopRecorder{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Metadata implements plugin.CompilerPlugin.
func (c *Compiler) Metadata() plugin.PluginMetadata {
	return plugin.PluginMetadata{
		Name:        PluginName,
		Version:     version.Version,
		Type:        plugin.PluginTypeCompiler,
		Extension:   Extension,
		Target:      Target,
		Description: "Compiles Elm main modules with elm make",
	}
}

// Compile implements plugin.CompilerPlugin. Elm sources are compiled through
// their main modules, so single files produce nothing.
func (c *Compiler) Compile(context.Context, plugin.SourceFile) (*plugin.CompileOutput, error) {
	return nil, nil
}

// OnCompile implements plugin.CompilerPlugin. It launches one elm make per
// main module, in configuration order, and returns without waiting.
func (c *Compiler) OnCompile(ctx context.Context, _ []plugin.SourceFile) ([]*process.Handle, error) {
	modules, ok := c.cfg.MainModules.Get()
	if !ok {
		return nil, ferrors.ConfigError("mainModules is not configured").
			WithContext("plugin", PluginName).
			WithContext("hint", "set plugins.elmBrunch.mainModules to the Elm entry points to compile").
			Build()
	}

	c.recorder.IncBuildPass()

	handles := make([]*process.Handle, 0, len(modules))
	for _, src := range modules {
		out := OutputFile(c.cfg.OutputFolder, src)
		cmd := CompileCommand(src, c.cfg.ElmFolder, out)

		attrs := []any{logfields.Source(src), logfields.Output(out)}
		if folder, ok := c.cfg.ElmFolder.Get(); ok {
			attrs = append(attrs, logfields.Folder(folder))
		}
		slog.InfoContext(ctx, Describe(src, c.cfg.ElmFolder, out), attrs...)

		handles = append(handles, c.launcher.Launch(ctx, cmd))
	}
	return handles, nil
}

// LogResult is a process.Observer that logs every compile outcome. Failures
// are logged at error level together with the compiler's stderr.
func LogResult(res process.Result) {
	attrs := []any{
		logfields.Source(res.Command.Label(logfields.KeySource)),
		logfields.Output(res.Command.Label(logfields.KeyOutput)),
		logfields.Command(res.Command.Line),
		logfields.ExitCode(res.ExitCode),
		logfields.Duration(res.Duration),
	}
	if folder, ok := res.Command.Dir.Get(); ok {
		attrs = append(attrs, logfields.Folder(folder))
	}
	if res.BuildID != "" {
		attrs = append(attrs, logfields.BuildID(res.BuildID))
	}
	if res.Success() {
		slog.Info("Elm compile finished", attrs...)
		return
	}
	attrs = append(attrs, logfields.Error(res.Err), logfields.Stderr(res.Stderr))
	slog.Error("Elm compile failed", attrs...)
}

var _ plugin.CompilerPlugin = (*Compiler)(nil)
