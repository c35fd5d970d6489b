package host

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
	"git.home.luguber.info/inful/elmbrunch/internal/plugin"
	"git.home.luguber.info/inful/elmbrunch/internal/process"
)

// Pipeline runs build passes over a fixed set of watched paths.
// Passes are serialized.
type Pipeline struct {
	registry *plugin.Registry
	watched  []string
	mu       sync.Mutex
	newID    func() string
}

// NewPipeline creates a pipeline scanning watched with the plugins in registry.
func NewPipeline(registry *plugin.Registry, watched []string) *Pipeline {
	roots := make([]string, len(watched))
	copy(roots, watched)
	return &Pipeline{
		registry: registry,
		watched:  roots,
		newID:    func() string { return uuid.NewString() },
	}
}

// Watched returns the roots the pipeline scans.
func (p *Pipeline) Watched() []string {
	out := make([]string, len(p.watched))
	copy(out, p.watched)
	return out
}

// Extensions returns the source extensions the registered plugins handle.
func (p *Pipeline) Extensions() []string {
	return p.registry.Extensions()
}

// Accepts reports whether any registered plugin handles path.
func (p *Pipeline) Accepts(path string) bool {
	return len(p.registry.ForPath(path)) > 0
}

// Run executes one build pass. It returns as soon as every plugin's
// aggregate hook has returned; launched processes may still be running.
func (p *Pipeline) Run(ctx context.Context) (*PassReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := &PassReport{BuildID: p.newID(), StartedAt: time.Now()}
	log := slog.With(logfields.BuildID(report.BuildID))
	ctx = process.WithBuildID(ctx, report.BuildID)

	paths, err := discover(p.watched, p.Accepts)
	if err != nil {
		return report, err
	}
	report.Files = len(paths)
	log.Debug("Build pass started", logfields.Files(len(paths)))

	compilers := p.registry.List()
	byPlugin := make(map[string][]plugin.SourceFile, len(compilers))

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return report, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read source file").
				WithContext("path", path).
				Build()
		}
		file := plugin.SourceFile{Path: path, Content: content}

		for _, c := range p.registry.ForPath(path) {
			name := c.Metadata().Name
			if _, err := c.Compile(ctx, file); err != nil {
				return report, pluginFailure(name, plugin.HookCompile, path, err)
			}
			byPlugin[name] = append(byPlugin[name], file)
		}
	}

	for _, c := range compilers {
		name := c.Metadata().Name
		handles, err := c.OnCompile(ctx, byPlugin[name])
		report.Handles = append(report.Handles, handles...)
		if err != nil {
			return report, pluginFailure(name, plugin.HookOnCompile, "", err)
		}
		log.Debug("Aggregate hook returned", logfields.Plugin(name), logfields.Hook(plugin.HookOnCompile), slog.Int("launches", len(handles)))
	}

	return report, nil
}

// pluginFailure wraps a hook error. Classified errors keep their category so
// the CLI maps them to the right exit code.
func pluginFailure(name, hook, path string, err error) error {
	perr := plugin.NewPluginError(name, hook, path, err)
	if _, ok := ferrors.AsClassified(err); ok {
		return perr
	}
	return ferrors.WrapError(perr, ferrors.CategoryPlugin, fmt.Sprintf("%s hook failed", hook)).
		WithContext("plugin", name).
		Build()
}
