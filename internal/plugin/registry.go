package plugin

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages compiler plugin registration and lookup.
type Registry struct {
	mu      sync.RWMutex
	plugins map[string]CompilerPlugin
}

// NewRegistry creates a new empty plugin registry.
func NewRegistry() *Registry {
	return &Registry{
		plugins: make(map[string]CompilerPlugin),
	}
}

// Register adds a plugin to the registry.
// Returns an error if a plugin with the same name already exists.
func (r *Registry) Register(p CompilerPlugin) error {
	if p == nil {
		return fmt.Errorf("cannot register nil plugin")
	}

	metadata := p.Metadata()
	if err := metadata.Validate(); err != nil {
		return fmt.Errorf("invalid plugin metadata: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, exists := r.plugins[metadata.Name]; exists {
		return fmt.Errorf("plugin %s already registered as %s", metadata.Name, existing.Metadata())
	}
	r.plugins[metadata.Name] = p
	return nil
}

// List returns all registered plugins ordered by name.
func (r *Registry) List() []CompilerPlugin {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.plugins))
	for name := range r.plugins {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]CompilerPlugin, 0, len(names))
	for _, name := range names {
		result = append(result, r.plugins[name])
	}
	return result
}

// ForPath returns the plugins bound to path's extension, ordered by name.
func (r *Registry) ForPath(path string) []CompilerPlugin {
	var result []CompilerPlugin
	for _, p := range r.List() {
		if p.Metadata().Matches(path) {
			result = append(result, p)
		}
	}
	return result
}

// Extensions returns the distinct extensions handled by registered plugins.
func (r *Registry) Extensions() []string {
	seen := make(map[string]struct{})
	var exts []string
	for _, p := range r.List() {
		ext := p.Metadata().Extension
		if _, ok := seen[ext]; ok {
			continue
		}
		seen[ext] = struct{}{}
		exts = append(exts, ext)
	}
	return exts
}

// Count returns the number of registered plugins.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.plugins)
}
