// Package plugin defines the contract between the build host and its
// compiler plugins. A compiler plugin is bound to one source file extension
// and exposes two hooks: Compile, called once per matched file, and
// OnCompile, called once per build pass after every Compile call.
package plugin

import (
	"context"
	"fmt"
	"strings"

	"git.home.luguber.info/inful/elmbrunch/internal/process"
)

// CompilerPlugin is implemented by plugins that turn source files into assets.
type CompilerPlugin interface {
	// Metadata returns the plugin's identity and the extension it handles.
	Metadata() PluginMetadata

	// Compile is the per-file hook. A nil output means the plugin produced
	// nothing for this file.
	Compile(ctx context.Context, file SourceFile) (*CompileOutput, error)

	// OnCompile is the aggregate hook, called once per build pass with every
	// file the host matched for this plugin. It returns one handle per
	// external process it launched; it must not wait for them.
	OnCompile(ctx context.Context, files []SourceFile) ([]*process.Handle, error)
}

// SourceFile is a file matched by the host for a plugin.
type SourceFile struct {
	Path    string
	Content []byte
}

// CompileOutput is what a per-file hook produced.
type CompileOutput struct {
	Data []byte
}

// PluginMetadata describes a plugin's identity and capabilities.
type PluginMetadata struct {
	// Name is the unique plugin identifier (e.g., "elm-brunch").
	Name string

	// Version is the semantic version (e.g., "v0.4.0").
	Version string

	// Type identifies the plugin category.
	Type PluginType

	// Extension is the source file extension the plugin is bound to, without the dot.
	Extension string

	// Target is the asset type the plugin produces (e.g., "javascript").
	Target string

	Description string
}

// String returns a human-readable representation of the plugin metadata.
func (m PluginMetadata) String() string {
	return fmt.Sprintf("%s@%s (%s, .%s)", m.Name, m.Version, m.Type, m.Extension)
}

// Validate checks if the plugin metadata is valid.
func (m PluginMetadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if !m.Type.IsValid() {
		return fmt.Errorf("invalid plugin type: %s", m.Type)
	}
	if m.Extension == "" || strings.HasPrefix(m.Extension, ".") {
		return fmt.Errorf("plugin extension must be set without a leading dot: %q", m.Extension)
	}
	return nil
}

// Matches reports whether path has the plugin's extension.
func (m PluginMetadata) Matches(path string) bool {
	return strings.HasSuffix(path, "."+m.Extension)
}
