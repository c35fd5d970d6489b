package plugin

import "fmt"

// PluginType identifies the category of plugin.
type PluginType string

const (
	// PluginTypeCompiler turns source files into assets.
	PluginTypeCompiler PluginType = "compiler"
)

// IsValid returns true if the plugin type is recognized.
func (t PluginType) IsValid() bool {
	return t == PluginTypeCompiler
}

// String returns the string representation of the plugin type.
func (t PluginType) String() string {
	return string(t)
}

// Hook names used in errors and logs.
const (
	HookCompile   = "compile"
	HookOnCompile = "onCompile"
)

// PluginError represents an error that occurred within a plugin hook.
type PluginError struct {
	// PluginName identifies which plugin failed.
	PluginName string

	// Hook is the hook that was running.
	Hook string

	// Path is the file being processed, when the hook is per-file.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *PluginError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("plugin %s failed during %s of %s: %v", e.PluginName, e.Hook, e.Path, e.Err)
	}
	return fmt.Sprintf("plugin %s failed during %s: %v", e.PluginName, e.Hook, e.Err)
}

// Unwrap returns the underlying error for error inspection.
func (e *PluginError) Unwrap() error {
	return e.Err
}

// NewPluginError creates a new plugin error.
func NewPluginError(pluginName, hook, path string, err error) *PluginError {
	return &PluginError{
		PluginName: pluginName,
		Hook:       hook,
		Path:       path,
		Err:        err,
	}
}
