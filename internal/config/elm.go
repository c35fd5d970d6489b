package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/elmbrunch/internal/foundation"
)

// ElmBrunchSettings is the raw plugins.elmBrunch block. MainModules is a
// pointer so an omitted key stays distinguishable from an empty list.
type ElmBrunchSettings struct {
	OutputFolder   string    `yaml:"outputFolder,omitempty"`
	MainModules    *[]string `yaml:"mainModules,omitempty"`
	ElmFolder      string    `yaml:"elmFolder,omitempty"`
	MaxConcurrency int       `yaml:"maxConcurrency,omitempty"`
}

// PluginConfig is the flat configuration the Elm compiler plugin runs with.
// It is derived once and never mutated.
type PluginConfig struct {
	OutputFolder   string
	MainModules    foundation.Option[[]string]
	ElmFolder      foundation.Option[string]
	MaxConcurrency int
}

// NormalizeElm derives the plugin configuration from the host configuration.
//
//   - OutputFolder: explicit value, else <paths.public>/js.
//   - MainModules: explicit value when the key is present (empty lists kept), else None.
//   - ElmFolder: explicit non-empty value, else None.
//
// It never fails; a missing mainModules list surfaces when a build pass runs.
func NormalizeElm(c *Config) PluginConfig {
	var s ElmBrunchSettings
	if c.Plugins.ElmBrunch != nil {
		s = *c.Plugins.ElmBrunch
	}

	out := PluginConfig{
		OutputFolder: s.OutputFolder,
		ElmFolder:    foundation.Some(s.ElmFolder).Filter(nonEmpty),
	}
	if out.OutputFolder == "" {
		out.OutputFolder = filepath.Join(c.Paths.Public, "js")
	}
	if s.MainModules != nil {
		modules := make([]string, len(*s.MainModules))
		copy(modules, *s.MainModules)
		out.MainModules = foundation.Some(modules)
	}
	if s.MaxConcurrency > 0 {
		out.MaxConcurrency = s.MaxConcurrency
	}
	return out
}

func nonEmpty(s string) bool { return s != "" }
