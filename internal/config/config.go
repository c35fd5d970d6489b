// Package config loads the elmbrunch configuration file and derives the
// normalized settings the Elm compiler plugin runs with.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
)

// Config is the host configuration: the shape a build tool hands to its plugins.
type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Plugins PluginsConfig `yaml:"plugins"`
	Logging LoggingConfig `yaml:"logging"`
	Watch   WatchConfig   `yaml:"watch"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// PathsConfig describes where the host reads sources and writes assets.
type PathsConfig struct {
	Public  string   `yaml:"public"`
	Watched []string `yaml:"watched,omitempty"`
}

// PluginsConfig holds per-plugin settings blocks.
type PluginsConfig struct {
	ElmBrunch *ElmBrunchSettings `yaml:"elmBrunch,omitempty"`
}

// LoggingConfig selects the slog level and handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// WatchConfig controls watch mode. Durations use time.ParseDuration syntax.
type WatchConfig struct {
	Debounce string `yaml:"debounce,omitempty"`
	Interval string `yaml:"interval,omitempty"`
}

// NotifyConfig enables publishing compile results to NATS when NATSURL is set.
type NotifyConfig struct {
	NATSURL string `yaml:"natsURL,omitempty"`
	Subject string `yaml:"subject,omitempty"`
	// ConnectRetries is how many times a failed connection is retried.
	ConnectRetries int              `yaml:"connectRetries,omitempty"`
	RetryBackoff   RetryBackoffMode `yaml:"retryBackoff,omitempty"`
}

// DebounceDuration returns the parsed watch debounce window.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return DefaultDebounce
	}
	return d
}

// IntervalDuration returns the periodic pass interval, or 0 when disabled.
func (w WatchConfig) IntervalDuration() time.Duration {
	if w.Interval == "" {
		return 0
	}
	d, err := time.ParseDuration(w.Interval)
	if err != nil || d <= 0 {
		return 0
	}
	return d
}

// Load reads, expands and validates the configuration file at configPath.
func Load(configPath string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Debug("No .env file loaded", "error", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				WithContext("hint", "run 'elmbrunch init' to create one").
				Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", configPath).
			Build()
	}

	return Parse(data)
}

// Parse decodes YAML configuration content, expanding ${VAR} references first.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}

	res, err := NormalizeConfig(&cfg)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		slog.Warn("Configuration normalized", "detail", w)
	}

	applyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes an example configuration file. Compiles run inside elmFolder,
// so the example output folder is relative to it.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s", configPath)).
			WithContext("hint", "use --force to overwrite").
			Build()
	}

	mainModules := []string{"Main.elm"}
	example := Config{
		Paths: PathsConfig{
			Public:  DefaultPublicPath,
			Watched: []string{"app"},
		},
		Plugins: PluginsConfig{
			ElmBrunch: &ElmBrunchSettings{
				OutputFolder: "../public/js",
				MainModules:  &mainModules,
				ElmFolder:    "app",
			},
		},
		Logging: LoggingConfig{Level: LogLevelInfo, Format: LogFormatText},
		Watch:   WatchConfig{Debounce: DefaultDebounce.String()},
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
