package config

import (
	"time"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
)

// Validate checks fields that cannot be coerced into something sensible.
// It does not require plugins.elmBrunch.mainModules; that is reported by the
// compiler plugin when a build pass runs.
func Validate(c *Config) error {
	if c.Watch.Debounce != "" {
		if d, err := time.ParseDuration(c.Watch.Debounce); err != nil || d <= 0 {
			return ferrors.ConfigError("watch.debounce must be a positive duration").
				WithContext("value", c.Watch.Debounce).
				Build()
		}
	}
	if c.Watch.Interval != "" {
		if d, err := time.ParseDuration(c.Watch.Interval); err != nil || d <= 0 {
			return ferrors.ConfigError("watch.interval must be a positive duration").
				WithContext("value", c.Watch.Interval).
				Build()
		}
	}
	return nil
}
