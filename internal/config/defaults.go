package config

import "time"

const (
	DefaultPublicPath    = "public"
	DefaultNotifySubject = "elmbrunch.compile"
	DefaultDebounce      = 300 * time.Millisecond
)

// DefaultWatched is used when paths.watched is empty.
var DefaultWatched = []string{"app"}

func applyDefaults(c *Config) {
	if c.Paths.Public == "" {
		c.Paths.Public = DefaultPublicPath
	}
	if len(c.Paths.Watched) == 0 {
		c.Paths.Watched = append([]string(nil), DefaultWatched...)
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = DefaultDebounce.String()
	}
	if c.Notify.NATSURL != "" && c.Notify.Subject == "" {
		c.Notify.Subject = DefaultNotifySubject
	}
	if c.Notify.RetryBackoff == "" {
		c.Notify.RetryBackoff = RetryBackoffExponential
	}
}
