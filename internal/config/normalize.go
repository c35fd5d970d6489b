package config

import (
	"fmt"
	"strings"
)

// NormalizationResult captures adjustments & warnings from normalization pass.
type NormalizationResult struct{ Warnings []string }

// NormalizeConfig canonicalizes enumerated and bounded fields in place before
// defaults are applied.
func NormalizeConfig(c *Config) (*NormalizationResult, error) {
	if c == nil {
		return nil, fmt.Errorf("config nil")
	}
	res := &NormalizationResult{}
	normalizeLogging(&c.Logging, res)
	normalizeElmSettings(c.Plugins.ElmBrunch, res)
	c.Paths.Watched = normalizeWatched(c.Paths.Watched, res)
	normalizeNotify(&c.Notify, res)
	return res, nil
}

func normalizeLogging(l *LoggingConfig, res *NormalizationResult) {
	if raw := strings.TrimSpace(string(l.Level)); raw != "" {
		lvl, err := logLevelNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("logging.level", raw, string(LogLevelInfo)))
		} else if lvl != l.Level {
			res.Warnings = append(res.Warnings, warnChanged("logging.level", l.Level, lvl))
		}
		l.Level = NormalizeLogLevel(raw)
	}
	if raw := strings.TrimSpace(string(l.Format)); raw != "" {
		f, err := logFormatNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("logging.format", raw, string(LogFormatText)))
		} else if f != l.Format {
			res.Warnings = append(res.Warnings, warnChanged("logging.format", l.Format, f))
		}
		l.Format = NormalizeLogFormat(raw)
	}
}

func normalizeElmSettings(s *ElmBrunchSettings, res *NormalizationResult) {
	if s == nil {
		return
	}
	if s.MaxConcurrency < 0 {
		res.Warnings = append(res.Warnings, warnChanged("plugins.elmBrunch.maxConcurrency", s.MaxConcurrency, 0))
		s.MaxConcurrency = 0
	}
}

func normalizeNotify(n *NotifyConfig, res *NormalizationResult) {
	if raw := strings.TrimSpace(string(n.RetryBackoff)); raw != "" {
		m, err := retryBackoffNormalizer.NormalizeWithError(raw)
		if err != nil {
			res.Warnings = append(res.Warnings, warnUnknown("notify.retryBackoff", raw, string(RetryBackoffExponential)))
		} else if m != n.RetryBackoff {
			res.Warnings = append(res.Warnings, warnChanged("notify.retryBackoff", n.RetryBackoff, m))
		}
		n.RetryBackoff = NormalizeRetryBackoff(raw)
	}
	if n.ConnectRetries < 0 {
		res.Warnings = append(res.Warnings, warnChanged("notify.connectRetries", n.ConnectRetries, 0))
		n.ConnectRetries = 0
	}
}

// normalizeWatched trims and dedupes watched paths, keeping their order.
func normalizeWatched(in []string, res *NormalizationResult) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		t := strings.TrimSpace(v)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) != len(in) {
		res.Warnings = append(res.Warnings, fmt.Sprintf("normalized paths.watched list (%d -> %d entries)", len(in), len(out)))
	}
	return out
}

func warnChanged(field string, from, to any) string {
	return fmt.Sprintf("normalized %s from '%v' to '%v'", field, from, to)
}

func warnUnknown(field, value, def string) string {
	return fmt.Sprintf("unknown %s '%s', defaulting to %s", field, value, def)
}
