package errors

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"not found", NotFoundError("no config").Build(), 3},
		{"config", ConfigError("bad config").Build(), 7},
		{"network", NetworkError("nats down").Build(), 8},
		{"internal", InternalError("bug").Build(), 10},
		{"compiler", CompilerError("elm make failed").Build(), 11},
		{"wrapped compiler", fmt.Errorf("pass: %w", CompilerError("elm make failed").Build()), 11},
		{"runtime", RuntimeError("watcher").Build(), 12},
		{"unclassified", errors.New("unknown"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	err := ConfigError("mainModules is not configured").
		WithContext("hint", "set plugins.elmBrunch.mainModules").
		Build()

	quiet := NewCLIErrorAdapter(false, slog.Default())
	assert.Equal(t, "Error: mainModules is not configured\nHint: set plugins.elmBrunch.mainModules", quiet.FormatError(err))

	verbose := NewCLIErrorAdapter(true, slog.Default())
	assert.Equal(t, "Error: [config:fatal] mainModules is not configured", verbose.FormatError(err))

	assert.Equal(t, "Error: plain", quiet.FormatError(errors.New("plain")))
	assert.Empty(t, quiet.FormatError(nil))
}

func TestCLIErrorAdapter_HandleError(t *testing.T) {
	var logs, out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(&logs, nil)))
	adapter.out = &out
	code := -1
	adapter.exit = func(c int) { code = c }

	adapter.HandleError(CompilerError("elm make failed").WithContext("source", "Main.elm").Build())
	assert.Equal(t, 11, code)
	assert.Equal(t, "Error: elm make failed\n", out.String())
	assert.Empty(t, logs.String(), "non-fatal errors are not logged in quiet mode")

	out.Reset()
	adapter.HandleError(ConfigError("bad config").Build())
	assert.Equal(t, 7, code)
	assert.Contains(t, logs.String(), "category=config")

	code = -1
	adapter.HandleError(nil)
	assert.Equal(t, -1, code)
}
