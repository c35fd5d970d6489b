package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "elmbrunch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
paths:
  public: dist
plugins:
  elmBrunch:
    mainModules: [app/Main.elm]
    elmFolder: app
logging:
  level: DEBUG
  format: json
watch:
  debounce: 1s
  interval: 5m
notify:
  natsURL: nats://localhost:4222
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "dist", cfg.Paths.Public)
	assert.Equal(t, []string{"app"}, cfg.Paths.Watched)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.Equal(t, LogFormatJSON, cfg.Logging.Format)
	assert.Equal(t, "1s", cfg.Watch.Debounce)
	assert.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)

	pc := NormalizeElm(cfg)
	assert.Equal(t, filepath.Join("dist", "js"), pc.OutputFolder)
	assert.Equal(t, "app", pc.ElmFolder.Unwrap())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "plugins: {}\n"))
	require.NoError(t, err)

	assert.Equal(t, DefaultPublicPath, cfg.Paths.Public)
	assert.Equal(t, DefaultWatched, cfg.Paths.Watched)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, DefaultDebounce, cfg.Watch.DebounceDuration())
	assert.Zero(t, cfg.Watch.IntervalDuration())
	assert.Empty(t, cfg.Notify.Subject)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("ELM_OUT", "build/js")
	cfg, err := Load(writeConfig(t, "plugins:\n  elmBrunch:\n    outputFolder: ${ELM_OUT}\n"))
	require.NoError(t, err)
	assert.Equal(t, "build/js", NormalizeElm(cfg).OutputFolder)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ELM_DIR=from-file\nELM_PUBLIC=www\n"), 0o600))
	t.Chdir(dir)
	t.Setenv("ELM_DIR", "from-env")
	t.Setenv("ELM_PUBLIC", "")
	require.NoError(t, os.Unsetenv("ELM_PUBLIC"))

	path := filepath.Join(dir, "elmbrunch.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths:\n  public: ${ELM_PUBLIC}\nplugins:\n  elmBrunch:\n    elmFolder: ${ELM_DIR}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "www", cfg.Paths.Public)
	assert.Equal(t, "from-env", NormalizeElm(cfg).ElmFolder.Unwrap())
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryNotFound))
	})

	t.Run("invalid yaml", func(t *testing.T) {
		_, err := Load(writeConfig(t, "paths: [unterminated"))
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("bad debounce", func(t *testing.T) {
		_, err := Load(writeConfig(t, "watch:\n  debounce: soon\n"))
		require.Error(t, err)
		assert.True(t, ferrors.HasCategory(err, ferrors.CategoryConfig))
	})

	t.Run("bad interval", func(t *testing.T) {
		_, err := Load(writeConfig(t, "watch:\n  interval: -1m\n"))
		require.Error(t, err)
	})
}

func TestNormalizeConfig(t *testing.T) {
	cfg := &Config{
		Paths:   PathsConfig{Watched: []string{" app ", "app", "", "vendor"}},
		Plugins: PluginsConfig{ElmBrunch: &ElmBrunchSettings{MaxConcurrency: -3}},
		Logging: LoggingConfig{Level: "Warning", Format: "yaml"},
	}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"app", "vendor"}, cfg.Paths.Watched)
	assert.Zero(t, cfg.Plugins.ElmBrunch.MaxConcurrency)
	assert.Equal(t, LogLevelWarn, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Len(t, res.Warnings, 4)

	_, err = NormalizeConfig(nil)
	assert.Error(t, err)
}

func TestLoggingConfig(t *testing.T) {
	assert.Equal(t, slog.LevelWarn, LoggingConfig{Level: LogLevelWarn}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LoggingConfig{}.SlogLevel())

	var sb bytes.Buffer
	logger := LoggingConfig{Level: LogLevelError, Format: LogFormatJSON}.NewLogger(&sb, true)
	logger.Debug("hello")
	assert.Contains(t, sb.String(), `"msg":"hello"`)
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "elmbrunch.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	pc := NormalizeElm(cfg)
	assert.Equal(t, []string{"Main.elm"}, pc.MainModules.Unwrap())
	assert.Equal(t, "app", pc.ElmFolder.Unwrap())
	assert.Equal(t, "../public/js", pc.OutputFolder)

	err = Init(path, false)
	require.Error(t, err)
	assert.True(t, ferrors.HasCategory(err, ferrors.CategoryValidation))
	require.NoError(t, Init(path, true))
}

func TestNormalizeNotify(t *testing.T) {
	cfg := &Config{Notify: NotifyConfig{RetryBackoff: "Constant", ConnectRetries: -1}}
	res, err := NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, RetryBackoffFixed, cfg.Notify.RetryBackoff)
	assert.Zero(t, cfg.Notify.ConnectRetries)
	assert.Len(t, res.Warnings, 2)

	cfg = &Config{Notify: NotifyConfig{RetryBackoff: "sometimes"}}
	res, err = NormalizeConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, RetryBackoffExponential, cfg.Notify.RetryBackoff)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "unknown notify.retryBackoff")

	assert.Equal(t, RetryBackoffLinear, NormalizeRetryBackoff(" LINEAR "))
}
