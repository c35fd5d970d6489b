package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyBuildID    = "build_id"
	KeyPlugin     = "plugin"
	KeyHook       = "hook"
	KeySource     = "source"
	KeyOutput     = "output"
	KeyFolder     = "folder"
	KeyCommand    = "command"
	KeyExitCode   = "exit_code"
	KeyStderr     = "stderr"
	KeyDurationMS = "duration_ms"
	KeyFiles      = "files"
	KeyPath       = "path"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func BuildID(id string) slog.Attr      { return slog.String(KeyBuildID, id) }
func Plugin(name string) slog.Attr     { return slog.String(KeyPlugin, name) }
func Hook(name string) slog.Attr       { return slog.String(KeyHook, name) }
func Source(path string) slog.Attr     { return slog.String(KeySource, path) }
func Output(path string) slog.Attr     { return slog.String(KeyOutput, path) }
func Folder(dir string) slog.Attr      { return slog.String(KeyFolder, dir) }
func Command(line string) slog.Attr    { return slog.String(KeyCommand, line) }
func ExitCode(code int) slog.Attr      { return slog.Int(KeyExitCode, code) }
func Stderr(text string) slog.Attr     { return slog.String(KeyStderr, text) }
func Files(n int) slog.Attr            { return slog.Int(KeyFiles, n) }
func Path(p string) slog.Attr          { return slog.String(KeyPath, p) }
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
