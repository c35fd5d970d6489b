package config

import (
	"errors"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// envFiles are tried in order; all that exist are loaded.
var envFiles = []string{".env", ".env.local"}

// loadEnvFiles loads .env style files without overriding variables that are
// already set in the process environment.
func loadEnvFiles() error {
	loaded := 0
	for _, path := range envFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return err
		}
		slog.Debug("Loaded environment variables", "path", path)
		loaded++
	}
	if loaded == 0 {
		return errors.New("no .env file found")
	}
	return nil
}
