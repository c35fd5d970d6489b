package host

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	ferrors "git.home.luguber.info/inful/elmbrunch/internal/foundation/errors"
	"git.home.luguber.info/inful/elmbrunch/internal/logfields"
)

// SkipDir reports whether a directory is never scanned or watched: hidden
// directories, elm-stuff and node_modules.
func SkipDir(name string) bool {
	if name == "elm-stuff" || name == "node_modules" {
		return true
	}
	return len(name) > 1 && strings.HasPrefix(name, ".")
}

// discover returns every regular file below roots that match accepts,
// in walk order. Missing roots are skipped.
func discover(roots []string, accepts func(path string) bool) ([]string, error) {
	var files []string
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				slog.Debug("Watched path does not exist, skipping", logfields.Path(root))
				continue
			}
			return nil, statError(root, err)
		}

		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && SkipDir(d.Name()) {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && accepts(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to scan watched path").
				WithContext("path", root).
				Build()
		}
	}
	return files, nil
}

func statError(root string, err error) error {
	return ferrors.WrapError(err, ferrors.CategoryFileSystem, "cannot access watched path").
		WithContext("path", root).
		Build()
}
