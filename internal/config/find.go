package config

import (
	"errors"
	"os"
	"path/filepath"
)

// ErrConfigNotFound is returned by Find when neither dir nor any of its
// parents holds a config file.
var ErrConfigNotFound = errors.New("no mdsync config file found")

// Extensions lists the config file extensions Find accepts, in order of
// preference.
var Extensions = []string{"yaml", "yml", "toml", "json"}

// Find looks for mdsync.<ext> in dir, then walks up parent directories
// until one is found or the filesystem root is reached.
func Find(dir string) (string, error) {
	if dir == "" {
		dir = "."
	}
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}

	for {
		for _, ext := range Extensions {
			candidate := filepath.Join(current, FileName+"."+ext)
			if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}

		// Move to parent directory
		parent := filepath.Dir(current)
		if parent == current {
			return "", ErrConfigNotFound
		}
		current = parent
	}
}
