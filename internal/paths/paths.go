// Package paths resolves the per-user file locations clipkeep reads
// and writes. The core never decides where its documents live; it asks
// this package.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// configDirName is the per-user directory under ~/.config.
	configDirName = "clipkeep"

	// configFileName is the config document inside the config directory.
	configFileName = "config.yaml"

	// HistoryJSONName is the default history document filename for the
	// file store.
	HistoryJSONName = "history.json"

	// HistoryDBName is the default database filename for the sqlite
	// store.
	HistoryDBName = "history.db"
)

// ConfigDir returns the clipkeep configuration directory,
// ~/.config/clipkeep. The directory is not created here; stores create
// what they need on first write.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".config", configDirName), nil
}

// ConfigFile resolves the config file path. A non-empty override is
// used exactly as given; otherwise the default location under
// ConfigDir applies.
func ConfigFile(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// HistoryFile resolves the history document path from the configured
// location:
//   - empty: defaultName under ConfigDir
//   - absolute: used as-is
//   - relative: joined under ConfigDir
func HistoryFile(location, defaultName string) (string, error) {
	if location != "" && filepath.IsAbs(location) {
		return location, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if location == "" {
		return filepath.Join(dir, defaultName), nil
	}
	return filepath.Join(dir, location), nil
}
