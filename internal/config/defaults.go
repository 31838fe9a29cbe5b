package config

import (
	"os"
	"path/filepath"
)

const appDirName = "packsmith"

// Dir returns the application configuration directory,
// honoring XDG_CONFIG_HOME when set.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, ".config", appDirName)
}

// DefaultDatabasePath returns the default location of the shipments database.
func DefaultDatabasePath() string {
	return filepath.Join(Dir(), "packsmith.db")
}
