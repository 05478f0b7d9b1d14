// Package storage persists engine options, search statistics and perft
// results in a BadgerDB under the user's data directory.
package storage

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

const appName = "sce"

// GetDataDir returns the data directory for the application, following the
// XDG base directory spec on Unix and the platform equivalents elsewhere:
// - Linux: ~/.local/share/sce/
// - macOS: ~/Library/Application Support/sce/
// - Windows: %LOCALAPPDATA%/sce/
func GetDataDir() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, appName)

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	return dbDir, nil
}
