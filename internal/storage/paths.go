// Package storage persists bot preferences, game statistics and finished
// game records.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
)

const (
	appName        = "checkersplay"
	dbDirName      = "db"
	configFileName = "settings.yaml"
)

// baseDir resolves the per-user data root for goos:
//   - darwin: ~/Library/Application Support
//   - windows: %APPDATA%, else ~/AppData/Roaming
//   - others: $XDG_DATA_HOME, else ~/.local/share
func baseDir(goos string, getenv func(string) string, home func() (string, error)) (string, error) {
	fromHome := func(elem ...string) (string, error) {
		h, err := home()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		return filepath.Join(append([]string{h}, elem...)...), nil
	}

	switch goos {
	case "darwin":
		return fromHome("Library", "Application Support")
	case "windows":
		if dir := getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		return fromHome("AppData", "Roaming")
	default:
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		return fromHome(".local", "share")
	}
}

// GetDataDir returns the application data directory, creating it if needed.
func GetDataDir() (string, error) {
	base, err := baseDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, appName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDatabaseDir returns the directory holding the badger database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(dataDir, dbDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetConfigPath returns where the per-user settings file lives. The file
// itself may not exist.
func GetConfigPath() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, configFileName), nil
}

// FindConfigFile returns the per-user settings file and whether it exists.
func FindConfigFile() (string, bool, error) {
	path, err := GetConfigPath()
	if err != nil {
		return "", false, err
	}
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return path, false, nil
	case err != nil:
		return "", false, err
	case info.IsDir():
		return "", false, fmt.Errorf("settings path %s is a directory", path)
	}
	return path, true, nil
}
