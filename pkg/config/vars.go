package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "transitdb"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/transitdb by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// CacheDir returns the directory path for cache files.
// Returns ~/.cache/transitdb by default.
func CacheDir(homeDir string) string {
	return filepath.Join(homeDir, ".cache", AppName)
}

// DataDir returns the directory path for application data.
// Returns ~/.local/share/transitdb by default.
func DataDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/transitdb/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(DataDir(homeDir), "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/transitdb/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// SQLitePath returns the default SQLite database file.
func SQLitePath(homeDir string) string {
	return filepath.Join(DataDir(homeDir), AppName+".sqlite")
}
