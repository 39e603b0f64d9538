package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appName = "rmenu"

// DefaultPath returns the configuration file used when none is given:
// config.yaml under the user config directory, or config.toml when only that exists.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = filepath.Join(homeDir(), ".config")
	}
	yamlPath := filepath.Join(dir, appName, "config.yaml")
	if _, err := os.Stat(yamlPath); err != nil {
		tomlPath := filepath.Join(dir, appName, "config.toml")
		if _, err := os.Stat(tomlPath); err == nil {
			return tomlPath
		}
	}
	return yamlPath
}

// CacheDir returns where plugin results are persisted.
func (c *Config) CacheDir() string {
	if c.Cache.Dir != "" {
		return ExpandHome(c.Cache.Dir)
	}
	return filepath.Join(userCacheDir(), appName)
}

// DefaultLogPath returns the log file used by interactive sessions.
func DefaultLogPath() string {
	return filepath.Join(userCacheDir(), appName, appName+".log")
}

// ExpandHome replaces a leading "~" with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}

func userCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(homeDir(), ".cache")
	}
	return dir
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return os.TempDir()
	}
	return home
}
