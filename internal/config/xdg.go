package config

import (
	"os"
	"path/filepath"
)

// XDGConfigHome returns $XDG_CONFIG_HOME or ~/.config.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".config")
}

// XDGDataHome returns $XDG_DATA_HOME or ~/.local/share.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// DefaultDataDir is where challenge history and custom skills live.
func DefaultDataDir() string {
	return filepath.Join(XDGDataHome(), "skillstracker")
}

// DefaultConfigPath returns the default TOML config path.
func DefaultConfigPath() string {
	return filepath.Join(XDGConfigHome(), "skillstracker", "config.toml")
}
