package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// ConfigDir returns the directory holding the hgrep config file,
// following the XDG Base Directory spec (%APPDATA% on Windows).
func ConfigDir() string {
	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(homeDir(), "AppData", "Roaming")
		}
		return filepath.Join(appData, "hgrep")
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(homeDir(), ".config")
	}
	return filepath.Join(configHome, "hgrep")
}

// ConfigFile returns the full path of the config file.
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
