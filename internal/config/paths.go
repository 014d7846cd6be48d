package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath names an explicit config file
	EnvConfigPath = "EDFORGE_CONFIG"
	// ConfigFileName is looked up in the working directory
	ConfigFileName = "edforge.yaml"
	// ConfigDirName is the per-user and system config directory
	ConfigDirName = "edforge"

	userConfigName = "config.yaml"
)

// journalSubdir is where the game keeps its journals under the user's home
var journalSubdir = filepath.Join("Saved Games", "Frontier Developments", "Elite Dangerous")

// searchPaths lists the config file candidates, most specific first:
// $EDFORGE_CONFIG, ./edforge.yaml, the per-user config directory, then
// /etc/edforge/config.yaml. Unset locations are left out.
func searchPaths() []string {
	var paths []string
	if explicit := os.Getenv(EnvConfigPath); explicit != "" {
		paths = append(paths, explicit)
	}
	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}
	if user := userConfigPath(); user != "" {
		paths = append(paths, user)
	}
	return append(paths, filepath.Join("/etc", ConfigDirName, userConfigName))
}

// FindConfigPath returns the first existing candidate of searchPaths, or ""
func FindConfigPath() string {
	for _, path := range searchPaths() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// DefaultConfigPath is where `edforge config init` writes a new file
func DefaultConfigPath() string {
	if user := userConfigPath(); user != "" {
		return user
	}
	return ConfigFileName
}

// userConfigPath resolves the per-user config file through
// os.UserConfigDir, which honours $XDG_CONFIG_HOME
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, ConfigDirName, userConfigName)
}

// DefaultJournalDir is the journal directory the game uses for the current
// user, or "" when the home directory is unknown
func DefaultJournalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, journalSubdir)
}

// EnsureConfigDir creates the directory holding configPath
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
