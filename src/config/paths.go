package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

const appDirName = "taskchat"

// DefaultDatabasePath returns the sqlite file location under
// XDG_STATE_HOME, following the XDG Base Directory specification for
// state data.
func DefaultDatabasePath() string {
	return filepath.Join(xdg.StateHome, appDirName, "taskchat.db")
}

// DefaultUserConfigPath returns the user-level config file location under
// XDG_CONFIG_HOME.
func DefaultUserConfigPath() string {
	return filepath.Join(xdg.ConfigHome, appDirName, "config.json")
}

// DefaultLogPath returns the default log file location under
// XDG_STATE_HOME.
func DefaultLogPath() string {
	return filepath.Join(xdg.StateHome, appDirName, "taskchat.log")
}

// DefaultPrecedence returns the standard lookup order: user config, then a
// project-local taskchat.json, then TASKCHAT_* environment variables.
func DefaultPrecedence() ConfigPrecedence {
	return ConfigPrecedence{
		UserConfig:        DefaultUserConfigPath(),
		ProjectConfig:     "taskchat.json",
		EnvironmentPrefix: "TASKCHAT",
	}
}
