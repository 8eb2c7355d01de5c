package commands

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/hay-kot/wingman/internal/core/config"
	"github.com/hay-kot/wingman/internal/wingman"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	UserID     string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// App is built in the Before hook once the database is open
	App *wingman.App
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "wingman", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "wingman")
}

// DefaultLogFile returns the default log file path using the system's state directory.
// On macOS: ~/Library/Logs/wingman/wingman.log
// On Linux: $XDG_STATE_HOME/wingman/wingman.log (defaults to ~/.local/state/wingman/wingman.log)
func DefaultLogFile() string {
	stateHome := os.Getenv("XDG_STATE_HOME")
	if stateHome != "" {
		return filepath.Join(stateHome, "wingman", "wingman.log")
	}

	home, _ := os.UserHomeDir()

	if runtime.GOOS == "darwin" {
		return filepath.Join(home, "Library", "Logs", "wingman", "wingman.log")
	}

	return filepath.Join(home, ".local", "state", "wingman", "wingman.log")
}
