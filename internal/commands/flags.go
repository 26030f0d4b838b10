package commands

import (
	"os"
	"path/filepath"

	"github.com/voxdo/voxdo/internal/assistant"
	"github.com/voxdo/voxdo/internal/core/config"
	"github.com/voxdo/voxdo/internal/store/todofile"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config

	// Store is the task-file store backing every operation
	Store *todofile.Store

	// Backups manages task-file snapshots
	Backups *todofile.BackupManager

	// Engine runs task operations against the store
	Engine *assistant.Engine
}

// DefaultConfigPath returns the default config file path using XDG_CONFIG_HOME.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, _ := os.UserHomeDir()
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "voxdo", "config.yaml")
}

// DefaultDataDir returns the default data directory using XDG_DATA_HOME.
func DefaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "voxdo")
}
