// Package config handles configuration loading and validation for voxdo.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	TaskFile string        `yaml:"task_file"` // path to the canonical todo.txt
	Header   string        `yaml:"header"`    // comment line written at the top of the file
	Backups  BackupConfig  `yaml:"backups"`
	Webhook  WebhookConfig `yaml:"webhook"`
	OpenAI   OpenAIConfig  `yaml:"openai"`
	DataDir  string        `yaml:"-"` // set by caller, not from config file
}

// BackupConfig controls task-file snapshots.
type BackupConfig struct {
	Dir       string `yaml:"dir"`       // backup directory (default <data-dir>/backups)
	Retention int    `yaml:"retention"` // snapshots kept (default 10)
}

// WebhookConfig controls the voice webhook server.
type WebhookConfig struct {
	Addr     string `yaml:"addr"`     // listen address (default :3001)
	Greeting string `yaml:"greeting"` // spoken on SESSION_START
}

// OpenAIConfig controls the LLM intent parser. The API key is read from the
// environment, never from the config file.
type OpenAIConfig struct {
	Model     string `yaml:"model"`
	BaseURL   string `yaml:"base_url"`
	APIKeyEnv string `yaml:"api_key_env"`
}

// APIKey resolves the configured API key from the environment.
func (o OpenAIConfig) APIKey() string {
	return os.Getenv(o.APIKeyEnv)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	home, _ := os.UserHomeDir()
	return Config{
		TaskFile: filepath.Join(home, "Desktop", "todo.txt"),
		Header:   "# My Todo List",
		Backups: BackupConfig{
			Retention: 10,
		},
		Webhook: WebhookConfig{
			Addr:     ":3001",
			Greeting: "Hello! I'm your voice todo assistant. What can I help you with?",
		},
		OpenAI: OpenAIConfig{
			Model:     "gpt-4.1-mini",
			APIKeyEnv: "OPENAI_API_KEY",
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the
// provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.TaskFile == "" {
		c.TaskFile = defaults.TaskFile
	}
	if c.Header == "" {
		c.Header = defaults.Header
	}
	if c.Backups.Dir == "" {
		c.Backups.Dir = filepath.Join(c.DataDir, "backups")
	}
	if c.Backups.Retention == 0 {
		c.Backups.Retention = defaults.Backups.Retention
	}
	if c.Webhook.Addr == "" {
		c.Webhook.Addr = defaults.Webhook.Addr
	}
	if c.Webhook.Greeting == "" {
		c.Webhook.Greeting = defaults.Webhook.Greeting
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = defaults.OpenAI.Model
	}
	if c.OpenAI.APIKeyEnv == "" {
		c.OpenAI.APIKeyEnv = defaults.OpenAI.APIKeyEnv
	}
}
