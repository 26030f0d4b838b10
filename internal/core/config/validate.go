package config

import (
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
)

// Validate checks that the configuration is structurally sound.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("task_file", c.TaskFile, notBlank),
		criterio.Run("header", c.Header, isCommentLine),
		c.validateRetention(),
		criterio.Run("webhook.addr", c.Webhook.Addr, isHostPort),
		criterio.Run("openai.model", c.OpenAI.Model, notBlank),
		criterio.Run("data_dir", c.DataDir, notBlank),
	)
}

// ValidateDeep adds I/O checks on top of Validate: the task file and backup
// directory paths must be usable. The configPath argument names the config
// file to check (empty skips it).
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("task_file", c.TaskFile, isFileOrNotExist),
		criterio.Run("backups.dir", c.Backups.Dir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

func notBlank(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}

// isCommentLine ensures the header survives a parse round trip: anything not
// starting with "#" would come back as a task.
func isCommentLine(s string) error {
	if !strings.HasPrefix(s, "#") {
		return fmt.Errorf("must start with '#'")
	}
	return nil
}

func (c *Config) validateRetention() error {
	if c.Backups.Retention < 1 {
		return criterio.NewFieldErrors("backups.retention", fmt.Errorf("must be at least 1"))
	}
	return nil
}

func isHostPort(addr string) error {
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	return nil
}

// isFileOrNotExist validates that a path is a regular file or doesn't exist.
func isFileOrNotExist(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // created on first write
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("exists but is a directory")
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}
