// Package initcmd implements the first-run configuration wizard.
package initcmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
	"gopkg.in/yaml.v3"

	"github.com/voxdo/voxdo/internal/core/config"
)

// WizardOptions configures the wizard behavior.
type WizardOptions struct {
	ConfigPath string
	DataDir    string
	Yes        bool // skip prompts, use defaults
	Force      bool // overwrite existing config
	TaskFile   string
}

// Wizard orchestrates the init process.
type Wizard struct {
	opts WizardOptions
	out  *os.File
}

// NewWizard creates a new init wizard.
func NewWizard(opts WizardOptions) *Wizard {
	return &Wizard{opts: opts, out: os.Stdout}
}

// Run executes the wizard.
func (w *Wizard) Run(ctx context.Context) error {
	// Check for existing config
	if configExists(w.opts.ConfigPath) && !w.opts.Force {
		if w.opts.Yes {
			return fmt.Errorf("config exists at %s; use --force to overwrite", w.opts.ConfigPath)
		}

		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(w.opts.ConfigPath + "\nOverwrite? (a backup will be created)").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(w.out, "Init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()
	cfg.DataDir = w.opts.DataDir
	if w.opts.TaskFile != "" {
		cfg.TaskFile = w.opts.TaskFile
	}

	if !w.opts.Yes {
		if err := w.promptUser(&cfg); err != nil {
			return err
		}
	}

	cfg.TaskFile = expandHome(cfg.TaskFile)

	// Backup existing config if needed
	if configExists(w.opts.ConfigPath) {
		backupPath, err := backupExisting(w.opts.ConfigPath)
		if err != nil {
			return fmt.Errorf("backup config: %w", err)
		}
		fmt.Fprintf(w.out, "Backed up config to: %s\n", backupPath)
	}

	if err := writeConfig(&cfg, w.opts.ConfigPath); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(w.out, "Created config: %s\n", w.opts.ConfigPath)

	w.printNextSteps(&cfg)
	return nil
}

func (w *Wizard) promptUser(cfg *config.Config) error {
	form := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Task file").
			Description("Path to the todo.txt the assistant manages").
			Value(&cfg.TaskFile),
		huh.NewInput().
			Title("Webhook address").
			Description("Listen address for 'voxdo serve'").
			Value(&cfg.Webhook.Addr),
		huh.NewInput().
			Title("Greeting").
			Description("Spoken when a voice session starts").
			Value(&cfg.Webhook.Greeting),
		huh.NewSelect[string]().
			Title("Intent model").
			Description("OpenAI model used to parse voice commands").
			Options(
				huh.NewOption("gpt-4.1-mini", "gpt-4.1-mini"),
				huh.NewOption("gpt-4.1", "gpt-4.1"),
				huh.NewOption("gpt-4o-mini", "gpt-4o-mini"),
			).
			Value(&cfg.OpenAI.Model),
	))
	return form.Run()
}

func (w *Wizard) printNextSteps(cfg *config.Config) {
	fmt.Fprintln(w.out)
	fmt.Fprintln(w.out, "Next steps:")
	fmt.Fprintf(w.out, "  1. Export %s to enable the OpenAI intent parser\n", cfg.OpenAI.APIKeyEnv)
	fmt.Fprintln(w.out, "  2. Run 'voxdo task add buy milk' to create your first task")
	fmt.Fprintln(w.out, "  3. Run 'voxdo serve' to accept voice commands")
}

func writeConfig(cfg *config.Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// backupExisting copies the current config aside before it is overwritten.
func backupExisting(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	backupPath := path + ".bak"
	_ = os.Remove(backupPath)

	if err := os.WriteFile(backupPath, content, 0o644); err != nil {
		return "", err
	}
	return backupPath, nil
}

func configExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}
