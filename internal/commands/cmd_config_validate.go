package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

type ConfigValidateCmd struct {
	flags *Flags
}

// NewConfigValidateCmd creates a new config validate command.
func NewConfigValidateCmd(flags *Flags) *ConfigValidateCmd {
	return &ConfigValidateCmd{flags: flags}
}

// Register adds the config validate command to the application.
func (cmd *ConfigValidateCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "config",
		Usage: "Configuration management commands",
		Commands: []*cli.Command{
			{
				Name:        "validate",
				Usage:       "Validate configuration file",
				UsageText:   "voxdo config validate",
				Description: "Validates the configuration file, checking field values and file paths.",
				Action:      cmd.run,
			},
		},
	})

	return app
}

func (cmd *ConfigValidateCmd) run(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Config.ValidateDeep(cmd.flags.ConfigPath); err != nil {
		return err
	}

	fmt.Fprintln(c.Root().Writer, "Configuration is valid")
	return nil
}
