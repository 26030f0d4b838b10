package commands

import (
	"context"

	"github.com/urfave/cli/v3"

	initcmd "github.com/voxdo/voxdo/internal/commands/init"
)

type InitCmd struct {
	flags    *Flags
	yes      bool
	force    bool
	taskFile string
}

func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "init",
		Usage:     "Initialize voxdo configuration with an interactive wizard",
		UsageText: "voxdo init [options]",
		Description: `Sets up voxdo for first-time use with an interactive wizard.

The wizard generates a config.yaml with the task file location, webhook
address, and intent model. Use --yes to accept all defaults without
prompts, and --force to overwrite existing configuration.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "yes",
				Aliases:     []string{"y"},
				Usage:       "accept defaults without prompting",
				Destination: &cmd.yes,
			},
			&cli.BoolFlag{
				Name:        "force",
				Aliases:     []string{"f"},
				Usage:       "overwrite existing configuration",
				Destination: &cmd.force,
			},
			&cli.StringFlag{
				Name:        "task-file",
				Usage:       "path to the todo.txt to manage",
				Destination: &cmd.taskFile,
			},
		},
		Action: cmd.run,
	})
	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	wizard := initcmd.NewWizard(initcmd.WizardOptions{
		ConfigPath: cmd.flags.ConfigPath,
		DataDir:    cmd.flags.DataDir,
		Yes:        cmd.yes,
		Force:      cmd.force,
		TaskFile:   cmd.taskFile,
	})
	return wizard.Run(ctx)
}
