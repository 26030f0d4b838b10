package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
)

type BackupsCmd struct {
	flags *Flags
}

// NewBackupsCmd creates a new backups command
func NewBackupsCmd(flags *Flags) *BackupsCmd {
	return &BackupsCmd{flags: flags}
}

// Register adds the backups command to the application
func (cmd *BackupsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "backups",
		Usage:     "Inspect task-file snapshots",
		UsageText: "voxdo backups <subcommand>",
		Description: `A snapshot of the task file is taken before every write. Snapshots
beyond the retention limit are removed automatically.`,
		Commands: []*cli.Command{
			{
				Name:      "ls",
				Usage:     "List snapshots, newest first",
				UsageText: "voxdo backups ls",
				Action:    cmd.runLs,
			},
			{
				Name:      "now",
				Usage:     "Snapshot the task file immediately",
				UsageText: "voxdo backups now",
				Action:    cmd.runNow,
			},
			{
				Name:      "prune",
				Usage:     "Remove snapshots beyond the retention limit",
				UsageText: "voxdo backups prune",
				Action:    cmd.runPrune,
			},
		},
	})

	return app
}

func (cmd *BackupsCmd) runLs(ctx context.Context, c *cli.Command) error {
	names, err := cmd.flags.Backups.List()
	if err != nil {
		return fmt.Errorf("list backups: %w", err)
	}

	if len(names) == 0 {
		fmt.Fprintf(os.Stderr, "No backups found\n")
		return nil
	}

	out := c.Root().Writer
	for _, name := range names {
		fmt.Fprintln(out, filepath.Join(cmd.flags.Backups.Dir(), name))
	}
	return nil
}

func (cmd *BackupsCmd) runNow(ctx context.Context, c *cli.Command) error {
	path, err := cmd.flags.Backups.Backup(cmd.flags.Config.TaskFile)
	if err != nil {
		return fmt.Errorf("backup task file: %w", err)
	}

	if path == "" {
		fmt.Fprintln(c.Root().Writer, "Nothing to back up")
		return nil
	}

	fmt.Fprintf(c.Root().Writer, "Backed up to %s\n", path)
	return nil
}

func (cmd *BackupsCmd) runPrune(ctx context.Context, c *cli.Command) error {
	if err := cmd.flags.Backups.Prune(); err != nil {
		return fmt.Errorf("prune backups: %w", err)
	}

	fmt.Fprintln(c.Root().Writer, "Pruned old backups")
	return nil
}
