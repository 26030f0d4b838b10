// Command docgen generates CLI reference documentation from the voxdo command
// definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/voxdo/voxdo/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "voxdo",
		Usage:     "Voice-driven todo assistant",
		UsageText: "voxdo [global options] command [command options]",
		Description: `Voxdo keeps your todo list in a plain text file and edits it on your
behalf, from the command line or from spoken commands.

Run 'voxdo' with no arguments to open the task viewer.
Run 'voxdo serve' to accept voice commands over HTTP.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("VOXDO_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to <data-dir>/voxdo.log)",
				Sources: cli.EnvVars("VOXDO_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("VOXDO_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Usage:   "path to data directory",
				Sources: cli.EnvVars("VOXDO_DATA_DIR"),
				Value:   commands.DefaultDataDir(),
			},
		},
	}

	tuiCmd := commands.NewTuiCmd(flags)
	root.Flags = append(root.Flags, tuiCmd.Flags()...)

	root = commands.NewTaskCmd(flags).Register(root)
	root = commands.NewSayCmd(flags).Register(root)
	root = commands.NewServeCmd(flags).Register(root)
	root = commands.NewBackupsCmd(flags).Register(root)
	root = commands.NewInitCmd(flags).Register(root)
	root = commands.NewConfigValidateCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
