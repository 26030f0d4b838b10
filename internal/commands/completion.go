package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// TaskQueryCompleter returns a ShellCompleteFunc that suggests active task
// texts as positional completions. Set this as the ShellComplete field on any
// cli.Command that accepts a task query as an argument.
//
// When the user's last typed argument starts with "-", it falls back to the
// default flag completion behavior.
func TaskQueryCompleter(flags *Flags) cli.ShellCompleteFunc {
	return func(ctx context.Context, cmd *cli.Command) {
		// Delegate to default flag completion when typing a flag
		if args := cmd.Args(); args.Present() {
			last := args.Slice()[args.Len()-1]
			if len(last) > 0 && last[0] == '-' {
				cli.DefaultCompleteWithFlags(ctx, cmd)
				return
			}
		}

		infos, err := flags.Engine.GetActiveTasks(ctx)
		if err != nil {
			return
		}

		w := cmd.Root().Writer
		for _, info := range infos {
			_, _ = fmt.Fprintln(w, info.Text)
		}
	}
}
