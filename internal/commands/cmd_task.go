package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/voxdo/voxdo/internal/assistant"
	"github.com/voxdo/voxdo/internal/core/task"
	"github.com/voxdo/voxdo/pkg/iojson"
)

type TaskCmd struct {
	flags *Flags

	// flags
	priority   string
	due        string
	newText    string
	filter     string
	jsonOutput bool
}

// NewTaskCmd creates a new task command
func NewTaskCmd(flags *Flags) *TaskCmd {
	return &TaskCmd{flags: flags}
}

// Register adds the task command to the application
func (cmd *TaskCmd) Register(app *cli.Command) *cli.Command {
	completer := TaskQueryCompleter(cmd.flags)

	app.Commands = append(app.Commands, &cli.Command{
		Name:      "task",
		Usage:     "Manage tasks in the todo file",
		UsageText: "voxdo task <subcommand> [options] [args]",
		Description: `Direct task-file operations without going through the voice layer.

Subcommands that take a query resolve it the same way voice commands do:
a number matches the task ID, anything else matches as a substring.`,
		Commands: []*cli.Command{
			{
				Name:      "add",
				Usage:     "Add a new task",
				UsageText: "voxdo task add [--priority urgent|normal|low] [--due DATE] <text>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "priority",
						Aliases:     []string{"p"},
						Usage:       "task priority (urgent, normal, low)",
						Value:       "normal",
						Destination: &cmd.priority,
					},
					&cli.StringFlag{
						Name:        "due",
						Usage:       "deadline (today, tomorrow, or YYYY-MM-DD)",
						Destination: &cmd.due,
					},
				},
				Action: cmd.runAdd,
			},
			{
				Name:          "done",
				Usage:         "Mark a task as complete",
				UsageText:     "voxdo task done <query>",
				ShellComplete: completer,
				Action:        cmd.runDone,
			},
			{
				Name:          "rm",
				Usage:         "Delete a task",
				UsageText:     "voxdo task rm <query>",
				ShellComplete: completer,
				Action:        cmd.runRm,
			},
			{
				Name:      "edit",
				Usage:     "Replace a task's text",
				UsageText: "voxdo task edit --to <new text> <query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "to",
						Usage:       "replacement text (may carry [URGENT]/[LOW] and (due: ...) markers)",
						Required:    true,
						Destination: &cmd.newText,
					},
				},
				ShellComplete: completer,
				Action:        cmd.runEdit,
			},
			{
				Name:      "due",
				Usage:     "Set a task's deadline",
				UsageText: "voxdo task due --on DATE <query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "on",
						Usage:       "deadline (today, tomorrow, or YYYY-MM-DD)",
						Required:    true,
						Destination: &cmd.due,
					},
				},
				ShellComplete: completer,
				Action:        cmd.runDue,
			},
			{
				Name:          "pri",
				Usage:         "Set a task's priority",
				UsageText:     "voxdo task pri <urgent|normal|low> <query>",
				ShellComplete: completer,
				Action:        cmd.runPri,
			},
			{
				Name:      "ls",
				Usage:     "List active tasks",
				UsageText: "voxdo task ls [--filter all|urgent|today] [--json]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:        "filter",
						Aliases:     []string{"f"},
						Usage:       "filter tasks (all, urgent, today)",
						Value:       "all",
						Destination: &cmd.filter,
					},
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON lines",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runLs,
			},
			{
				Name:      "search",
				Usage:     "Search active tasks by substring",
				UsageText: "voxdo task search <text>",
				Action:    cmd.runSearch,
			},
			{
				Name:      "stats",
				Usage:     "Show task counts",
				UsageText: "voxdo task stats [--json]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:        "json",
						Usage:       "output as JSON",
						Destination: &cmd.jsonOutput,
					},
				},
				Action: cmd.runStats,
			},
		},
	})

	return app
}

// emit prints a successful result's message, or surfaces a failed result's
// message as the command error.
func emit(c *cli.Command, r assistant.Result) error {
	if !r.Success {
		return errors.New(r.Message)
	}
	fmt.Fprintln(c.Root().Writer, r.Message)
	return nil
}

func argsJoined(c *cli.Command) string {
	return strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
}

func (cmd *TaskCmd) runAdd(ctx context.Context, c *cli.Command) error {
	text := argsJoined(c)
	if text == "" {
		return errors.New("task text is required")
	}
	return emit(c, cmd.flags.Engine.AddTask(ctx, text, cmd.priority, cmd.due))
}

func (cmd *TaskCmd) runDone(ctx context.Context, c *cli.Command) error {
	query := argsJoined(c)
	if query == "" {
		return errors.New("task query is required")
	}
	return emit(c, cmd.flags.Engine.MarkComplete(ctx, query))
}

func (cmd *TaskCmd) runRm(ctx context.Context, c *cli.Command) error {
	query := argsJoined(c)
	if query == "" {
		return errors.New("task query is required")
	}
	return emit(c, cmd.flags.Engine.DeleteTask(ctx, query))
}

func (cmd *TaskCmd) runEdit(ctx context.Context, c *cli.Command) error {
	query := argsJoined(c)
	if query == "" {
		return errors.New("task query is required")
	}
	return emit(c, cmd.flags.Engine.UpdateTask(ctx, query, cmd.newText))
}

func (cmd *TaskCmd) runDue(ctx context.Context, c *cli.Command) error {
	query := argsJoined(c)
	if query == "" {
		return errors.New("task query is required")
	}
	return emit(c, cmd.flags.Engine.AddDeadline(ctx, query, cmd.due))
}

func (cmd *TaskCmd) runPri(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() < 2 {
		return errors.New("usage: voxdo task pri <urgent|normal|low> <query>")
	}
	level := c.Args().First()
	query := strings.TrimSpace(strings.Join(c.Args().Slice()[1:], " "))
	return emit(c, cmd.flags.Engine.SetPriority(ctx, query, level))
}

// taskRow is the JSON output format for voxdo task ls --json.
type taskRow struct {
	ID       int    `json:"id"`
	Text     string `json:"text"`
	Priority string `json:"priority"`
	Deadline string `json:"deadline,omitempty"`
	Line     string `json:"line"`
}

func (cmd *TaskCmd) runLs(ctx context.Context, c *cli.Command) error {
	doc, err := cmd.flags.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}

	tasks := filterTasks(doc.Active, cmd.filter)

	if len(tasks) == 0 {
		if !cmd.jsonOutput {
			fmt.Fprintf(os.Stderr, "No tasks found\n")
		}
		return nil
	}

	out := c.Root().Writer

	// JSON output mode
	if cmd.jsonOutput {
		for _, t := range tasks {
			row := taskRow{
				ID:       t.ID,
				Text:     t.Text,
				Priority: string(t.Priority),
				Deadline: t.Deadline,
				Line:     t.Line(),
			}
			if err := iojson.WriteLine(out, row); err != nil {
				return fmt.Errorf("encode task: %w", err)
			}
		}
		return nil
	}

	// Table output mode
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tPRI\tDUE\tTASK")
	for _, t := range tasks {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", task.FormatID(t.ID), t.Priority, t.Deadline, t.Text)
	}
	_ = w.Flush()

	return nil
}

// filterTasks mirrors the voice layer's list filters: "urgent" keeps
// urgent-priority tasks, "today" keeps tasks due today.
func filterTasks(active []task.Task, filter string) []task.Task {
	switch filter {
	case "urgent":
		var out []task.Task
		for _, t := range active {
			if t.Priority == task.PriorityUrgent {
				out = append(out, t)
			}
		}
		return out
	case "today":
		today := time.Now().Format(task.DateFormat)
		var out []task.Task
		for _, t := range active {
			if t.Deadline == today || t.Deadline == "today" {
				out = append(out, t)
			}
		}
		return out
	default:
		return active
	}
}

func (cmd *TaskCmd) runSearch(ctx context.Context, c *cli.Command) error {
	query := argsJoined(c)
	if query == "" {
		return errors.New("search text is required")
	}

	r := cmd.flags.Engine.SearchTasks(ctx, query)
	if !r.Success {
		return errors.New(r.Message)
	}

	out := c.Root().Writer
	if len(r.Tasks) == 0 {
		fmt.Fprintln(out, r.Message)
		return nil
	}
	for _, line := range r.Tasks {
		fmt.Fprintln(out, line)
	}
	return nil
}

func (cmd *TaskCmd) runStats(ctx context.Context, c *cli.Command) error {
	stats, err := cmd.flags.Engine.GetStats(ctx)
	if err != nil {
		return fmt.Errorf("get stats: %w", err)
	}

	if cmd.jsonOutput {
		return iojson.WriteLine(c.Root().Writer, stats)
	}

	fmt.Fprintf(c.Root().Writer, "%d active, %d completed, %d total\n",
		stats.ActiveCount, stats.CompletedCount, stats.TotalTasks)
	return nil
}
