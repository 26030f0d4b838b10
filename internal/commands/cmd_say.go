package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/voxdo/voxdo/internal/assistant"
	"github.com/voxdo/voxdo/internal/intent"
	"github.com/voxdo/voxdo/pkg/iojson"
)

type SayCmd struct {
	flags  *Flags
	reader *iojson.FileReader[intent.Intent]

	// flags
	rawIntent  bool
	jsonOutput bool
}

// NewSayCmd creates a new say command
func NewSayCmd(flags *Flags) *SayCmd {
	return &SayCmd{flags: flags, reader: &iojson.FileReader[intent.Intent]{}}
}

// Register adds the say command to the application
func (cmd *SayCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "say",
		Usage:     "Process one voice-style command",
		UsageText: "voxdo say <transcript> | voxdo say --intent [-f intent.json]",
		Description: `Runs a single transcript through the intent parser and executes it,
printing what the assistant would speak.

Uses the OpenAI parser when an API key is configured, otherwise the
keyword parser. With --intent, a structured intent is read as JSON from
a file or stdin and dispatched directly, skipping parsing.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "intent",
				Usage:       "read a structured intent as JSON instead of parsing a transcript",
				Destination: &cmd.rawIntent,
			},
			cmd.reader.Flag(),
			&cli.BoolFlag{
				Name:        "json",
				Usage:       "output the full result as JSON",
				Destination: &cmd.jsonOutput,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *SayCmd) run(ctx context.Context, c *cli.Command) error {
	it, err := cmd.resolveIntent(ctx, c)
	if err != nil {
		return err
	}

	r := cmd.flags.Engine.Dispatch(ctx, it)

	if cmd.jsonOutput {
		return iojson.WriteWith(c.Root().Writer, c.Root().ErrWriter, r)
	}

	fmt.Fprintln(c.Root().Writer, assistant.Speech(r))
	if !r.Success {
		return cli.Exit("", 1)
	}
	return nil
}

func (cmd *SayCmd) resolveIntent(ctx context.Context, c *cli.Command) (intent.Intent, error) {
	if cmd.rawIntent {
		it, err := cmd.reader.Read()
		if err != nil {
			return intent.Intent{}, fmt.Errorf("read intent: %w", err)
		}
		return it, nil
	}

	text := argsJoined(c)
	if text == "" {
		return intent.Intent{}, errors.New("transcript is required")
	}

	tasks, err := cmd.currentTasks(ctx)
	if err != nil {
		return intent.Intent{}, fmt.Errorf("read active tasks: %w", err)
	}

	fallback := intent.NewFallbackParser()

	cfg := cmd.flags.Config
	if key := cfg.OpenAI.APIKey(); key != "" {
		parser := intent.NewOpenAIParser(key, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, log.Logger)
		it, err := parser.ParseIntent(ctx, text, tasks)
		if err == nil {
			return it, nil
		}
		log.Warn().Err(err).Msg("intent parser failed, using fallback")
	}

	it, _ := fallback.ParseIntent(ctx, text, tasks)
	return it, nil
}

func (cmd *SayCmd) currentTasks(ctx context.Context) ([]string, error) {
	infos, err := cmd.flags.Engine.GetActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	lines := make([]string, 0, len(infos))
	for _, info := range infos {
		lines = append(lines, info.FullLine)
	}
	return lines, nil
}
