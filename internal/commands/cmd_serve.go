package commands

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/voxdo/voxdo/internal/intent"
	"github.com/voxdo/voxdo/internal/webhook"
)

type ServeCmd struct {
	flags *Flags

	// flags
	addr string
}

// NewServeCmd creates a new serve command
func NewServeCmd(flags *Flags) *ServeCmd {
	return &ServeCmd{flags: flags}
}

// Register adds the serve command to the application
func (cmd *ServeCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "serve",
		Usage:     "Run the voice webhook server",
		UsageText: "voxdo serve [--addr :3001]",
		Description: `Starts the HTTP server that voice clients post transcripts to.

Every transcript is parsed into an intent and executed against the task
file. Without an OpenAI API key the keyword parser handles everything.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address (overrides config)",
				Destination: &cmd.addr,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ServeCmd) run(ctx context.Context, c *cli.Command) error {
	cfg := cmd.flags.Config

	addr := cmd.addr
	if addr == "" {
		addr = cfg.Webhook.Addr
	}

	var primary intent.Parser
	if key := cfg.OpenAI.APIKey(); key != "" {
		primary = intent.NewOpenAIParser(key, cfg.OpenAI.Model, cfg.OpenAI.BaseURL, log.Logger)
	} else {
		log.Warn().Str("env", cfg.OpenAI.APIKeyEnv).Msg("no API key set, using keyword parser only")
	}

	srv := webhook.New(addr, cfg.Webhook.Greeting, cmd.flags.Engine, primary, intent.NewFallbackParser(), log.Logger)

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	fmt.Fprintf(c.Root().Writer, "Listening on %s (task file: %s)\n", srv.Addr(), cfg.TaskFile)

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	log.Info().Msg("server stopped")
	return nil
}
