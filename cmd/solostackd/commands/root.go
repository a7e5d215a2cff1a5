package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/solostack/solostack/internal/app"
	"github.com/solostack/solostack/internal/observability"
)

// Execute runs the root command with the given context and arguments.
func Execute(ctx context.Context, args []string) error {
	cmd := &cli.Command{
		Name:  "solostackd",
		Usage: "SoloStack native backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "log level (debug|info|warn|error)",
				Value: slog.LevelInfo.String(),
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			credentialCommand(),
		},
	}

	return cmd.Run(ctx, args)
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the backend services for the UI shell",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "log format (text|json|otel)",
				Value: string(app.DefaultConfigLogFormat),
			},
			&cli.StringFlag{
				Name:  "log-exporter",
				Usage: "otel log exporter (stdout|otlp-http|otlp-grpc)",
				Value: string(app.DefaultConfigLogExporter),
			},
			&cli.StringFlag{
				Name:  "server--host",
				Usage: "ipc server host",
				Value: app.DefaultConfigServerHost,
			},
			&cli.IntFlag{
				Name:  "server--port",
				Usage: "ipc server port",
				Value: int(app.DefaultConfigServerPort),
			},
			&cli.StringFlag{
				Name:  "data--dir",
				Usage: "data directory (defaults to the per-user config dir)",
			},
		},
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd.String("config"), cmd, os.Environ)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set up observability before creating the app
	shutdownLogs, err := observability.Instrument(ctx, cfg.LogLevel, string(cfg.LogFormat), string(cfg.LogExporter))
	if err != nil {
		return fmt.Errorf("failed to set up observability layer: %w", err)
	}
	defer func() {
		if err := shutdownLogs(context.Background()); err != nil {
			fmt.Fprintln(os.Stderr, "warning: log pipeline shutdown failed:", err)
		}
	}()

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to create app: %w", err)
	}

	slog.InfoContext(ctx, "starting")

	if err := application.Start(ctx); err != nil {
		return fmt.Errorf("app failed to start: %w", err)
	}

	slog.InfoContext(ctx, "stopped gracefully")
	return nil
}
