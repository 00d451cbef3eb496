package cli

import (
	"context"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NCAR/cirrus-portal/pkg/server"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:                  "serve",
		EnableShellCompletion: true,
		Usage:                 "Run the portal HTTP server",
		Description: `Runs the CIRRUS portal API server. Configuration comes from the
environment:

  PORT                      Listen port (default: 8080)
  APPS_FILE                 Hosted application roster (default: apps.yaml)
  STATUS_MONITORS_FILE      Status page roster (default: status_monitors.yaml)
  SLA_URL                   Service level agreement page to proxy
  JIRA_PAT                  Jira token for hosting request intake (optional)
  SHUTDOWN_TIMEOUT_SECONDS  Graceful shutdown window (default: 30)

Flags override their environment counterparts.`,
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Listen port (overrides PORT)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := server.NewConfig()
			cfg.Version = version
			if port := int(cmd.Int("port")); port > 0 {
				cfg.Port = port
			}

			slog.Info("starting portal server", "port", cfg.Port)
			return server.RunWithConfig(cfg)
		},
	}
}
