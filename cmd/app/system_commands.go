package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/orderdesk/etransfer/cmd/app/commands"
	"github.com/orderdesk/etransfer/internal/app"
	"github.com/orderdesk/etransfer/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API and metrics servers",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "watcher",
			Usage: "Start the mailbox watcher and status-drift poller",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunWatcher(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				return commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString)
			},
		},
	}
}
