package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lynlab/luppiter/cmd/app/commands"
	"github.com/lynlab/luppiter/internal/app"
	"github.com/lynlab/luppiter/internal/config"
)

func getSystemCommands(version string) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "server",
			Usage: "Start the HTTP API, the issuance worker RPC server and the metrics server",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunServer(ctx, version)
			},
		},
		{
			Name:  "migrate",
			Usage: "Run database migrations and seed the permission catalog",
			Flags: []cli.Flag{
				&cli.BoolFlag{
					Name:  "skip-seed",
					Value: false,
					Usage: "Only run migrations",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				if err := commands.RunMigrations(container.Logger(), cfg.DBDriver, cfg.DBConnectionString); err != nil {
					return err
				}
				if cmd.Bool("skip-seed") {
					return nil
				}

				permissionUseCase, err := container.PermissionUseCase()
				if err != nil {
					return err
				}

				return commands.RunSeedPermissions(
					ctx,
					permissionUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
				)
			},
		},
	}
}
