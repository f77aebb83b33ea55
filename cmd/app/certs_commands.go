package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lynlab/luppiter/cmd/app/commands"
	"github.com/lynlab/luppiter/internal/app"
	"github.com/lynlab/luppiter/internal/config"
)

func getCertsCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "sweep-certificates",
			Usage: "Mark issued certificates as almost expired or expired",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "almost-expired-days",
					Aliases: []string{"d"},
					Value:   14,
					Usage:   "Certificates expiring within this many days become almost_expired",
				},
				&cli.BoolFlag{
					Name:    "dry-run",
					Aliases: []string{"n"},
					Value:   false,
					Usage:   "Show the transitions without persisting them",
				},
				&cli.StringFlag{
					Name:    "format",
					Aliases: []string{"f"},
					Value:   "text",
					Usage:   "Output format: 'text' or 'json'",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				expiryUseCase, err := container.ExpiryUseCase()
				if err != nil {
					return err
				}

				return commands.RunSweepCertificates(
					ctx,
					expiryUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.Int("almost-expired-days"),
					cmd.Bool("dry-run"),
					cmd.String("format"),
				)
			},
		},
	}
}
