package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/lynlab/luppiter/cmd/app/commands"
	"github.com/lynlab/luppiter/internal/app"
	"github.com/lynlab/luppiter/internal/config"
)

func getAuthCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "seed-permissions",
			Usage: "Insert missing permissions of the catalog",
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

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
		{
			Name:  "create-api-key",
			Usage: "Create an API key for a member without the identity provider",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "member-uuid",
					Aliases:  []string{"m"},
					Required: true,
					Usage:    "Identity provider UUID of the member (created when missing)",
				},
				&cli.StringFlag{
					Name:  "memo",
					Value: "",
					Usage: "Free text note stored with the key",
				},
				&cli.StringSliceFlag{
					Name:    "permission",
					Aliases: []string{"p"},
					Usage:   "Permission to grant, repeatable (e.g. Certs::Read, Storage::*)",
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

				memberRepo, err := container.MemberRepository()
				if err != nil {
					return err
				}

				apiKeyUseCase, err := container.APIKeyUseCase()
				if err != nil {
					return err
				}

				return commands.RunCreateAPIKey(
					ctx,
					memberRepo,
					apiKeyUseCase,
					container.Logger(),
					commands.DefaultIO().Writer,
					commands.CreateAPIKeyInput{
						MemberUUID:  cmd.String("member-uuid"),
						Memo:        cmd.String("memo"),
						Permissions: cmd.StringSlice("permission"),
						Format:      cmd.String("format"),
					},
				)
			},
		},
	}
}
