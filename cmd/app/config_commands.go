package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/allisson/idp/cmd/app/commands"
	"github.com/allisson/idp/internal/app"
	"github.com/allisson/idp/internal/config"
)

func getConfigCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "validate-config",
			Usage: "Validate a configuration document file without storing it",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "file",
					Aliases:  []string{"i"},
					Required: true,
					Usage:    "Path to the configuration document JSON file",
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

				return commands.RunValidateConfig(
					container.Logger(),
					commands.DefaultIO().Writer,
					cmd.String("file"),
					cmd.String("format"),
				)
			},
		},
		{
			Name:  "clear-config",
			Usage: "Overwrite an instance's configuration with the empty record",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     "instance",
					Aliases:  []string{"n"},
					Required: true,
					Usage:    "Name of the identity provider instance",
				},
				&cli.BoolFlag{
					Name:    "yes",
					Aliases: []string{"y"},
					Value:   false,
					Usage:   "Skip the confirmation prompt",
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

				configUseCase, err := container.ConfigUseCase()
				if err != nil {
					return err
				}

				return commands.RunClearConfig(
					ctx,
					configUseCase,
					container.Logger(),
					commands.DefaultIO(),
					cmd.String("instance"),
					cmd.Bool("yes"),
					cmd.String("format"),
				)
			},
		},
	}
}
