package main

import (
	"context"
	"fmt"
	"os"

	"github.com/thomas-vilte/agenda-generator/internal/agenda"
	agendacmd "github.com/thomas-vilte/agenda-generator/internal/commands/agenda"
	configcmd "github.com/thomas-vilte/agenda-generator/internal/commands/config"
	"github.com/thomas-vilte/agenda-generator/internal/commands/registry"
	cfg "github.com/thomas-vilte/agenda-generator/internal/config"
	"github.com/thomas-vilte/agenda-generator/internal/i18n"
	"github.com/thomas-vilte/agenda-generator/internal/ui"
	"github.com/thomas-vilte/agenda-generator/internal/version"
	"github.com/urfave/cli/v3"
)

func main() {
	app, translations, err := initializeApp()
	if err != nil {
		ui.HandleAppError(os.Stderr, err, nil)
		os.Exit(1)
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		ui.HandleAppError(os.Stderr, err, translations)
		os.Exit(1)
	}
}

func initializeApp() (*cli.Command, *i18n.Translations, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, nil, fmt.Errorf("could not resolve the home directory: %w", err)
	}

	cfgApp, err := cfg.LoadConfig(homeDir)
	if err != nil {
		return nil, nil, err
	}

	translations, err := i18n.NewTranslations(cfgApp.Language, "")
	if err != nil {
		return nil, nil, err
	}

	app, err := newApp(cfgApp, translations)
	if err != nil {
		return nil, nil, err
	}
	return app, translations, nil
}

func newApp(cfgApp *cfg.Config, translations *i18n.Translations) (*cli.Command, error) {
	registerCommand := registry.NewRegistry(cfgApp, translations)

	for _, variant := range agenda.Variants() {
		if err := registerCommand.Register(string(variant), agendacmd.NewAgendaCommandFactory(variant, agendacmd.NewGenerator)); err != nil {
			return nil, err
		}
	}

	if err := registerCommand.Register("config", configcmd.NewConfigCommandFactory()); err != nil {
		return nil, err
	}

	commands := registerCommand.CreateCommands()

	versionCommand := &cli.Command{
		Name:  "version",
		Usage: translations.GetMessage("version_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(cmd.Root().Writer, version.FullVersion())
			return err
		},
	}
	commands = append(commands, versionCommand)

	helpCommand := &cli.Command{
		Name:    "help",
		Aliases: []string{"h"},
		Usage:   translations.GetMessage("help_command_usage", 0, nil),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
	}
	commands = append(commands, helpCommand)

	return &cli.Command{
		Name:                  "agenda-generator",
		Usage:                 translations.GetMessage("app_usage", 0, nil),
		Version:               version.Version,
		Description:           translations.GetMessage("app_description", 0, nil),
		Commands:              commands,
		EnableShellCompletion: true,
	}, nil
}
