package config

import (
	"context"
	"errors"
	"os"

	"github.com/thomas-vilte/agenda-generator/internal/commands/completion_helper"
	"github.com/thomas-vilte/agenda-generator/internal/config"
	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
	"github.com/thomas-vilte/agenda-generator/internal/i18n"
	"github.com/thomas-vilte/agenda-generator/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newInitCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: t.GetMessage("config.init_usage", 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   t.GetMessage("config.flag_force", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, command *cli.Command) error {
			return c.initConfig(cfg, t, command.Bool("force"))
		},
	}
}

// initConfig writes the default settings to the config path. Values that came
// from the environment, like the token, are not persisted.
func (c *ConfigCommandFactory) initConfig(cfg *config.Config, t *i18n.Translations, force bool) error {
	if _, err := os.Stat(cfg.PathFile); err == nil && !force {
		return domainErrors.ErrConfigExists.WithContext("path", cfg.PathFile)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return domainErrors.ErrConfigRead.WithError(err).WithContext("path", cfg.PathFile)
	}

	fresh := config.Default()
	fresh.PathFile = cfg.PathFile
	fresh.Language = cfg.Language
	if err := config.SaveConfig(fresh); err != nil {
		return err
	}

	ui.PrintSuccess(c.out, t.GetMessage("config.initialized", 0, map[string]interface{}{"Path": cfg.PathFile}))
	return nil
}
