package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/thomas-vilte/agenda-generator/internal/config"
	"github.com/thomas-vilte/agenda-generator/internal/i18n"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newEditCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:   "edit",
		Usage:  t.GetMessage("config.edit_usage", 0, nil),
		Action: editConfigAction(cfg, t),
	}
}

func editConfigAction(cfg *config.Config, t *i18n.Translations) cli.ActionFunc {
	return func(ctx context.Context, command *cli.Command) error {
		if _, err := os.Stat(cfg.PathFile); errors.Is(err, os.ErrNotExist) {
			return errors.New(t.GetMessage("config.error_missing", 0, map[string]interface{}{"Path": cfg.PathFile}))
		}

		editor, err := findEditor()
		if err != nil {
			return errors.New(t.GetMessage("config.error_no_editor", 0, nil))
		}

		cmd := exec.CommandContext(ctx, editor, cfg.PathFile)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", t.GetMessage("config.error_opening_editor", 0, nil), err)
		}
		return nil
	}
}

func findEditor() (string, error) {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor, nil
	}
	for _, candidate := range []string{"nano", "vim", "vi"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate, nil
		}
	}
	return "", errors.New("no editor found")
}
