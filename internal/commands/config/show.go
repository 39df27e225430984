package config

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/thomas-vilte/agenda-generator/internal/config"
	"github.com/thomas-vilte/agenda-generator/internal/i18n"
	"github.com/thomas-vilte/agenda-generator/internal/ui"
	"github.com/urfave/cli/v3"
)

func (c *ConfigCommandFactory) newShowCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "show",
		Usage: t.GetMessage("config.show_usage", 0, nil),
		Action: func(ctx context.Context, command *cli.Command) error {
			printConfig(c.out, cfg, t)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config, t *i18n.Translations) {
	_, _ = ui.Info.Fprintf(w, "%s\n", t.GetMessage("config.title", 0, nil))
	ui.PrintKeyValue(w, t.GetMessage("config.path", 0, nil), cfg.PathFile)
	ui.PrintKeyValue(w, t.GetMessage("config.language", 0, nil), cfg.Language)
	ui.PrintKeyValue(w, t.GetMessage("config.github_api_url", 0, nil), cfg.GitHub.APIURL)
	ui.PrintKeyValue(w, t.GetMessage("config.user_agent", 0, nil), cfg.GitHub.UserAgent)
	ui.PrintKeyValue(w, t.GetMessage("config.token", 0, nil), tokenStatus(cfg.GitHub.Token, t))
	ui.PrintKeyValue(w, t.GetMessage("config.rfcbot_url", 0, nil), cfg.RFCBot.URL)
	ui.PrintKeyValue(w, t.GetMessage("config.stale_filter", 0, nil), strconv.FormatBool(cfg.FCP.StaleFilter))
	ui.PrintKeyValue(w, t.GetMessage("config.min_age", 0, nil), cfg.FCP.MinAge.String())
	ui.PrintKeyValue(w, t.GetMessage("config.quiet_period", 0, nil), cfg.FCP.QuietPeriod.String())
}

// tokenStatus never prints more than the last four characters of the token.
func tokenStatus(token string, t *i18n.Translations) string {
	if token == "" {
		return t.GetMessage("config.token_unset", 0, nil)
	}
	suffix := token
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	} else {
		suffix = ""
	}
	return fmt.Sprintf("%s (****%s)", t.GetMessage("config.token_set", 0, nil), suffix)
}
