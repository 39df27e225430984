package agenda

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	agendasvc "github.com/thomas-vilte/agenda-generator/internal/agenda"
	"github.com/thomas-vilte/agenda-generator/internal/commands/completion_helper"
	"github.com/thomas-vilte/agenda-generator/internal/config"
	"github.com/thomas-vilte/agenda-generator/internal/i18n"
	"github.com/thomas-vilte/agenda-generator/internal/logger"
	"github.com/thomas-vilte/agenda-generator/internal/rfcbot"
	"github.com/thomas-vilte/agenda-generator/internal/ui"
	"github.com/thomas-vilte/agenda-generator/internal/vcs/github"
	"github.com/urfave/cli/v3"
)

type Generator interface {
	Generate(ctx context.Context, variant agendasvc.Variant) (string, error)
}

// GeneratorFactory builds a Generator from the effective configuration of one run.
type GeneratorFactory func(cfg *config.Config) (Generator, error)

var usageKeys = map[agendasvc.Variant]string{
	agendasvc.VariantLibsAPI:       "agenda.libs_api_usage",
	agendasvc.VariantLibs:          "agenda.libs_usage",
	agendasvc.VariantErrorHandling: "agenda.error_handling_usage",
}

type AgendaCommandFactory struct {
	variant      agendasvc.Variant
	newGenerator GeneratorFactory
	out          io.Writer
	errOut       io.Writer
	copy         func(string) error
}

// NewAgendaCommandFactory returns the factory for the command that prints the
// agenda of variant on stdout.
func NewAgendaCommandFactory(variant agendasvc.Variant, newGenerator GeneratorFactory) *AgendaCommandFactory {
	if newGenerator == nil {
		newGenerator = NewGenerator
	}
	return &AgendaCommandFactory{
		variant:      variant,
		newGenerator: newGenerator,
		out:          os.Stdout,
		errOut:       os.Stderr,
		copy:         clipboard.WriteAll,
	}
}

func (f *AgendaCommandFactory) CreateCommand(t *i18n.Translations, cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  string(f.variant),
		Usage: t.GetMessage(usageKeys[f.variant], 0, nil),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "stale-fcps",
				Usage: t.GetMessage("agenda.flag_stale_fcps", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "clipboard",
				Aliases: []string{"c"},
				Usage:   t.GetMessage("agenda.flag_clipboard", 0, nil),
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: t.GetMessage("agenda.flag_debug", 0, nil),
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   t.GetMessage("agenda.flag_verbose", 0, nil),
			},
		},
		ShellComplete: completion_helper.DefaultFlagComplete,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return f.run(ctx, cmd, t, cfg)
		},
	}
}

func (f *AgendaCommandFactory) run(ctx context.Context, cmd *cli.Command, t *i18n.Translations, cfg *config.Config) error {
	log := logger.Initialize(f.errOut, cmd.Bool("debug"), cmd.Bool("verbose"))
	ctx = logger.WithLogger(ctx, log)

	runCfg := *cfg
	if cmd.Bool("stale-fcps") {
		runCfg.FCP.StaleFilter = true
	}

	if runCfg.GitHub.Token == "" {
		ui.PrintWarning(f.errOut, t.GetMessage("agenda.no_token", 0, nil))
	}

	gen, err := f.newGenerator(&runCfg)
	if err != nil {
		return err
	}

	var doc string
	generating := t.GetMessage("agenda.generating", 0, map[string]interface{}{"Variant": string(f.variant)})
	err = ui.WithSpinnerAndDuration(f.errOut, generating, func() (string, error) {
		out, err := gen.Generate(ctx, f.variant)
		if err != nil {
			return "", err
		}
		doc = out
		n := strings.Count(out, "\n")
		return t.GetMessage("agenda.generated", n, map[string]interface{}{"Count": n}), nil
	})
	if err != nil {
		logger.Error(ctx, "agenda generation failed", err, "variant", string(f.variant))
		return err
	}

	if _, err := fmt.Fprint(f.out, doc); err != nil {
		return err
	}

	if cmd.Bool("clipboard") {
		if err := f.copy(doc); err != nil {
			ui.PrintWarning(f.errOut, fmt.Sprintf("%s: %v", t.GetMessage("agenda.error_clipboard", 0, nil), err))
		} else {
			ui.PrintSuccess(f.errOut, t.GetMessage("agenda.copied", 0, nil))
		}
	}

	return nil
}

// NewGenerator wires the GitHub and rfcbot clients described by cfg. rfcbot
// gets a plain HTTP client so the GitHub token stays with GitHub.
func NewGenerator(cfg *config.Config) (Generator, error) {
	tracker, err := github.NewGitHubClient(cfg.GitHub.APIURL, cfg.GitHub.Token, cfg.GitHub.UserAgent)
	if err != nil {
		return nil, err
	}
	proposals := rfcbot.NewClient(cfg.RFCBot.URL, cfg.GitHub.UserAgent, &http.Client{})

	return agendasvc.NewGenerator(tracker, proposals, agendasvc.Options{
		StaleFilter: agendasvc.StaleFilter{
			Enabled:     cfg.FCP.StaleFilter,
			MinAge:      cfg.FCP.MinAge,
			QuietPeriod: cfg.FCP.QuietPeriod,
		},
		RFCBotURL: cfg.RFCBot.URL,
	}), nil
}
