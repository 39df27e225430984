package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
	domainErrors "github.com/thomas-vilte/agenda-generator/internal/errors"
)

type (
	Config struct {
		Language string       `toml:"language" env:"AGENDA_LANGUAGE"`
		GitHub   GitHubConfig `toml:"github"`
		RFCBot   RFCBotConfig `toml:"rfcbot"`
		FCP      FCPConfig    `toml:"fcp"`

		PathFile string `toml:"-"`
	}

	GitHubConfig struct {
		// Token is optional; unauthenticated requests work but are rate-limited.
		Token     string `toml:"token" env:"GITHUB_TOKEN"`
		APIURL    string `toml:"api_url" env:"AGENDA_GITHUB_API_URL"`
		UserAgent string `toml:"user_agent" env:"AGENDA_USER_AGENT"`
	}

	RFCBotConfig struct {
		URL string `toml:"url" env:"AGENDA_RFCBOT_URL"`
	}

	// FCPConfig controls the staleness gate on the FCP section. It is off
	// unless StaleFilter is set.
	FCPConfig struct {
		StaleFilter bool          `toml:"stale_filter" env:"AGENDA_STALE_FCPS"`
		MinAge      time.Duration `toml:"min_age" env:"AGENDA_FCP_MIN_AGE"`
		QuietPeriod time.Duration `toml:"quiet_period" env:"AGENDA_FCP_QUIET_PERIOD"`
	}
)

const (
	LangEN = "en"
	LangES = "es"

	DefaultGitHubAPIURL = "https://api.github.com/"
	DefaultRFCBotURL    = "https://rfcbot.rs"
	DefaultUserAgent    = "rust-lang libs agenda maker"

	defaultMinAge      = 4 * 7 * 24 * time.Hour
	defaultQuietPeriod = 5 * 24 * time.Hour

	configDirName  = ".agenda-generator"
	configFileName = "config.toml"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Language: LangEN,
		GitHub: GitHubConfig{
			APIURL:    DefaultGitHubAPIURL,
			UserAgent: DefaultUserAgent,
		},
		RFCBot: RFCBotConfig{
			URL: DefaultRFCBotURL,
		},
		FCP: FCPConfig{
			StaleFilter: false,
			MinAge:      defaultMinAge,
			QuietPeriod: defaultQuietPeriod,
		},
	}
}

// LoadConfig reads the TOML config at path (or <path>/.agenda-generator/config.toml
// when path is a directory) and applies environment overrides. A missing file
// is not an error; nothing is ever written back.
func LoadConfig(path string) (*Config, error) {
	return load(path, env.Options{})
}

func load(path string, envOpts env.Options) (*Config, error) {
	configPath := path
	if filepath.Ext(path) != ".toml" {
		configPath = filepath.Join(path, configDirName, configFileName)
	}

	cfg := Default()
	cfg.PathFile = configPath

	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", configPath)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, domainErrors.ErrConfigRead.WithError(err).WithContext("path", configPath)
	}

	if err := env.ParseWithOptions(cfg, envOpts); err != nil {
		return nil, domainErrors.ErrConfigEnv.WithError(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SaveConfig writes cfg as TOML to cfg.PathFile, creating the directory if
// needed. The file may hold a token, so it is only readable by the owner.
func SaveConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.PathFile == "" {
		return domainErrors.ErrConfigWrite.WithError(errors.New("config path is not set"))
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PathFile), 0o755); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", cfg.PathFile)
	}

	f, err := os.OpenFile(cfg.PathFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", cfg.PathFile)
	}
	defer func() {
		_ = f.Close()
	}()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return domainErrors.ErrConfigWrite.WithError(err).WithContext("path", cfg.PathFile)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Language == "" {
		return domainErrors.ErrConfigInvalid.WithError(errors.New("language cannot be empty"))
	}
	if err := validateURL(c.GitHub.APIURL); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(fmt.Errorf("github.api_url: %w", err))
	}
	if err := validateURL(c.RFCBot.URL); err != nil {
		return domainErrors.ErrConfigInvalid.WithError(fmt.Errorf("rfcbot.url: %w", err))
	}
	if c.FCP.MinAge <= 0 {
		return domainErrors.ErrConfigInvalid.WithError(errors.New("fcp.min_age must be greater than 0"))
	}
	if c.FCP.QuietPeriod <= 0 {
		return domainErrors.ErrConfigInvalid.WithError(errors.New("fcp.quiet_period must be greater than 0"))
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("missing host")
	}
	return nil
}
