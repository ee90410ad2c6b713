// Package config loads Wortify settings from flags, the environment, an
// optional YAML file and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/pitsorgalla/Wortify/internal/dictionary"
	"github.com/pitsorgalla/Wortify/internal/selection"
	"github.com/pitsorgalla/Wortify/internal/wiki"
)

const (
	// EnvPrefix is prepended to every environment override, e.g.
	// WORTIFY_DICTIONARY_KEY.
	EnvPrefix = "WORTIFY"

	configFileName = "config.yaml"
	appDirName     = "wortify"
	defaultAgent   = "wortify/0.1 (+https://github.com/pitsorgalla/Wortify)"
)

// Config holds every runtime setting.
type Config struct {
	Wiki       WikiConfig       `mapstructure:"wiki" yaml:"wiki"`
	Dictionary DictionaryConfig `mapstructure:"dictionary" yaml:"dictionary"`
	Selection  SelectionConfig  `mapstructure:"selection" yaml:"selection"`
	HTTP       HTTPConfig       `mapstructure:"http" yaml:"http"`
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
}

// WikiConfig locates the article endpoints.
type WikiConfig struct {
	RESTURL   string `mapstructure:"rest_url" yaml:"rest_url"`
	ActionURL string `mapstructure:"action_url" yaml:"action_url"`
}

// DictionaryConfig locates the definition service. Host and Key are secrets
// and are expected from the environment.
type DictionaryConfig struct {
	URL      string        `mapstructure:"url" yaml:"url"`
	Host     string        `mapstructure:"host" yaml:"host,omitempty"`
	Key      string        `mapstructure:"key" yaml:"key,omitempty"`
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
}

// SelectionConfig bounds selections.
type SelectionConfig struct {
	MaxLength int    `mapstructure:"max_length" yaml:"max_length"`
	Unit      string `mapstructure:"unit" yaml:"unit"`
}

// HTTPConfig tunes outgoing requests.
type HTTPConfig struct {
	ArticleTimeout    time.Duration `mapstructure:"article_timeout" yaml:"article_timeout"`
	DefinitionTimeout time.Duration `mapstructure:"definition_timeout" yaml:"definition_timeout"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	// RequestsPerSecond paces article requests. Zero disables pacing.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`
}

// LogConfig controls the log file. An empty File discards logs.
type LogConfig struct {
	File  string `mapstructure:"file" yaml:"file"`
	Level string `mapstructure:"level" yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Wiki: WikiConfig{
			RESTURL:   wiki.DefaultRESTURL,
			ActionURL: wiki.DefaultActionURL,
		},
		Dictionary: DictionaryConfig{
			URL:      dictionary.DefaultURL,
			Host:     dictionary.DefaultHost,
			CacheTTL: time.Hour,
		},
		Selection: SelectionConfig{
			MaxLength: selection.DefaultMaxLength,
			Unit:      string(selection.Characters),
		},
		HTTP: HTTPConfig{
			ArticleTimeout:    20 * time.Second,
			UserAgent:         defaultAgent,
			RequestsPerSecond: 5,
		},
		Log: LogConfig{Level: "info"},
	}
}

// Options controls where Load looks.
type Options struct {
	// File is an explicit config path; it must exist when set.
	File string
	// DotEnv lists .env files to load into the environment first. Missing
	// files are skipped.
	DotEnv []string
}

// Load resolves the configuration using v, which may already have flags bound
// via BindFlags.
func Load(v *viper.Viper, opts Options) (Config, error) {
	for _, path := range opts.DotEnv {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	setDefaults(v, Default())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch {
	case opts.File != "":
		v.SetConfigFile(opts.File)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
	default:
		if path, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				v.SetConfigFile(path)
				if err := v.ReadInConfig(); err != nil {
					return Config{}, fmt.Errorf("reading config file: %w", err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("wiki.rest_url", d.Wiki.RESTURL)
	v.SetDefault("wiki.action_url", d.Wiki.ActionURL)
	v.SetDefault("dictionary.url", d.Dictionary.URL)
	v.SetDefault("dictionary.host", d.Dictionary.Host)
	v.SetDefault("dictionary.key", d.Dictionary.Key)
	v.SetDefault("dictionary.cache_ttl", d.Dictionary.CacheTTL)
	v.SetDefault("selection.max_length", d.Selection.MaxLength)
	v.SetDefault("selection.unit", d.Selection.Unit)
	v.SetDefault("http.article_timeout", d.HTTP.ArticleTimeout)
	v.SetDefault("http.definition_timeout", d.HTTP.DefinitionTimeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.requests_per_second", d.HTTP.RequestsPerSecond)
	v.SetDefault("log.file", d.Log.File)
	v.SetDefault("log.level", d.Log.Level)
}

// BindFlags registers the command-line overrides on flags and binds them to v.
func BindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	d := Default()
	flags.String("wiki-rest-url", d.Wiki.RESTURL, "base URL of the random-title REST API")
	flags.String("wiki-action-url", d.Wiki.ActionURL, "URL of the article extract API")
	flags.String("dictionary-url", d.Dictionary.URL, "base URL of the definition API")
	flags.Int("max-selection", d.Selection.MaxLength, "maximum selection length")
	flags.String("selection-unit", d.Selection.Unit, "unit for --max-selection (characters|words)")
	flags.String("log-file", d.Log.File, "write logs to this file (default: discard)")
	flags.String("log-level", d.Log.Level, "log level (debug|info|warn|error)")

	bindings := map[string]string{
		"wiki.rest_url":        "wiki-rest-url",
		"wiki.action_url":      "wiki-action-url",
		"dictionary.url":       "dictionary-url",
		"selection.max_length": "max-selection",
		"selection.unit":       "selection-unit",
		"log.file":             "log-file",
		"log.level":            "log-level",
	}
	for key, name := range bindings {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return fmt.Errorf("binding --%s: %w", name, err)
		}
	}
	return nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	for name, raw := range map[string]string{
		"wiki.rest_url":   c.Wiki.RESTURL,
		"wiki.action_url": c.Wiki.ActionURL,
		"dictionary.url":  c.Dictionary.URL,
	} {
		if err := validateURL(raw); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if _, err := c.SelectionUnit(); err != nil {
		return fmt.Errorf("selection.unit: %w", err)
	}
	if c.Selection.MaxLength <= 0 {
		return fmt.Errorf("selection.max_length must be positive, got %d", c.Selection.MaxLength)
	}
	if c.HTTP.ArticleTimeout < 0 || c.HTTP.DefinitionTimeout < 0 {
		return errors.New("http timeouts cannot be negative")
	}
	if c.HTTP.RequestsPerSecond < 0 {
		return errors.New("http.requests_per_second cannot be negative")
	}
	if c.Dictionary.CacheTTL < 0 {
		return errors.New("dictionary.cache_ttl cannot be negative")
	}
	return nil
}

// SelectionUnit parses Selection.Unit.
func (c Config) SelectionUnit() (selection.Unit, error) {
	return selection.ParseUnit(c.Selection.Unit)
}

// Tracker builds the selection tracker described by c.
func (c Config) Tracker() selection.Tracker {
	unit, err := c.SelectionUnit()
	if err != nil {
		unit = selection.Characters
	}
	return selection.Tracker{MaxLength: c.Selection.MaxLength, Unit: unit}
}

func validateURL(raw string) error {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return err
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("unsupported scheme in %q", raw)
	}
	if parsed.Host == "" {
		return fmt.Errorf("missing host in %q", raw)
	}
	return nil
}

// DefaultPath returns the config file location under the user config dir.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName, configFileName), nil
}

// WriteDefault writes the built-in settings to path as YAML, leaving secrets
// out. Existing files are not overwritten.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cfg := Default()
	cfg.Dictionary.Key = ""
	out, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	header := "# Wortify configuration.\n# Set " + EnvPrefix + "_DICTIONARY_KEY (and optionally " + EnvPrefix + "_DICTIONARY_HOST) in the environment or a .env file.\n"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(header), out...), 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
