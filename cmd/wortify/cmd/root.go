// Package cmd contains the Wortify CLI commands.
package cmd

import (
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pitsorgalla/Wortify/internal/app"
	"github.com/pitsorgalla/Wortify/internal/config"
	"github.com/pitsorgalla/Wortify/internal/dictionary"
	"github.com/pitsorgalla/Wortify/internal/logging"
	"github.com/pitsorgalla/Wortify/internal/tui"
	"github.com/pitsorgalla/Wortify/internal/wiki"
)

var (
	cfgFile     string
	noAltScreen bool
	settings    = viper.New()
)

var rootCmd = &cobra.Command{
	Use:   "wortify",
	Short: "Read a random encyclopedia article and look up its words",
	Long: `Wortify shows a random Wikipedia article in the terminal. Move the word
cursor or type a phrase to select text, then press enter to fetch a
definition from WordsAPI.

Set WORTIFY_DICTIONARY_KEY (in the environment or a .env file) to enable
definitions. Running 'wortify' without arguments launches the TUI.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/wortify/config.yaml)")
	rootCmd.Flags().BoolVar(&noAltScreen, "no-alt-screen", false, "disable the alternate screen buffer")
	if err := config.BindFlags(settings, rootCmd.PersistentFlags()); err != nil {
		panic(err)
	}
}

// runtime holds the configured collaborators shared by every command.
type runtime struct {
	cfg         config.Config
	logger      *logrus.Logger
	closer      io.Closer
	articles    *wiki.Client
	definitions *dictionary.Client
}

func setup() (*runtime, error) {
	cfg, err := config.Load(settings, config.Options{File: cfgFile, DotEnv: []string{".env"}})
	if err != nil {
		return nil, err
	}
	logger, closer := logging.New(cfg.Log.File, cfg.Log.Level)
	rt := &runtime{
		cfg:    cfg,
		logger: logger,
		closer: closer,
		articles: wiki.NewClient(wiki.Config{
			RESTURL:           cfg.Wiki.RESTURL,
			ActionURL:         cfg.Wiki.ActionURL,
			UserAgent:         cfg.HTTP.UserAgent,
			RequestsPerSecond: cfg.HTTP.RequestsPerSecond,
		}),
		definitions: dictionary.NewClient(dictionary.Config{
			URL:       cfg.Dictionary.URL,
			Host:      cfg.Dictionary.Host,
			Key:       cfg.Dictionary.Key,
			UserAgent: cfg.HTTP.UserAgent,
			CacheTTL:  cfg.Dictionary.CacheTTL,
		}),
	}
	entry := logger.WithFields(logrus.Fields{
		"wiki":       cfg.Wiki.RESTURL,
		"dictionary": rt.definitions.Name(),
		"max":        cfg.Selection.MaxLength,
		"unit":       cfg.Selection.Unit,
	})
	if cfg.Dictionary.Key == "" {
		entry.Warn("no dictionary key configured; definitions will fail")
	} else {
		entry.Info("configured")
	}
	return rt, nil
}

func (rt *runtime) machine() *app.Machine {
	return app.New(app.Options{
		Articles:          rt.articles,
		Definitions:       rt.definitions,
		Tracker:           rt.cfg.Tracker(),
		ArticleTimeout:    rt.cfg.HTTP.ArticleTimeout,
		DefinitionTimeout: rt.cfg.HTTP.DefinitionTimeout,
		Logger:            rt.logger,
	})
}

func (rt *runtime) Close() {
	_ = rt.closer.Close()
}

func runTUI(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if !noAltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(tui.New(tui.Config{
		Machine:          rt.machine(),
		Logger:           rt.logger,
		DefinitionSource: rt.definitions.Name(),
	}), opts...)

	if _, err := program.Run(); err != nil {
		rt.logger.WithError(err).Error("program exited")
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}
