package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pitsorgalla/Wortify/internal/selection"
)

var defineCmd = &cobra.Command{
	Use:   "define <phrase>",
	Short: "Look up a phrase and print its first definition",
	Long: `Look up a word or phrase with the configured dictionary service.

Example:
  wortify define serendipity
  wortify define red fox`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDefine,
}

func init() {
	rootCmd.AddCommand(defineCmd)
}

func runDefine(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	phrase, err := checkPhrase(rt.cfg.Tracker(), args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout := rt.cfg.HTTP.DefinitionTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	text, err := rt.definitions.Define(ctx, phrase)
	if err != nil {
		rt.logger.WithError(err).WithField("phrase", phrase).Warn("definition lookup failed")
		return fmt.Errorf("defining %q: %w", phrase, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", phrase, text)
	return nil
}

// checkPhrase joins args and applies the tracker's blank and length rules.
func checkPhrase(tracker selection.Tracker, args []string) (string, error) {
	phrase := strings.TrimSpace(strings.Join(args, " "))
	if phrase == "" {
		return "", selection.ErrEmptySelection
	}
	limit := tracker.Empty().MaxLength
	if n := tracker.Measure(phrase); n > limit {
		return "", fmt.Errorf("phrase is %d %s long; the limit is %d: %w", n, unitName(tracker.Unit), limit, selection.ErrTooLong)
	}
	return phrase, nil
}

func unitName(u selection.Unit) string {
	if u == "" {
		return string(selection.Characters)
	}
	return string(u)
}
