package cmd

import (
	"context"
	"fmt"

	"github.com/muesli/reflow/wordwrap"
	"github.com/spf13/cobra"

	"github.com/pitsorgalla/Wortify/internal/app"
)

var randomWidth int

var randomCmd = &cobra.Command{
	Use:   "random",
	Short: "Print a random article and exit",
	Long: `Fetch one random article the same way the TUI does and print its title
and text to stdout.

Example:
  wortify random
  wortify random --width 60`,
	Args: cobra.NoArgs,
	RunE: runRandom,
}

func init() {
	randomCmd.Flags().IntVar(&randomWidth, "width", 80, "wrap text at this many columns (0 disables wrapping)")
	rootCmd.AddCommand(randomCmd)
}

func runRandom(cmd *cobra.Command, args []string) error {
	rt, err := setup()
	if err != nil {
		return err
	}
	defer rt.Close()

	state := drive(cmd.Context(), rt.machine())
	switch state := state.(type) {
	case app.Ready:
		body := state.Article.Body
		if randomWidth > 0 {
			body = wordwrap.String(body, randomWidth)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\n\n%s\n", state.Article.Title, body)
		return nil
	case app.Failure:
		return fmt.Errorf("fetching article: %w", state.Err)
	default:
		return fmt.Errorf("fetching article: ended in %s", app.StateName(state))
	}
}

// drive runs one article cycle synchronously and returns the final state.
func drive(ctx context.Context, m *app.Machine) app.ViewState {
	if ctx == nil {
		ctx = context.Background()
	}
	req := m.Start()
	for {
		next, ok := m.Handle(req.Run(ctx))
		if !ok {
			return m.State()
		}
		req = next
	}
}
