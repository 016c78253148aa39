package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/verdict/internal/adapters/driving/tui"
)

// programRunner runs a bubbletea model. Tests replace it.
var programRunner = func(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface.

Ask questions and read the answer next to the chunks it was grounded on,
or retrieve chunks for a query without generating an answer.

Controls:
  ↑/k, ↓/j - Navigate sources and results
  Enter    - Submit / Open chunk
  n        - New question
  Esc      - Back
  ctrl+c   - Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	s, err := serving()
	if err != nil {
		return describe(err)
	}

	app, err := tui.NewApp(&tui.Ports{
		Answer:    s.Answer,
		Retrieval: s.Retrieval,
		TopK:      topKOrDefault(0, s),
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if err := programRunner(app); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
