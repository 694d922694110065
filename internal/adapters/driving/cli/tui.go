package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/tui"
)

// chatCmd launches the interactive terminal UI.
var chatCmd = &cobra.Command{
	Use:     "chat",
	Aliases: []string{"tui"},
	Short:   "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for CodeAid.

Ask questions and read answers with their sources, rate answers, and
browse or delete uploaded documents.

Controls:
  Enter    - Ask / Select
  Tab      - Switch between input and transcript
  1-5      - Rate the last answer (transcript)
  ↑/k, ↓/j - Navigate / Scroll
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Ask:       askService,
		Documents: documentService,
		Feedback:  feedbackService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
