package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your documents",
	Long: `Answer a question using the most relevant chunks of the uploaded
documents as context. All arguments are joined into one question.

The printed message ID can be passed to 'codeaid feedback submit' to rate
the answer.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

var (
	askJSON        bool
	askShowSources bool
)

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the answer as JSON")
	askCmd.Flags().BoolVarP(&askShowSources, "sources", "s", true, "Show the chunks the answer was based on")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return errors.New("ask service not configured")
	}

	question := strings.Join(args, " ")
	answer, err := askService.AnswerQuestion(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("failed to answer: %w", err)
	}

	if askJSON {
		return writeJSON(cmd, dto.NewAnswer(answer))
	}

	cmd.Println(answer.Answer)

	if askShowSources && len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for i := range answer.Sources {
			src := &answer.Sources[i]
			cmd.Printf("  [%d] %s (chunk %d, score %.3f)\n",
				i+1, src.Document.Filename, src.Chunk.Position, src.Score)
		}
	}

	cmd.Printf("\nMessage ID: %s\n", answer.ID)
	return nil
}
