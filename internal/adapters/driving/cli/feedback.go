package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Rate answers",
	Long:  `Record how useful an answer was, and list recorded ratings.`,
}

var feedbackSubmitCmd = &cobra.Command{
	Use:   "submit [message-id] [rating]",
	Short: "Rate an answer from 1 to 5",
	Args:  cobra.ExactArgs(2),
	RunE:  runFeedbackSubmit,
}

var feedbackListCmd = &cobra.Command{
	Use:   "list [message-id]",
	Short: "List ratings, optionally for one answer",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runFeedbackList,
}

var (
	feedbackComment string
	feedbackJSON    bool
)

func init() {
	feedbackSubmitCmd.Flags().StringVarP(&feedbackComment, "comment", "c", "", "Optional comment")
	feedbackCmd.PersistentFlags().BoolVar(&feedbackJSON, "json", false, "Print results as JSON")

	feedbackCmd.AddCommand(feedbackSubmitCmd)
	feedbackCmd.AddCommand(feedbackListCmd)
	rootCmd.AddCommand(feedbackCmd)
}

func runFeedbackSubmit(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	rating, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("rating must be a number from 1 to 5, got %q", args[1])
	}

	fb, err := feedbackService.Submit(cmd.Context(), args[0], rating, feedbackComment)
	if err != nil {
		return fmt.Errorf("failed to submit feedback: %w", err)
	}

	if feedbackJSON {
		return writeJSON(cmd, dto.FeedbackResponse{Success: true, Feedback: dto.NewFeedback(fb)})
	}
	cmd.Printf("Recorded rating %d/5 for %s (feedback %s)\n", fb.Rating, fb.MessageID, fb.ID)
	return nil
}

func runFeedbackList(cmd *cobra.Command, args []string) error {
	if feedbackService == nil {
		return errors.New("feedback service not configured")
	}

	var messageID string
	if len(args) == 1 {
		messageID = args[0]
	}

	items, err := feedbackService.List(cmd.Context(), messageID)
	if err != nil {
		return fmt.Errorf("failed to list feedback: %w", err)
	}

	if feedbackJSON {
		out := make([]dto.Feedback, len(items))
		for i := range items {
			out[i] = dto.NewFeedback(&items[i])
		}
		return writeJSON(cmd, map[string][]dto.Feedback{"feedback": out})
	}

	if len(items) == 0 {
		cmd.Println("No feedback recorded.")
		return nil
	}
	for i := range items {
		cmd.Printf("  %s  %d/5  %s", items[i].CreatedAt.Format("2006-01-02 15:04"), items[i].Rating, items[i].MessageID)
		if items[i].Comment != "" {
			cmd.Printf("  %q", items[i].Comment)
		}
		cmd.Println()
	}
	cmd.Printf("Total: %d ratings\n", len(items))
	return nil
}
