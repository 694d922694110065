// Package cli provides the cobra command tree for the codeaid binary.
package cli

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
	"github.com/custodia-labs/codeaid/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services wired in by main.
var (
	ingestService   driving.IngestService
	askService      driving.AskService
	documentService driving.DocumentService
	feedbackService driving.FeedbackService
	settingsService driving.SettingsService
	aiValidator     driven.AIConfigValidator
)

// Services holds the core services the commands call.
// Nil fields make the commands that need them fail with a "not configured" error.
type Services struct {
	Ingest    driving.IngestService
	Ask       driving.AskService
	Documents driving.DocumentService
	Feedback  driving.FeedbackService
	Settings  driving.SettingsService
	Validator driven.AIConfigValidator
}

// SetServices installs the services used by all commands.
func SetServices(s Services) {
	ingestService = s.Ingest
	askService = s.Ask
	documentService = s.Documents
	feedbackService = s.Feedback
	settingsService = s.Settings
	aiValidator = s.Validator
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

var rootCmd = &cobra.Command{
	Use:   "codeaid",
	Short: "Ask questions about your technical documents",
	Long: `CodeAid ingests technical documents and answers questions about them
using retrieval-augmented generation.

Upload files with 'codeaid upload', then ask with 'codeaid ask' or open the
interactive chat with 'codeaid chat'. 'codeaid serve' exposes the same
operations over HTTP and 'codeaid mcp serve' over the Model Context Protocol.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// writeJSON prints v as indented JSON to the command's output.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
