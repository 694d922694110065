package cli

import (
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Keep a directory ingested",
	Long: `Watch a directory tree and keep its files in the knowledge base.

New and modified files are uploaded; a modified file replaces its previous
document. Deleted files have their documents removed. Hidden files and
directories are ignored.

Files are stored under their path relative to the directory. On restart,
documents from earlier runs are reused for unchanged files and older
duplicates are removed.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

var (
	watchInitialScan bool
	watchDebounce    = watch.DefaultDebounce
)

func init() {
	watchCmd.Flags().BoolVar(&watchInitialScan, "initial-scan", true, "Upload existing files before watching")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before a changed file is processed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if documentService == nil {
		return errors.New("document service not configured")
	}

	w := watch.New(args[0], ingestService, documentService,
		watch.WithDebounce(watchDebounce),
		watch.WithInitialScan(watchInitialScan),
		watch.WithReporter(func(r watch.Result) {
			reportWatch(cmd, r)
		}),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s (Ctrl+C to stop)\n", args[0])
	return w.Run(ctx)
}

func reportWatch(cmd *cobra.Command, r watch.Result) {
	switch {
	case r.Err != nil:
		cmd.PrintErrf("! %s: %v\n", r.Path, r.Err)
	case r.Removed:
		cmd.Printf("- %s\n", r.Path)
	case r.Document != nil:
		cmd.Printf("+ %s (%d chunks)\n", r.Path, r.ChunksCreated)
	}
}
