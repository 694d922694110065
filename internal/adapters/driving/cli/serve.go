package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Serve the JSON API until interrupted.

Routes:
  GET    /check/healthy
  POST   /api/upload                 multipart form, field "file"
  GET    /api/documents
  DELETE /api/documents/:id
  GET    /api/documents/:id/chunks   ?embeddings=true to include vectors
  POST   /api/ask                    {"question": "..."}
  POST   /api/feedback               {"messageId": "...", "rating": 1-5}
  GET    /api/feedback               ?messageId=...`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", api.DefaultAddr, "Listen address")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	server, err := api.NewServer(api.Services{
		Ingest:    ingestService,
		Ask:       askService,
		Documents: documentService,
		Feedback:  feedbackService,
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Printf("HTTP API listening on %s\n", serveAddr)
	return server.Run(ctx, serveAddr)
}
