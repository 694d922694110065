package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ask
questions about your documents.

By default, the server communicates over stdio using JSON-RPC. Use --port
to serve the streamable HTTP transport instead.

Tools: ask, list_documents, document_chunks, ingest_file (with --allow-ingest)
Resources: codeaid://documents, codeaid://documents/{documentId}/chunks

Examples:
  # Stdio mode (default)
  codeaid mcp serve

  # HTTP mode (for MCP Inspector, remote access)
  codeaid mcp serve --port 8080

Client configuration:
  {
    "mcpServers": {
      "codeaid": {
        "command": "/path/to/codeaid",
        "args": ["mcp", "serve"]
      }
    }
  }`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpServeCmd.Flags().Bool("allow-ingest", false, "Register the ingest_file tool, which reads local paths")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	allowIngest, err := cmd.Flags().GetBool("allow-ingest")
	if err != nil {
		return fmt.Errorf("getting allow-ingest flag: %w", err)
	}

	ports := &mcp.Ports{
		Ask:       askService,
		Documents: documentService,
	}
	if allowIngest {
		ports.Ingest = ingestService
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.OutOrStdout(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(ctx, addr)
	}

	return server.Run(ctx)
}
