package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"documents", "doc"},
	Short:   "Manage uploaded documents",
	Long:    `List, inspect, or delete uploaded documents and their chunks.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:   "get [doc-id]",
	Short: "Show document info",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentGet,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id]",
	Short: "Print a document's chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentDeleteCmd = &cobra.Command{
	Use:     "delete [doc-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a document and its chunks",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentDelete,
}

var (
	documentJSON       bool
	documentEmbeddings bool
)

func init() {
	documentCmd.PersistentFlags().BoolVar(&documentJSON, "json", false, "Print results as JSON")
	documentChunksCmd.Flags().BoolVar(&documentEmbeddings, "embeddings", false, "Include embedding vectors in JSON output")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentDeleteCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if documentJSON {
		return writeJSON(cmd, dto.NewDocumentList(docs))
	}

	if len(docs) == 0 {
		cmd.Println("No documents uploaded.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    File:     %s (%s, %d bytes)\n", docs[i].Filename, docs[i].FileType, docs[i].FileSize)
		cmd.Printf("    Chunks:   %d\n", docs[i].ChunkCount)
		cmd.Printf("    Uploaded: %s\n", docs[i].UploadedAt.Format("2006-01-02 15:04:05"))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	if documentJSON {
		return writeJSON(cmd, dto.NewDocument(*doc))
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Filename: %s\n", doc.Filename)
	cmd.Printf("  Type:     %s\n", doc.FileType)
	cmd.Printf("  Size:     %d bytes\n", doc.FileSize)
	cmd.Printf("  Uploaded: %s\n", doc.UploadedAt.Format("2006-01-02 15:04:05"))
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	chunks, err := documentService.Chunks(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	if documentJSON {
		return writeJSON(cmd, dto.NewChunkList(chunks, documentEmbeddings))
	}

	for i := range chunks {
		cmd.Printf("--- Chunk %d (%s) ---\n", chunks[i].Position, chunks[i].ID)
		cmd.Println(chunks[i].Content)
		cmd.Println()
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
	return nil
}

func runDocumentDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	if err := documentService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	if documentJSON {
		return writeJSON(cmd, dto.DeleteResponse{Success: true, ID: args[0]})
	}
	cmd.Printf("Deleted document: %s\n", args[0])
	return nil
}
