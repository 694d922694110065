package cli

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/codeaid/internal/adapters/driving/dto"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/extractors/filetype"
)

// sniffLen is how many bytes http.DetectContentType looks at.
const sniffLen = 512

var uploadCmd = &cobra.Command{
	Use:   "upload [file...]",
	Short: "Upload files to the knowledge base",
	Long: `Extract, chunk and embed one or more files so their content can be
used to answer questions.

Supported formats are plain text (including markdown and source code),
PDF, Word (.docx) and Excel (.xlsx). Files are limited to 10 MB.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

// uploadJSON prints results as JSON instead of text.
var uploadJSON bool

// uploadContentType overrides MIME detection.
var uploadContentType string

func init() {
	uploadCmd.Flags().BoolVar(&uploadJSON, "json", false, "Print results as JSON")
	uploadCmd.Flags().StringVar(&uploadContentType, "type", "", "Content type to report instead of detecting it")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}

	responses := make([]dto.UploadResponse, 0, len(args))
	for _, path := range args {
		result, err := uploadFile(cmd, path)
		if err != nil {
			if uploadJSON && len(responses) > 0 {
				if werr := writeJSON(cmd, responses); werr != nil {
					return werr
				}
			}
			return err
		}

		if uploadJSON {
			responses = append(responses, dto.NewUploadResponse(result))
			continue
		}
		cmd.Printf("Uploaded %s\n", result.Document.Filename)
		cmd.Printf("  ID:     %s\n", result.Document.ID)
		cmd.Printf("  Type:   %s\n", result.Document.FileType)
		cmd.Printf("  Size:   %d bytes\n", result.Document.FileSize)
		cmd.Printf("  Chunks: %d\n", result.ChunksCreated)
	}

	if uploadJSON {
		if len(args) == 1 {
			return writeJSON(cmd, responses[0])
		}
		return writeJSON(cmd, responses)
	}
	return nil
}

// uploadFile reads and ingests one path.
func uploadFile(cmd *cobra.Command, path string) (*domain.IngestResult, error) {
	file, err := readUpload(path, uploadContentType)
	if err != nil {
		return nil, err
	}
	result, err := ingestService.Ingest(cmd.Context(), file)
	if err != nil {
		return nil, fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return result, nil
}

// readUpload loads path as an upload. Oversized files are rejected before
// they are read.
func readUpload(path, contentType string) (domain.UploadedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	if info.IsDir() {
		return domain.UploadedFile{}, domain.ValidationError("upload", "%s is a directory", path)
	}
	if info.Size() > domain.MaxFileSize {
		return domain.UploadedFile{}, domain.ValidationError("upload",
			"%s is %d bytes, maximum is %d", filepath.Base(path), info.Size(), domain.MaxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if contentType == "" {
		contentType = detectContentType(path, data)
	}
	return domain.UploadedFile{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}

// detectContentType uses the extension, then sniffs the content when the
// extension is unknown.
func detectContentType(path string, data []byte) string {
	if t := filetype.DetectByName(path); t != "application/octet-stream" {
		return t
	}
	return filetype.BaseMIME(http.DetectContentType(data[:min(len(data), sniffLen)]))
}
