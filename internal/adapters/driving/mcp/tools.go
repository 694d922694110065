package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/extractors/filetype"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the uploaded documents"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	MessageID string         `json:"message_id"`
	Answer    string         `json:"answer"`
	Sources   []SourceOutput `json:"sources"`
}

// SourceOutput is one retrieved chunk backing an answer.
type SourceOutput struct {
	DocumentID string  `json:"document_id"`
	Filename   string  `json:"filename"`
	Position   int     `json:"position"`
	Score      float64 `json:"score"`
	Content    string  `json:"content"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput describes an uploaded document.
type DocumentOutput struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	FileType   string `json:"file_type"`
	FileSize   int64  `json:"file_size"`
	UploadedAt string `json:"uploaded_at"`
	ChunkCount int    `json:"chunk_count"`
}

// DocumentChunksInput is the input schema for the document_chunks tool.
type DocumentChunksInput struct {
	DocumentID string `json:"document_id" jsonschema:"the document to read"`
}

// DocumentChunksOutput is the output schema for the document_chunks tool.
type DocumentChunksOutput struct {
	Chunks []ChunkOutput `json:"chunks"`
	Count  int           `json:"count"`
}

// ChunkOutput is a stored window of text.
type ChunkOutput struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
	Content  string `json:"content"`
}

// IngestFileInput is the input schema for the ingest_file tool.
type IngestFileInput struct {
	Path string `json:"path" jsonschema:"local path of the file to add to the corpus"`
}

// IngestFileOutput is the output schema for the ingest_file tool.
type IngestFileOutput struct {
	DocumentID    string `json:"document_id"`
	Filename      string `json:"filename"`
	ChunksCreated int    `json:"chunks_created"`
}

var errNoDocumentService = errors.New("document service not configured")

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a technical question using only the uploaded documents, with ranked sources",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List uploaded documents with their chunk counts",
	}, s.handleListDocuments)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "document_chunks",
		Description: "Return a document's chunks in order",
	}, s.handleDocumentChunks)

	if s.ports.Ingest != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ingest_file",
			Description: "Extract, chunk and embed a local file into the corpus",
		}, s.handleIngestFile)
	}
}

func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	answer, err := s.ports.Ask.AnswerQuestion(ctx, input.Question)
	if err != nil {
		return nil, AskOutput{}, err
	}

	output := AskOutput{
		MessageID: answer.ID,
		Answer:    answer.Answer,
		Sources:   make([]SourceOutput, len(answer.Sources)),
	}
	for i := range answer.Sources {
		src := &answer.Sources[i]
		output.Sources[i] = SourceOutput{
			DocumentID: src.Document.ID,
			Filename:   src.Document.Filename,
			Position:   src.Chunk.Position,
			Score:      src.Score,
			Content:    src.Chunk.Content,
		}
	}
	return nil, output, nil
}

func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Documents == nil {
		return nil, ListDocumentsOutput{}, errNoDocumentService
	}

	docs, err := s.ports.Documents.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:         docs[i].ID,
			Filename:   docs[i].Filename,
			FileType:   docs[i].FileType,
			FileSize:   docs[i].FileSize,
			UploadedAt: docs[i].UploadedAt.Format(time.RFC3339),
			ChunkCount: docs[i].ChunkCount,
		}
	}
	return nil, output, nil
}

func (s *Server) handleDocumentChunks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentChunksInput,
) (*mcp.CallToolResult, DocumentChunksOutput, error) {
	if s.ports.Documents == nil {
		return nil, DocumentChunksOutput{}, errNoDocumentService
	}

	chunks, err := s.ports.Documents.Chunks(ctx, input.DocumentID)
	if err != nil {
		return nil, DocumentChunksOutput{}, err
	}

	output := DocumentChunksOutput{
		Chunks: make([]ChunkOutput, len(chunks)),
		Count:  len(chunks),
	}
	for i := range chunks {
		output.Chunks[i] = ChunkOutput{
			ID:       chunks[i].ID,
			Position: chunks[i].Position,
			Content:  chunks[i].Content,
		}
	}
	return nil, output, nil
}

func (s *Server) handleIngestFile(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestFileInput,
) (*mcp.CallToolResult, IngestFileOutput, error) {
	path := filepath.Clean(input.Path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, IngestFileOutput{}, fmt.Errorf("read %s: %w", path, err)
	}

	result, err := s.ports.Ingest.Ingest(ctx, domain.UploadedFile{
		Filename:    filepath.Base(path),
		ContentType: filetype.DetectByName(path),
		Data:        data,
	})
	if err != nil {
		return nil, IngestFileOutput{}, err
	}

	return nil, IngestFileOutput{
		DocumentID:    result.Document.ID,
		Filename:      result.Document.Filename,
		ChunksCreated: result.ChunksCreated,
	}, nil
}
