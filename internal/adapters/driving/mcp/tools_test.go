package mcp

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		ask := &mockAskService{answer: &domain.Answer{
			ID:     "m1",
			Answer: "Restart the worker.",
			Sources: []domain.ScoredChunk{{
				Chunk:    domain.Chunk{ID: "c1", Position: 3, Content: "restart the worker"},
				Document: domain.Document{ID: "doc-1", Filename: "ops.md"},
				Score:    0.87,
			}},
		}}
		server, err := NewServer(&Ports{Ask: ask})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "worker stuck?"})

		require.NoError(t, err)
		assert.Equal(t, "worker stuck?", ask.question)
		assert.Equal(t, "m1", output.MessageID)
		assert.Equal(t, "Restart the worker.", output.Answer)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "ops.md", output.Sources[0].Filename)
		assert.Equal(t, 3, output.Sources[0].Position)
		assert.Equal(t, 0.87, output.Sources[0].Score)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{err: errors.New("provider down")}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "hi"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "provider down")
	})
}

func TestServer_handleListDocuments(t *testing.T) {
	ctx := context.Background()
	uploaded := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("lists documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.DocumentSummary{{
			Document:   domain.Document{ID: "doc-1", Filename: "ops.md", FileType: "text/markdown", FileSize: 10, UploadedAt: uploaded},
			ChunkCount: 4,
		}}}
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: docs})
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "doc-1", output.Documents[0].ID)
		assert.Equal(t, 4, output.Documents[0].ChunkCount)
		assert.Equal(t, "2026-03-01T12:00:00Z", output.Documents[0].UploadedAt)
	})

	t.Run("errors without document service", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}})
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListDocumentsInput{})
		assert.ErrorIs(t, err, errNoDocumentService)
	})
}

func TestServer_handleDocumentChunks(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks in order", func(t *testing.T) {
		docs := &mockDocumentService{chunks: []domain.Chunk{
			{ID: "c1", Position: 0, Content: "first"},
			{ID: "c2", Position: 1, Content: "second"},
		}}
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: docs})
		require.NoError(t, err)

		_, output, err := server.handleDocumentChunks(ctx, nil, DocumentChunksInput{DocumentID: "doc-1"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.Count)
		assert.Equal(t, "second", output.Chunks[1].Content)
	})

	t.Run("propagates not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: &mockDocumentService{err: notFound()}})
		require.NoError(t, err)

		_, _, err = server.handleDocumentChunks(ctx, nil, DocumentChunksInput{DocumentID: "missing"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestServer_handleIngestFile(t *testing.T) {
	ctx := context.Background()

	t.Run("reads and ingests the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "notes.txt")
		require.NoError(t, os.WriteFile(path, []byte("some notes"), 0o600))

		ingest := &mockIngestService{}
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Ingest: ingest})
		require.NoError(t, err)

		_, output, err := server.handleIngestFile(ctx, nil, IngestFileInput{Path: path})

		require.NoError(t, err)
		assert.Equal(t, "notes.txt", ingest.got.Filename)
		assert.Equal(t, []byte("some notes"), ingest.got.Data)
		assert.Equal(t, "doc-new", output.DocumentID)
		assert.Equal(t, 2, output.ChunksCreated)
	})

	t.Run("missing file", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Ingest: &mockIngestService{}})
		require.NoError(t, err)

		_, _, err = server.handleIngestFile(ctx, nil, IngestFileInput{Path: filepath.Join(t.TempDir(), "nope.txt")})
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
