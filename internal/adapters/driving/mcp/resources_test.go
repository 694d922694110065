package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

func TestExtractDocumentID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{name: "valid chunks URI", uri: "codeaid://documents/doc-456/chunks", expected: "doc-456"},
		{name: "invalid prefix", uri: "file://documents/doc-456/chunks", expected: ""},
		{name: "missing chunks suffix", uri: "codeaid://documents/doc-456", expected: ""},
		{name: "nested path", uri: "codeaid://documents/a/b/chunks", expected: ""},
		{name: "empty URI", uri: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractDocumentID(tt.uri))
		})
	}
}

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("codeaid://documents"))

		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.JSONEq(t, `{"documents":[]}`, result.Contents[0].Text)
	})

	t.Run("returns documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.DocumentSummary{{
			Document:   domain.Document{ID: "doc-1", Filename: "ops.md"},
			ChunkCount: 2,
		}}}
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: docs})
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest("codeaid://documents"))

		require.NoError(t, err)
		assert.Equal(t, "application/json", result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"filename": "ops.md"`)
		assert.Contains(t, result.Contents[0].Text, `"chunkCount": 2`)
	})

	t.Run("wraps list errors", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: &mockDocumentService{err: errors.New("db closed")}})
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest("codeaid://documents"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleChunksResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns chunks", func(t *testing.T) {
		docs := &mockDocumentService{chunks: []domain.Chunk{{ID: "c1", DocumentID: "doc-1", Content: "hello"}}}
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: docs})
		require.NoError(t, err)

		result, err := server.handleChunksResource(ctx, makeReadResourceRequest("codeaid://documents/doc-1/chunks"))

		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"content": "hello"`)
	})

	t.Run("bad URI is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: &mockDocumentService{}})
		require.NoError(t, err)

		_, err = server.handleChunksResource(ctx, makeReadResourceRequest("codeaid://documents/doc-1"))
		assert.Error(t, err)
	})

	t.Run("missing document is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}, Documents: &mockDocumentService{err: notFound()}})
		require.NoError(t, err)

		_, err = server.handleChunksResource(ctx, makeReadResourceRequest("codeaid://documents/doc-1/chunks"))

		require.Error(t, err)
		assert.NotContains(t, err.Error(), "listing chunks")
	})

	t.Run("nil document service is not found", func(t *testing.T) {
		server, err := NewServer(&Ports{Ask: &mockAskService{}})
		require.NoError(t, err)

		_, err = server.handleChunksResource(ctx, makeReadResourceRequest("codeaid://documents/doc-1/chunks"))
		assert.Error(t, err)
	})
}
