package mcp

import (
	"context"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// mockAskService is a mock implementation of driving.AskService.
type mockAskService struct {
	answer   *domain.Answer
	err      error
	question string
}

func (m *mockAskService) AnswerQuestion(_ context.Context, question string) (*domain.Answer, error) {
	m.question = question
	return m.answer, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.DocumentSummary
	chunks    []domain.Chunk
	err       error
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.DocumentSummary, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.documents[0].Document, nil
}

func (m *mockDocumentService) Chunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _ string) error {
	return m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	got domain.UploadedFile
	err error
}

func (m *mockIngestService) Ingest(_ context.Context, file domain.UploadedFile) (*domain.IngestResult, error) {
	m.got = file
	if m.err != nil {
		return nil, m.err
	}
	return &domain.IngestResult{
		Document:      domain.Document{ID: "doc-new", Filename: file.Filename},
		ChunksCreated: 2,
	}, nil
}

func notFound() error {
	return domain.NewError(domain.KindNotFound, "documents", "Document not found", domain.ErrNotFound)
}
