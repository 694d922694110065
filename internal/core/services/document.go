package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService manages uploaded documents.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns all documents with chunk counts, newest first.
func (s *DocumentService) List(ctx context.Context) ([]domain.DocumentSummary, error) {
	docs, err := s.docStore.ListDocuments(ctx)
	if err != nil {
		return nil, domain.NewError(domain.KindPersistence, "list documents", "", err)
	}
	return docs, nil
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	if err := requireID(documentID); err != nil {
		return nil, err
	}
	doc, err := s.docStore.GetDocument(ctx, documentID)
	if err != nil {
		return nil, storeError("get document", err)
	}
	return doc, nil
}

// Chunks returns a document's chunks in creation order.
// Unknown documents are reported as not found rather than as an empty list.
func (s *DocumentService) Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error) {
	if _, err := s.Get(ctx, documentID); err != nil {
		return nil, err
	}
	chunks, err := s.docStore.ListChunks(ctx, documentID)
	if err != nil {
		return nil, storeError("list chunks", err)
	}
	return chunks, nil
}

// Delete removes a document and all of its chunks.
func (s *DocumentService) Delete(ctx context.Context, documentID string) error {
	if err := requireID(documentID); err != nil {
		return err
	}
	if err := s.docStore.DeleteDocument(ctx, documentID); err != nil {
		return storeError("delete document", err)
	}
	return nil
}

func requireID(documentID string) error {
	if strings.TrimSpace(documentID) == "" {
		return domain.ValidationError("document", "document id is required")
	}
	return nil
}

// storeError classifies a document store failure.
func storeError(op string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewError(domain.KindNotFound, op, "Document not found", err)
	}
	return domain.NewError(domain.KindPersistence, op, "", fmt.Errorf("document store: %w", err))
}
