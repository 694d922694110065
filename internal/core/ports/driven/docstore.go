package driven

import (
	"context"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// DocumentStore persists documents and their chunks.
// Backed by SQLite by default, PostgreSQL or memory as alternatives.
type DocumentStore interface {
	// CreateDocumentWithChunks stores a document and all of its chunks as one
	// unit of work. Either everything is visible afterwards or nothing is.
	CreateDocumentWithChunks(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	// Returns domain.ErrNotFound if it does not exist.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns all documents with chunk counts, newest first.
	ListDocuments(ctx context.Context) ([]domain.DocumentSummary, error)

	// DeleteDocument removes a document and, by cascade, its chunks.
	// Returns domain.ErrNotFound if it does not exist.
	DeleteDocument(ctx context.Context, id string) error

	// ListChunks returns a document's chunks ordered by position.
	ListChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// ListAllChunks returns every stored chunk with its owning document,
	// in a stable order (document upload time, then position).
	ListAllChunks(ctx context.Context) ([]domain.ChunkWithDocument, error)

	// Close releases resources.
	Close() error
}

// FeedbackStore persists answer ratings.
type FeedbackStore interface {
	// SaveFeedback stores a rating.
	SaveFeedback(ctx context.Context, fb *domain.Feedback) error

	// ListFeedback returns ratings for a message, oldest first.
	// An empty messageID returns all ratings.
	ListFeedback(ctx context.Context, messageID string) ([]domain.Feedback, error)
}
