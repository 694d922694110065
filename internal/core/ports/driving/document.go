package driving

import (
	"context"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// IngestService handles file uploads.
type IngestService interface {
	// Ingest extracts, chunks, embeds and stores a file.
	Ingest(ctx context.Context, file domain.UploadedFile) (*domain.IngestResult, error)
}

// AskService answers questions from the stored corpus.
type AskService interface {
	// AnswerQuestion embeds the question, retrieves context and generates an answer.
	AnswerQuestion(ctx context.Context, question string) (*domain.Answer, error)
}

// DocumentService manages uploaded documents.
type DocumentService interface {
	// List returns all documents with chunk counts, newest first.
	List(ctx context.Context) ([]domain.DocumentSummary, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, documentID string) (*domain.Document, error)

	// Chunks returns a document's chunks in creation order.
	Chunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// Delete removes a document and all of its chunks.
	Delete(ctx context.Context, documentID string) error
}

// FeedbackService records answer ratings.
type FeedbackService interface {
	// Submit validates and stores a rating.
	Submit(ctx context.Context, messageID string, rating int, comment string) (*domain.Feedback, error)

	// List returns ratings for a message, or all ratings when messageID is empty.
	List(ctx context.Context, messageID string) ([]domain.Feedback, error)
}
