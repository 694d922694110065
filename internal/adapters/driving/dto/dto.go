// Package dto holds the JSON shapes shared by the HTTP API, the MCP server
// and the CLI's --json output.
package dto

import (
	"time"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// Document is an uploaded file.
type Document struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	FileType   string    `json:"fileType"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// DocumentSummary is a listed document with its chunk count.
type DocumentSummary struct {
	Document
	ChunkCount int `json:"chunkCount"`
}

// Chunk is a stored window of text. Embeddings are only included on request.
type Chunk struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"documentId"`
	Content    string    `json:"content"`
	Position   int       `json:"position"`
	Embedding  []float32 `json:"embedding,omitempty"`
}

// SourceChunk is a retrieved chunk together with its document.
type SourceChunk struct {
	Chunk
	Document Document `json:"document"`
}

// Source is one ranked retrieval result.
type Source struct {
	Chunk SourceChunk `json:"chunk"`
	Score float64     `json:"score"`
}

// Answer is the response to a question.
type Answer struct {
	MessageID string   `json:"messageId"`
	Answer    string   `json:"answer"`
	Sources   []Source `json:"sources"`
	Question  string   `json:"question"`
}

// UploadResponse is returned after ingestion.
type UploadResponse struct {
	Success       bool     `json:"success"`
	Document      Document `json:"document"`
	ChunksCreated int      `json:"chunksCreated"`
}

// DocumentListResponse wraps the document list.
type DocumentListResponse struct {
	Documents []DocumentSummary `json:"documents"`
}

// ChunkListResponse wraps a document's chunks.
type ChunkListResponse struct {
	Chunks []Chunk `json:"chunks"`
}

// DeleteResponse confirms a deletion.
type DeleteResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
}

// Feedback is a stored rating.
type Feedback struct {
	ID        string    `json:"id"`
	MessageID string    `json:"messageId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FeedbackResponse is returned after a rating is stored.
type FeedbackResponse struct {
	Success  bool     `json:"success"`
	Feedback Feedback `json:"feedback"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error      string `json:"error"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// NewDocument converts a domain document.
func NewDocument(d domain.Document) Document {
	return Document{
		ID:         d.ID,
		Filename:   d.Filename,
		FileType:   d.FileType,
		FileSize:   d.FileSize,
		UploadedAt: d.UploadedAt,
	}
}

// NewDocumentList converts summaries. The result is never nil.
func NewDocumentList(docs []domain.DocumentSummary) DocumentListResponse {
	out := make([]DocumentSummary, len(docs))
	for i := range docs {
		out[i] = DocumentSummary{
			Document:   NewDocument(docs[i].Document),
			ChunkCount: docs[i].ChunkCount,
		}
	}
	return DocumentListResponse{Documents: out}
}

// NewChunk converts a chunk, keeping its embedding only when withEmbedding is set.
func NewChunk(c domain.Chunk, withEmbedding bool) Chunk {
	out := Chunk{
		ID:         c.ID,
		DocumentID: c.DocumentID,
		Content:    c.Content,
		Position:   c.Position,
	}
	if withEmbedding {
		out.Embedding = c.Embedding
	}
	return out
}

// NewChunkList converts chunks. The result is never nil.
func NewChunkList(chunks []domain.Chunk, withEmbedding bool) ChunkListResponse {
	out := make([]Chunk, len(chunks))
	for i := range chunks {
		out[i] = NewChunk(chunks[i], withEmbedding)
	}
	return ChunkListResponse{Chunks: out}
}

// NewAnswer converts an answer. Source embeddings are dropped.
func NewAnswer(a *domain.Answer) Answer {
	sources := make([]Source, len(a.Sources))
	for i, s := range a.Sources {
		sources[i] = Source{
			Chunk: SourceChunk{
				Chunk:    NewChunk(s.Chunk, false),
				Document: NewDocument(s.Document),
			},
			Score: s.Score,
		}
	}
	return Answer{
		MessageID: a.ID,
		Answer:    a.Answer,
		Sources:   sources,
		Question:  a.Question,
	}
}

// NewUploadResponse converts an ingest result.
func NewUploadResponse(r *domain.IngestResult) UploadResponse {
	return UploadResponse{
		Success:       true,
		Document:      NewDocument(r.Document),
		ChunksCreated: r.ChunksCreated,
	}
}

// NewFeedback converts a rating.
func NewFeedback(f *domain.Feedback) Feedback {
	return Feedback{
		ID:        f.ID,
		MessageID: f.MessageID,
		Rating:    f.Rating,
		Comment:   f.Comment,
		CreatedAt: f.CreatedAt,
	}
}

// NewErrorResponse classifies err and returns its status code and body.
func NewErrorResponse(err error) ErrorResponse {
	kind := domain.KindOf(err)
	return ErrorResponse{
		Error:      kind.Title(),
		Kind:       string(kind),
		Message:    err.Error(),
		StatusCode: domain.HTTPStatus(kind),
	}
}
