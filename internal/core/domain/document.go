package domain

import "time"

// Document represents an uploaded file.
// Documents are immutable after creation and own their chunks.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the name the file was uploaded with.
	Filename string

	// FileType is the MIME type reported for the upload.
	FileType string

	// FileSize is the size of the uploaded file in bytes.
	FileSize int64

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// DocumentSummary is a document listed together with its chunk count.
type DocumentSummary struct {
	Document

	// ChunkCount is the number of chunks owned by the document.
	ChunkCount int
}

// Chunk is a contiguous window of a document's extracted text.
// Chunks are created in a batch with their document and never mutated.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Content is the text of this window.
	Content string

	// Position is the 0-based creation order within the document.
	Position int

	// Embedding is the vector representation of Content.
	Embedding []float32
}

// ChunkWithDocument pairs a stored chunk with its owning document.
type ChunkWithDocument struct {
	Chunk    Chunk
	Document Document
}

// ScoredChunk is a chunk ranked against a query vector.
// It exists only for the duration of one retrieval.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Document is the chunk's owning document.
	Document Document

	// Score is the cosine similarity to the query, in [-1, 1].
	Score float64
}

// UploadedFile is a file submitted for ingestion.
type UploadedFile struct {
	// Filename is the original file name, including extension.
	Filename string

	// ContentType is the MIME type reported by the client.
	ContentType string

	// Data is the raw file content.
	Data []byte
}

// Size returns the file size in bytes.
func (f UploadedFile) Size() int64 {
	return int64(len(f.Data))
}

// IngestResult is returned after a successful upload.
type IngestResult struct {
	Document      Document
	ChunksCreated int
}

// Answer is the result of asking a question.
type Answer struct {
	// ID identifies the answer so feedback can refer to it.
	ID string

	// Answer is the generated (or canned) response text.
	Answer string

	// Sources are the retrieved chunks in rank order, highest score first.
	Sources []ScoredChunk

	// Question echoes the question that was asked.
	Question string
}

// Feedback is a user's rating of a generated answer.
type Feedback struct {
	ID        string
	MessageID string
	Rating    int
	Comment   string
	CreatedAt time.Time
}
