// Package chunker splits extracted text into overlapping fixed-size windows.
//
// Lengths and offsets are counted in Unicode code points (runes), never
// bytes, so a window never splits a UTF-8 sequence and the overlap between
// neighbours is exact on non-ASCII text.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/custodia-labs/codeaid/internal/core/domain"
)

// Split trims text and cuts it into windows of at most size runes,
// each starting size-overlap runes after the previous one.
//
// Whitespace-only text yields an empty slice. Text no longer than size
// yields exactly one window. The last window is the first one whose end
// reaches the end of the text, so there is never a trailing duplicate.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 {
		return nil, domain.ValidationError("chunk", "size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, domain.ValidationError("chunk", "overlap must be in [0, %d), got %d", size, overlap)
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return []string{}, nil
	}

	runes := []rune(trimmed)
	if len(runes) <= size {
		return []string{trimmed}, nil
	}

	step := size - overlap
	chunks := make([]string, 0, (len(runes)-overlap+step-1)/step)
	for start := 0; ; start += step {
		end := min(start+size, len(runes))
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}

	return chunks, nil
}

// Chunker holds a chunk size and overlap.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the chunk size in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		c.chunkSize = size
	}
}

// WithOverlap sets the overlap between chunks in runes.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		c.overlap = overlap
	}
}

// New creates a chunker with the given options.
// It fails unless 0 <= overlap < size.
func New(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		chunkSize: domain.DefaultChunkSize,
		overlap:   domain.DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	if _, err := Split("", c.chunkSize, c.overlap); err != nil {
		return nil, fmt.Errorf("configure chunker: %w", err)
	}

	return c, nil
}

// Size returns the configured chunk size.
func (c *Chunker) Size() int {
	return c.chunkSize
}

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Split cuts text with the configured size and overlap.
// A Chunker not built by New fails with a validation error.
func (c *Chunker) Split(text string) ([]string, error) {
	return Split(text, c.chunkSize, c.overlap)
}

// Chunks splits text into chunks owned by documentID, with fresh IDs and
// sequential positions. Embeddings are left empty.
func (c *Chunker) Chunks(documentID, text string) ([]domain.Chunk, error) {
	parts, err := c.Split(text)
	if err != nil {
		return nil, err
	}
	chunks := make([]domain.Chunk, 0, len(parts))
	for i, part := range parts {
		chunks = append(chunks, domain.Chunk{
			ID:         uuid.New().String(),
			DocumentID: documentID,
			Content:    part,
			Position:   i,
		})
	}
	return chunks, nil
}
