package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interfaces.
var (
	_ driven.DocumentStore = (*DocumentStore)(nil)
	_ driven.FeedbackStore = (*DocumentStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore
// and driven.FeedbackStore. Contents are lost when the process exits.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]domain.Document
	chunks    map[string][]domain.Chunk
	feedback  []domain.Feedback
	seq       map[string]int
	next      int
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]domain.Document),
		chunks:    make(map[string][]domain.Chunk),
		seq:       make(map[string]int),
	}
}

// CreateDocumentWithChunks stores a document and its chunks under one lock,
// so readers never see one without the other.
func (s *DocumentStore) CreateDocumentWithChunks(_ context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}
	for i := range chunks {
		if chunks[i].DocumentID != doc.ID {
			return domain.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.documents[doc.ID]; exists {
		return domain.ErrInvalidInput
	}

	stored := make([]domain.Chunk, len(chunks))
	for i := range chunks {
		stored[i] = copyChunk(chunks[i])
	}

	s.documents[doc.ID] = *doc
	s.chunks[doc.ID] = stored
	s.seq[doc.ID] = s.next
	s.next++
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns all documents with chunk counts, newest first.
func (s *DocumentStore) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.DocumentSummary, 0, len(s.documents))
	for id := range s.documents {
		result = append(result, domain.DocumentSummary{
			Document:   s.documents[id],
			ChunkCount: len(s.chunks[id]),
		})
	}
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i].Document, result[j].Document
		if !a.UploadedAt.Equal(b.UploadedAt) {
			return a.UploadedAt.After(b.UploadedAt)
		}
		return s.seq[a.ID] > s.seq[b.ID]
	})
	return result, nil
}

// DeleteDocument removes a document and its chunks.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	delete(s.chunks, id)
	delete(s.seq, id)
	return nil
}

// ListChunks returns a document's chunks ordered by position.
func (s *DocumentStore) ListChunks(_ context.Context, documentID string) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	chunks := s.chunks[documentID]
	result := make([]domain.Chunk, len(chunks))
	for i := range chunks {
		result[i] = copyChunk(chunks[i])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Position < result[j].Position
	})
	return result, nil
}

// ListAllChunks returns every chunk with its document, oldest document first.
func (s *DocumentStore) ListAllChunks(_ context.Context) ([]domain.ChunkWithDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.documents))
	for id := range s.documents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return s.seq[ids[i]] < s.seq[ids[j]]
	})

	var result []domain.ChunkWithDocument
	for _, id := range ids {
		doc := s.documents[id]
		for _, chunk := range s.chunks[id] {
			result = append(result, domain.ChunkWithDocument{
				Chunk:    copyChunk(chunk),
				Document: doc,
			})
		}
	}
	return result, nil
}

// SaveFeedback stores a rating.
func (s *DocumentStore) SaveFeedback(_ context.Context, fb *domain.Feedback) error {
	if fb == nil || fb.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.feedback = append(s.feedback, *fb)
	return nil
}

// ListFeedback returns ratings for a message in insertion order.
func (s *DocumentStore) ListFeedback(_ context.Context, messageID string) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.Feedback, 0, len(s.feedback))
	for _, fb := range s.feedback {
		if messageID == "" || fb.MessageID == messageID {
			result = append(result, fb)
		}
	}
	return result, nil
}

// Close releases resources (no-op for memory store).
func (s *DocumentStore) Close() error {
	return nil
}

func copyChunk(c domain.Chunk) domain.Chunk {
	if c.Embedding != nil {
		emb := make([]float32, len(c.Embedding))
		copy(emb, c.Embedding)
		c.Embedding = emb
	}
	return c
}
