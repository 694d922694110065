package services

import (
	"context"
	"errors"
	"sync"

	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// When vectors is set, texts are looked up in it; otherwise embedding is returned.
type mockEmbeddingService struct {
	embedding []float32
	vectors   map[string][]float32
	embedErr  error
	dims      int

	mu         sync.Mutex
	embedCalls int
	batchCalls int
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	return m.embedding
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.embedCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.batchCalls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = m.vector(texts[i])
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 3
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply    string
	err      error
	calls    int
	system   string
	user     string
	lastOpts driven.CompletionOptions
}

func (m *mockLLMService) Complete(
	_ context.Context, systemPrompt, userPrompt string, opts driven.CompletionOptions,
) (string, error) {
	m.calls++
	m.system = systemPrompt
	m.user = userPrompt
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockExtractor implements driven.TextExtractor for testing.
// It returns the file's bytes as text unless text or err is set.
type mockExtractor struct {
	text        string
	err         error
	unsupported bool
}

func (m *mockExtractor) SupportedMIMETypes() []string {
	return []string{"text/plain"}
}

func (m *mockExtractor) SupportedExtensions() []string {
	return []string{".txt"}
}

func (m *mockExtractor) Supports(_, _ string) bool {
	return !m.unsupported
}

func (m *mockExtractor) Extract(_ context.Context, file domain.UploadedFile) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if m.text != "" {
		return m.text, nil
	}
	return string(file.Data), nil
}

// mockDocumentStore implements driven.DocumentStore with injectable failures.
type mockDocumentStore struct {
	driven.DocumentStore
	createErr error
	listErr   error
	getErr    error
	deleteErr error
	chunks    []domain.ChunkWithDocument
}

func (m *mockDocumentStore) CreateDocumentWithChunks(_ context.Context, _ *domain.Document, _ []domain.Chunk) error {
	return m.createErr
}

func (m *mockDocumentStore) ListAllChunks(_ context.Context) ([]domain.ChunkWithDocument, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.chunks, nil
}

func (m *mockDocumentStore) ListDocuments(_ context.Context) ([]domain.DocumentSummary, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return nil, nil
}

func (m *mockDocumentStore) GetDocument(_ context.Context, _ string) (*domain.Document, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return &domain.Document{}, nil
}

func (m *mockDocumentStore) DeleteDocument(_ context.Context, _ string) error {
	return m.deleteErr
}

// mockFeedbackStore implements driven.FeedbackStore for testing.
type mockFeedbackStore struct {
	saveErr error
	saved   []domain.Feedback
}

func (m *mockFeedbackStore) SaveFeedback(_ context.Context, fb *domain.Feedback) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *fb)
	return nil
}

func (m *mockFeedbackStore) ListFeedback(_ context.Context, _ string) ([]domain.Feedback, error) {
	if m.saveErr != nil {
		return nil, m.saveErr
	}
	return m.saved, nil
}

var errMock = errors.New("mock failure")
