package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/codeaid/internal/chunker"
	"github.com/custodia-labs/codeaid/internal/core/domain"
	"github.com/custodia-labs/codeaid/internal/core/ports/driven"
	"github.com/custodia-labs/codeaid/internal/core/services"
	"github.com/custodia-labs/codeaid/internal/extractors"
)

// stubEmbedder maps every text onto the same unit vector so every chunk matches.
type stubEmbedder struct{}

func (stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (stubEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1, 0}
	}
	return out, nil
}

func (stubEmbedder) Dimensions() int            { return 2 }
func (stubEmbedder) ModelName() string          { return "stub-embed" }
func (stubEmbedder) Ping(context.Context) error { return nil }
func (stubEmbedder) Close() error               { return nil }

// stubLLM answers with a fixed reply.
type stubLLM struct{}

func (stubLLM) Complete(context.Context, string, string, driven.CompletionOptions) (string, error) {
	return "Restart the service.", nil
}

func (stubLLM) ModelName() string          { return "stub-llm" }
func (stubLLM) Ping(context.Context) error { return nil }
func (stubLLM) Close() error               { return nil }

// stubValidator fails embedding or LLM checks on demand.
type stubValidator struct {
	embedErr error
	llmErr   error
}

func (v *stubValidator) ValidateEmbedding(*domain.EmbeddingSettings) error { return v.embedErr }
func (v *stubValidator) ValidateLLM(*domain.LLMSettings) error             { return v.llmErr }

var errStubProvider = errors.New("provider unreachable")

type testEnv struct {
	docs      *memory.DocumentStore
	config    *memory.ConfigStore
	validator *stubValidator
}

// setupTestServices wires real services over in-memory stores and resets
// package state when the returned cleanup runs.
func setupTestServices() (*testEnv, func()) {
	docs := memory.NewDocumentStore()
	config := memory.NewConfigStore()
	validator := &stubValidator{}

	c, err := chunker.New(chunker.WithChunkSize(40), chunker.WithOverlap(5))
	if err != nil {
		panic(err)
	}

	rag := domain.DefaultRAGSettings()
	rag.Threshold = 0.5

	SetServices(Services{
		Ingest:    services.NewIngestService(docs, extractors.Default(), stubEmbedder{}, c, 2),
		Ask:       services.NewRAGService(services.NewRetriever(docs), stubEmbedder{}, stubLLM{}, rag),
		Documents: services.NewDocumentService(docs),
		Feedback:  services.NewFeedbackService(docs),
		Settings:  services.NewSettingsService(config, nil),
		Validator: validator,
	})

	return &testEnv{docs: docs, config: config, validator: validator}, func() {
		SetServices(Services{})
		uploadJSON = false
		uploadContentType = ""
		askJSON = false
		askShowSources = true
		documentJSON = false
		documentEmbeddings = false
		feedbackJSON = false
		feedbackComment = ""
		settingsAPIKey = ""
	}
}

// execute runs the root command with args and returns everything it printed.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return executeWithInput(t, "", args...)
}

func executeWithInput(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// writeTempFile creates name under a fresh temp dir.
func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// uploadTestDocument ingests a small text file and returns its document ID.
func uploadTestDocument(t *testing.T, env *testEnv) string {
	t.Helper()

	path := writeTempFile(t, "guide.txt", "To fix error E42, restart the service and clear the cache directory.")
	_, err := execute(t, "upload", path)
	require.NoError(t, err)

	docs, err := env.docs.ListDocuments(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	return docs[0].ID
}
