package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			_, _ = w.Write([]byte(`{"models":[]}`))
		case "/api/embed":
			requests.Add(1)
			var req embedRequest
			if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
				return
			}
			assert.Equal(t, "nomic-embed-text", req.Model)

			out := make([][]float32, len(req.Input))
			for i, text := range req.Input {
				out[i] = []float32{float32(len(text)), 1}
			}
			_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: out})
		default:
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"error":"not found"}`))
		}
	}))
}

func TestNewEmbeddingService_Defaults(t *testing.T) {
	svc := NewEmbeddingService(Config{})

	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultDimensions, svc.Dimensions())
	assert.Equal(t, DefaultBaseURL, svc.client.BaseURL())
	assert.NoError(t, svc.Close())
}

func TestNewEmbeddingService_KnownModel(t *testing.T) {
	svc := NewEmbeddingService(Config{Model: "all-minilm"})
	assert.Equal(t, 384, svc.Dimensions())
}

func TestEmbedBatch(t *testing.T) {
	var requests atomic.Int32
	server := newServer(t, &requests)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL, BatchSize: 2})

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 1}, {2, 1}, {3, 1}}, got)
	assert.Equal(t, int32(2), requests.Load())
}

func TestEmbed(t *testing.T) {
	var requests atomic.Int32
	server := newServer(t, &requests)
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	got, err := svc.Embed(context.Background(), "four")

	require.NoError(t, err)
	assert.Equal(t, []float32{4, 1}, got)
}

func TestEmbed_CountMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"embeddings":[]}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got 0 embeddings for 1 inputs")
}

func TestEmbed_ModelMissing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model \"nomic-embed-text\" not found, try pulling it first"}`))
	}))
	defer server.Close()

	svc := NewEmbeddingService(Config{BaseURL: server.URL})

	_, err := svc.Embed(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "try pulling it first")
}

func TestPing(t *testing.T) {
	var requests atomic.Int32
	server := newServer(t, &requests)
	defer server.Close()

	assert.NoError(t, NewEmbeddingService(Config{BaseURL: server.URL}).Ping(context.Background()))
}

func TestPing_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	assert.Error(t, NewEmbeddingService(Config{BaseURL: url}).Ping(context.Background()))
}
