package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/codeaid/internal/adapters/driven/ai/apiclient"
)

type embedItem struct {
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// newServer answers /embeddings with one vector per input, {index, len(input)},
// in reverse order.
func newServer(t *testing.T, requests *atomic.Int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/models" {
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"data":[]}`))
			return
		}
		assert.Equal(t, "/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		if requests != nil {
			requests.Add(1)
		}

		var req embeddingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		items := make([]embedItem, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			items = append(items, embedItem{
				Embedding: []float32{float32(i), float32(len(req.Input[i]))},
				Index:     i,
			})
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"data": items})
	}))
}

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires API key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		assert.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, 1536, svc.Dimensions())
		assert.Equal(t, DefaultBatchSize, svc.batchSize)
		assert.NoError(t, svc.Close())
	})

	t.Run("known model dimensions", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Model: "text-embedding-3-large"})
		require.NoError(t, err)
		assert.Equal(t, 3072, svc.Dimensions())
	})
}

func TestEmbedBatch_OrdersByIndex(t *testing.T) {
	server := newServer(t, nil)
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0, 1}, {1, 2}, {2, 3}}, got)
}

func TestEmbedBatch_SplitsIntoBatches(t *testing.T) {
	var requests atomic.Int32
	server := newServer(t, &requests)
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, BatchSize: 2})
	require.NoError(t, err)

	got, err := svc.EmbedBatch(context.Background(), []string{"a", "bb", "ccc", "dddd", "eeeee"})

	require.NoError(t, err)
	assert.Equal(t, int32(3), requests.Load())
	require.Len(t, got, 5)
	// Indexes restart per request; lengths identify the input.
	for i, v := range got {
		assert.Equal(t, float32(i+1), v[1])
	}
}

func TestEmbedBatch_Empty(t *testing.T) {
	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: "http://127.0.0.1:0"})
	require.NoError(t, err)

	got, err := svc.EmbedBatch(context.Background(), nil)

	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEmbed(t *testing.T) {
	server := newServer(t, nil)
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	got, err := svc.Embed(context.Background(), "hello")

	require.NoError(t, err)
	assert.Equal(t, []float32{0, 5}, got)
}

func TestEmbed_DimensionsOnlyForV3Models(t *testing.T) {
	tests := []struct {
		model string
		want  int
	}{
		{model: "text-embedding-3-small", want: 1536},
		{model: "text-embedding-ada-002", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			var sent int
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req embeddingRequest
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
				sent = req.Dimensions
				_, _ = w.Write([]byte(`{"data":[{"embedding":[1],"index":0}]}`))
			}))
			defer server.Close()

			svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, Model: tt.model})
			require.NoError(t, err)

			_, err = svc.Embed(context.Background(), "x")
			require.NoError(t, err)
			assert.Equal(t, tt.want, sent)
		})
	}
}

func TestEmbed_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing entries", body: `{"data":[]}`, want: "got 0 embeddings for 1 inputs"},
		{name: "index out of range", body: `{"data":[{"embedding":[1],"index":3}]}`, want: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
			require.NoError(t, err)

			_, err = svc.Embed(context.Background(), "x")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEmbed_DuplicateIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"embedding":[1],"index":0},{"embedding":[2],"index":0}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.EmbedBatch(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate")
}

func TestEmbed_APIError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Retry-After", "0")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = svc.Embed(context.Background(), "x")

	var statusErr *apiclient.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
	assert.Equal(t, "Rate limit reached", statusErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestPing(t *testing.T) {
	server := newServer(t, nil)
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	assert.NoError(t, svc.Ping(context.Background()))
}
