package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/echo", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))

		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		_ = json.NewEncoder(w).Encode(map[string]string{"echo": in["say"]})
	}))
	defer server.Close()

	c := New("test", server.URL+"/v1/", time.Second, map[string]string{"Authorization": "Bearer k"})

	var out map[string]string
	err := c.PostJSON(context.Background(), "/echo", map[string]string{"say": "hi"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "hi", out["echo"])
	assert.Equal(t, server.URL+"/v1", c.BaseURL())
}

func TestClient_StatusErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "nested", body: `{"error":{"message":"Incorrect API key","type":"invalid_request_error"}}`, want: "Incorrect API key"},
		{name: "flat", body: `{"error":"model not found"}`, want: "model not found"},
		{name: "text", body: "upstream timeout\n", want: "upstream timeout"},
		{name: "empty", body: "", want: "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := New("prov", server.URL, time.Second, nil).Get(context.Background(), "/models", nil)

			var statusErr *StatusError
			require.True(t, errors.As(err, &statusErr))
			assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
			assert.Equal(t, tt.want, statusErr.Message)
			assert.Contains(t, err.Error(), "prov: API returned status 401")
		})
	}
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	var out struct{}
	err := New("prov", server.URL, time.Second, nil).Get(context.Background(), "/", &out)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode response")
}

func TestClient_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New("prov", server.URL, time.Second, nil).Get(ctx, "/", nil)
	assert.ErrorIs(t, err, context.Canceled)
}
