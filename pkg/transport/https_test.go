package transport

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostDeliversBodyAndHeaders(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"transactions":[]}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	result, err := client.Post(context.Background(), server.URL, []byte(`{"document":{}}`), map[string]string{
		"Shinkansen-Api-Key": "test-key",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, result.StatusCode)
	assert.Equal(t, `{"transactions":[]}`, string(result.Body))
	assert.Equal(t, `{"document":{}}`, string(gotBody))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "test-key", gotHeaders.Get("Shinkansen-Api-Key"))
	assert.Equal(t, "shinkansen-go/1.0", gotHeaders.Get("User-Agent"))
}

func TestPostReturnsErrorStatusAsResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"errors":[{"error_code":"bad","error_message":"nope"}]}`))
	}))
	defer server.Close()

	client := NewClient(nil)
	result, err := client.Post(context.Background(), server.URL, []byte("{}"), nil)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, result.StatusCode)
	assert.Contains(t, string(result.Body), "error_code")
}

func TestPostNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listening anymore

	client := NewClient(nil)
	_, err := client.Post(context.Background(), server.URL, []byte("{}"), nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPostTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	client := NewClient(cfg)

	_, err := client.Post(context.Background(), server.URL, []byte("{}"), nil)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestPostContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewClient(nil)
	_, err := client.Post(ctx, server.URL, []byte("{}"), nil)
	assert.ErrorIs(t, err, ErrTransport)
}
