package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moovidex/engine/internal/domain"
)

func TestStreamTokenProviderAddressesVariantByIndex(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/stream-token", r.URL.Path)
		assert.Equal(t, "414906", r.URL.Query().Get("id"))
		assert.Equal(t, "movie", r.URL.Query().Get("type"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"url": "https://stream.example/q%s"}`, r.URL.Query().Get("quality"))
	}))
	defer server.Close()

	provider := NewStreamTokenProvider(server.URL, time.Second, time.Hour, slog.Default())
	ctx := context.Background()

	url, err := provider.StreamURL(ctx, StreamRequest{ContentID: 414906, MediaType: domain.MediaTypeMovie, QualityIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, "https://stream.example/q0", url)

	url, err = provider.StreamURL(ctx, StreamRequest{ContentID: 414906, MediaType: domain.MediaTypeMovie, QualityIndex: 2})
	require.NoError(t, err)
	assert.Equal(t, "https://stream.example/q2", url, "each quality index resolves its own url")
}

func TestStreamTokenProviderCachesWithinRefreshInterval(t *testing.T) {
	var fetches atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write([]byte(`{"url": "https://stream.example/tokenized"}`))
	}))
	defer server.Close()

	provider := NewStreamTokenProvider(server.URL, time.Second, time.Hour, slog.Default())
	ctx := context.Background()
	req := StreamRequest{ContentID: 1, MediaType: domain.MediaTypeMovie, QualityIndex: 0}

	for i := 0; i < 3; i++ {
		_, err := provider.StreamURL(ctx, req)
		require.NoError(t, err)
	}
	assert.Equal(t, int64(1), fetches.Load(), "a fresh token must be served from cache")
}

func TestStreamTokenProviderRefreshesExpiredToken(t *testing.T) {
	var fetches atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fetches.Add(1)
		w.Write([]byte(`{"url": "https://stream.example/tokenized"}`))
	}))
	defer server.Close()

	provider := NewStreamTokenProvider(server.URL, time.Second, 20*time.Millisecond, slog.Default())
	ctx := context.Background()
	req := StreamRequest{ContentID: 1, MediaType: domain.MediaTypeMovie, QualityIndex: 0}

	_, err := provider.StreamURL(ctx, req)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	_, err = provider.StreamURL(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetches.Load(), "an aged token must be refetched")
}

func TestStreamTokenProviderRejectsEmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"url": ""}`))
	}))
	defer server.Close()

	provider := NewStreamTokenProvider(server.URL, time.Second, time.Hour, slog.Default())

	_, err := provider.StreamURL(context.Background(), StreamRequest{ContentID: 1, MediaType: domain.MediaTypeMovie})
	assert.ErrorIs(t, err, ErrTokenFailed)
}
