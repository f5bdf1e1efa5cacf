package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/moovidex/engine/internal/domain"
)

const DefaultTokenRefreshInterval = 6 * time.Hour

// StreamRequest addresses one playable variant of a title.
type StreamRequest struct {
	ContentID    int
	MediaType    domain.MediaType
	QualityIndex int
}

type tokenEntry struct {
	url       string
	fetchedAt time.Time
}

// StreamTokenProvider issues time-limited playable URLs and owns their
// refresh cycle. Callers treat the URL as an opaque string and must not
// attempt playback while it is still unresolved.
type StreamTokenProvider struct {
	httpClient      *http.Client
	baseURL         string
	refreshInterval time.Duration
	logger          *slog.Logger

	mu    sync.Mutex
	cache map[StreamRequest]tokenEntry
}

func NewStreamTokenProvider(baseURL string, timeout, refreshInterval time.Duration, logger *slog.Logger) *StreamTokenProvider {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if refreshInterval <= 0 {
		refreshInterval = DefaultTokenRefreshInterval
	}

	return &StreamTokenProvider{
		httpClient:      newRetryableHTTPClient(timeout, defaultRetryMax),
		baseURL:         baseURL,
		refreshInterval: refreshInterval,
		logger:          logger,
		cache:           make(map[StreamRequest]tokenEntry),
	}
}

// StreamURL returns a playable URL for the requested variant, refetching
// once the previous token aged past the refresh interval.
func (p *StreamTokenProvider) StreamURL(ctx context.Context, req StreamRequest) (string, error) {
	p.mu.Lock()
	entry, ok := p.cache[req]
	p.mu.Unlock()

	if ok && time.Since(entry.fetchedAt) < p.refreshInterval {
		return entry.url, nil
	}

	streamURL, err := p.fetch(ctx, req)
	if err != nil {
		return "", err
	}

	p.mu.Lock()
	p.cache[req] = tokenEntry{url: streamURL, fetchedAt: time.Now()}
	p.mu.Unlock()

	return streamURL, nil
}

func (p *StreamTokenProvider) fetch(ctx context.Context, streamReq StreamRequest) (string, error) {
	params := url.Values{}
	params.Set("id", strconv.Itoa(streamReq.ContentID))
	params.Set("type", string(streamReq.MediaType))
	params.Set("quality", strconv.Itoa(streamReq.QualityIndex))
	endpoint := p.baseURL + "/api/stream-token?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build stream token request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute stream token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrTokenFailed, resp.StatusCode)
	}

	var payload struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("failed to decode stream token response: %w", err)
	}

	if payload.URL == "" {
		return "", fmt.Errorf("%w: empty stream url", ErrTokenFailed)
	}

	return payload.URL, nil
}
