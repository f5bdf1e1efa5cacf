// Package catalog holds the clients for the external collaborators the
// engine consumes: the search index, the title detail endpoint, the stream
// token service and the image CDN.
package catalog

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

var (
	ErrSearchFailed = errors.New("search request failed")
	ErrDetailFailed = errors.New("detail request failed")
	ErrTokenFailed  = errors.New("stream token request failed")
)

const (
	DefaultRequestTimeout = 10 * time.Second
	defaultRetryMax       = 2
)

// Client talks to the catalog backend (search index and title details).
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}

	return &Client{
		httpClient: newRetryableHTTPClient(timeout, defaultRetryMax),
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger,
	}
}
