// Package search coordinates keystroke-driven lookups against the remote
// index: debounced, cancelable, last-issued-wins.
package search

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/samber/lo"

	"github.com/moovidex/engine/internal/domain"
)

// GenericErrorMessage is the only failure text ever surfaced; raw errors
// stay in the logs.
const GenericErrorMessage = "An error occurred while searching. Please try again."

const (
	DefaultDebounce       = 200 * time.Millisecond
	DefaultMinQueryLength = 3
)

type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.SearchResult, error)
}

// Sink receives coordinator outcomes for rendering.
type Sink interface {
	SearchResults(query string, results []domain.SearchResult)
	SearchPrompt()
	SearchLoading(active bool)
	SearchError(message string)
}

type Config struct {
	Debounce       time.Duration
	MinQueryLength int
}

// Coordinator issues at most one in-flight lookup and guarantees that only
// the response to the most recently issued query is ever rendered. Every
// issued query carries a monotonically increasing sequence number; a
// response is applied only if its number still equals the highest issued
// one at completion time.
type Coordinator struct {
	searcher Searcher
	sink     Sink
	logger   *slog.Logger
	cfg      Config

	mu             sync.Mutex
	seq            uint64
	debounceTimer  *time.Timer
	cancelInFlight context.CancelFunc
	closed         bool
}

func NewCoordinator(searcher Searcher, sink Sink, cfg Config, logger *slog.Logger) *Coordinator {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.MinQueryLength <= 0 {
		cfg.MinQueryLength = DefaultMinQueryLength
	}

	return &Coordinator{
		searcher: searcher,
		sink:     sink,
		logger:   logger,
		cfg:      cfg,
	}
}

// SetQuery feeds one keystroke-driven query string into the coordinator.
func (c *Coordinator) SetQuery(query string) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}

	c.seq++
	seq := c.seq

	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}

	if utf8.RuneCountInString(query) < c.cfg.MinQueryLength {
		if c.cancelInFlight != nil {
			c.cancelInFlight()
			c.cancelInFlight = nil
		}
		c.mu.Unlock()

		c.sink.SearchLoading(false)
		c.sink.SearchPrompt()
		return
	}

	c.debounceTimer = time.AfterFunc(c.cfg.Debounce, func() {
		c.issue(query, seq)
	})
	c.mu.Unlock()

	c.sink.SearchLoading(true)
}

func (c *Coordinator) issue(query string, seq uint64) {
	c.mu.Lock()
	if c.closed || seq != c.seq {
		c.mu.Unlock()
		return
	}

	// at most one outstanding request
	if c.cancelInFlight != nil {
		c.cancelInFlight()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelInFlight = cancel
	c.mu.Unlock()

	results, err := c.searcher.Search(ctx, query)

	c.mu.Lock()
	latest := !c.closed && seq == c.seq
	c.mu.Unlock()

	if !latest {
		// superseded: discard silently, whatever the outcome
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		c.logger.Warn("search request failed", "query", query, "error", err)
		c.sink.SearchLoading(false)
		c.sink.SearchError(GenericErrorMessage)
		return
	}

	results = lo.UniqBy(results, domain.SearchResult.Key)
	c.sink.SearchResults(query, results)
	c.sink.SearchLoading(false)
}

// Close cancels the pending debounce and any in-flight call. Safe to call
// more than once.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true
	if c.debounceTimer != nil {
		c.debounceTimer.Stop()
		c.debounceTimer = nil
	}
	if c.cancelInFlight != nil {
		c.cancelInFlight()
		c.cancelInFlight = nil
	}
}
