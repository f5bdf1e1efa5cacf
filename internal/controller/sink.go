package controller

import "github.com/moovidex/engine/internal/domain"

// searchSink pushes coordinator outcomes to the surface.
type searchSink struct {
	writer *connWriter
}

type searchResultsPayload struct {
	Query   string                `json:"query"`
	Results []domain.SearchResult `json:"results"`
}

func (s searchSink) SearchResults(query string, results []domain.SearchResult) {
	s.writer.write("SEARCH_RESULTS", searchResultsPayload{Query: query, Results: results})
}

func (s searchSink) SearchPrompt() {
	s.writer.write("SEARCH_PROMPT", nil)
}

func (s searchSink) SearchLoading(active bool) {
	s.writer.write("SEARCH_LOADING", map[string]bool{"active": active})
}

func (s searchSink) SearchError(message string) {
	s.writer.write("SEARCH_ERROR", map[string]string{"message": message})
}
