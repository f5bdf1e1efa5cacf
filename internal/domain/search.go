package domain

import "strconv"

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// SearchResult is an immutable value received from the remote index.
// Identity is (MediaType, ID).
type SearchResult struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	PosterPath  string    `json:"poster"`
	VoteAverage float64   `json:"vote_average"`
	VoteCount   int       `json:"vote_count"`
	MediaType   MediaType `json:"media_type"`
}

// Key returns the uniqueness key of a result.
func (r SearchResult) Key() string {
	return string(r.MediaType) + ":" + strconv.Itoa(r.ID)
}
