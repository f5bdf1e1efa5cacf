package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/moovidex/engine/internal/domain"
)

// MovieDetails fetches the metadata record of a movie, including its
// ordered quality variants.
func (c *Client) MovieDetails(ctx context.Context, id int) (domain.TitleDetails, error) {
	details, err := c.fetchDetails(ctx, c.baseURL+"/api/getMovieDetails?mid="+strconv.Itoa(id))
	if err != nil {
		return domain.TitleDetails{}, err
	}
	details.MediaType = domain.MediaTypeMovie

	return details, nil
}

// TVDetails fetches the metadata record of a show.
func (c *Client) TVDetails(ctx context.Context, id int) (domain.TitleDetails, error) {
	details, err := c.fetchDetails(ctx, c.baseURL+"/api/getTvDetails?tid="+strconv.Itoa(id))
	if err != nil {
		return domain.TitleDetails{}, err
	}
	details.MediaType = domain.MediaTypeTV

	return details, nil
}

func (c *Client) fetchDetails(ctx context.Context, endpoint string) (domain.TitleDetails, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.TitleDetails{}, fmt.Errorf("failed to build detail request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.TitleDetails{}, fmt.Errorf("failed to execute detail request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.TitleDetails{}, fmt.Errorf("%w: status %d", ErrDetailFailed, resp.StatusCode)
	}

	var details domain.TitleDetails
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return domain.TitleDetails{}, fmt.Errorf("failed to decode detail response: %w", err)
	}

	normalizeDetails(&details)

	return details, nil
}

// normalizeDetails degrades missing fields to fallback defaults instead of
// failing the page.
func normalizeDetails(details *domain.TitleDetails) {
	for i := range details.Quality {
		q := &details.Quality[i]
		if q.Audio == "" {
			q.Audio = domain.DefaultAudioLabel
		}
		if q.Subtitle == "" {
			q.Subtitle = domain.DefaultSubtitleLabel
		}
		if q.Type == "" {
			q.Type = "N/A"
		}
		if q.Size == "" {
			q.Size = "N/A"
		}
	}
}
