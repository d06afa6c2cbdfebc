package tmdb

import (
	"context"
	"fmt"
	"net/url"
)

// SearchResult is a single candidate summary from a TMDB search. Only the
// identifier is needed downstream; the titles help logging.
type SearchResult struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Name  string `json:"name"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

// SearchMovies searches for movies by title. A non-empty year is passed
// as an exact-match filter; results are left in API relevance order.
func (c *Client) SearchMovies(ctx context.Context, query, year string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	if year != "" {
		params.Set("year", year)
	}

	return c.search(ctx, fmt.Sprintf("%s/search/movie?%s", c.baseURL, params.Encode()))
}

// SearchTV searches for TV shows by title. A non-empty year is matched
// against the first air date.
func (c *Client) SearchTV(ctx context.Context, query, year string) ([]SearchResult, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("query", query)
	if year != "" {
		params.Set("first_air_date_year", year)
	}

	return c.search(ctx, fmt.Sprintf("%s/search/tv?%s", c.baseURL, params.Encode()))
}

func (c *Client) search(ctx context.Context, endpoint string) ([]SearchResult, error) {
	var response searchResponse
	if err := c.getJSON(ctx, endpoint, &response); err != nil {
		return nil, err
	}
	return response.Results, nil
}
