package tmdb

import (
	"context"
	"fmt"
	"net/url"
)

// Details is the subset of a TMDB detail payload the pipeline consumes.
// Movies populate Title and ReleaseDate; TV shows populate Name and
// FirstAirDate.
type Details struct {
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Popularity   float64 `json:"popularity"`
	VoteAverage  float64 `json:"vote_average"`
	VoteCount    int     `json:"vote_count"`
	IMDBID       string  `json:"imdb_id"`
}

// CanonicalTitle returns the TMDB display title regardless of media kind.
func (d *Details) CanonicalTitle() string {
	if d.Title != "" {
		return d.Title
	}
	return d.Name
}

// Year extracts the release year (movies) or first air year (TV shows).
// Returns "" when neither date is present.
func (d *Details) Year() string {
	date := d.ReleaseDate
	if date == "" {
		date = d.FirstAirDate
	}
	if len(date) >= 4 {
		return date[:4]
	}
	return ""
}

// MovieDetails fetches detailed information for a movie by ID.
func (c *Client) MovieDetails(ctx context.Context, movieID int) (*Details, error) {
	endpoint := fmt.Sprintf("%s/movie/%d?api_key=%s", c.baseURL, movieID, url.QueryEscape(c.apiKey))
	return c.details(ctx, endpoint)
}

// TVDetails fetches detailed information for a TV show by ID.
func (c *Client) TVDetails(ctx context.Context, tvID int) (*Details, error) {
	endpoint := fmt.Sprintf("%s/tv/%d?api_key=%s", c.baseURL, tvID, url.QueryEscape(c.apiKey))
	return c.details(ctx, endpoint)
}

func (c *Client) details(ctx context.Context, endpoint string) (*Details, error) {
	var details Details
	if err := c.getJSON(ctx, endpoint, &details); err != nil {
		return nil, err
	}
	return &details, nil
}
