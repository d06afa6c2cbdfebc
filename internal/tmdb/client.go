// Package tmdb provides a client for TheMovieDB API.
package tmdb

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/smartshark27/movie-rating-checker/internal/ratelimit"
)

const (
	defaultBaseURL       = "https://api.themoviedb.org/3"
	defaultRatePerSecond = 4 // TMDB allows ~40 requests per 10 seconds
)

// ErrInvalidMediaType is returned when an unsupported media type is provided.
var ErrInvalidMediaType = errors.New("invalid media type")

// HTTPDoer is an interface for making HTTP requests.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// Client is a TMDB API client. Requests authenticate via the api_key
// query parameter.
type Client struct {
	apiKey      string
	baseURL     string
	httpClient  HTTPDoer
	rateLimiter *ratelimit.Limiter
}

// NewClient creates a new TMDB API client.
func NewClient(apiKey string, opts ...Option) *Client {
	client := &Client{
		apiKey:      apiKey,
		baseURL:     defaultBaseURL,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		rateLimiter: ratelimit.New("TMDB", defaultRatePerSecond),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c HTTPDoer) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithBaseURL sets a custom base URL for the TMDB API.
func WithBaseURL(base string) Option {
	return func(client *Client) {
		if base != "" {
			client.baseURL = strings.TrimSuffix(base, "/")
		}
	}
}

// WithRateLimiter sets a custom rate limiter for the client.
// Passing nil disables rate limiting.
func WithRateLimiter(limiter *ratelimit.Limiter) Option {
	return func(client *Client) {
		client.rateLimiter = limiter
	}
}
