// Package collector contains the per-catalogue fetchers. Each collector
// produces a uniform sequence of media records; pagination, cursoring
// and HTML parsing details stay invisible to the pipeline.
package collector

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/smartshark27/movie-rating-checker/internal/media"
)

// Collector fetches and normalizes one catalogue's listings.
type Collector interface {
	Name() string
	Collect(ctx context.Context) ([]media.Record, error)
}

// Config carries shared collector settings. Base URL overrides exist for
// tests; zero values select the live endpoints.
type Config struct {
	Client          *http.Client
	TubiAccessToken string

	ABCBaseURL     string
	SBSBaseURL     string
	TenPlayBaseURL string
	TubiBaseURL    string
}

func (c Config) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return &http.Client{Timeout: 30 * time.Second}
}

type factory func(cfg Config) (Collector, error)

var registry = map[string]factory{}

func register(name string, f factory) {
	registry[name] = f
}

// Sources resolves source names into collectors, in the given order.
func Sources(names []string, cfg Config) ([]Collector, error) {
	collectors := make([]Collector, 0, len(names))
	for _, name := range names {
		f, ok := registry[name]
		if !ok {
			return nil, fmt.Errorf("unknown media source %q", name)
		}
		c, err := f(cfg)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", name, err)
		}
		collectors = append(collectors, c)
	}
	return collectors, nil
}

// Names returns all registered source names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
