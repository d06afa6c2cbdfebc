// Package resolver matches catalogue records against TMDB and memoizes
// the results through the cache store.
package resolver

import (
	"context"
	"log/slog"
	"sync"

	"github.com/smartshark27/movie-rating-checker/internal/cachestore"
	"github.com/smartshark27/movie-rating-checker/internal/media"
	"github.com/smartshark27/movie-rating-checker/internal/tmdb"
)

// DefaultConcurrency bounds simultaneous in-flight search+detail pairs.
const DefaultConcurrency = 40

// Client is the slice of the TMDB client the resolver needs.
type Client interface {
	SearchMovies(ctx context.Context, query, year string) ([]tmdb.SearchResult, error)
	SearchTV(ctx context.Context, query, year string) ([]tmdb.SearchResult, error)
	MovieDetails(ctx context.Context, movieID int) (*tmdb.Details, error)
	TVDetails(ctx context.Context, tvID int) (*tmdb.Details, error)
}

// Resolver turns media records into enrichment results. It is pure with
// respect to everything except the injected cache store.
type Resolver struct {
	client      Client
	cache       *cachestore.Store
	concurrency int
	cacheErrors bool
}

// Option is a functional option for configuring the Resolver.
type Option func(*Resolver)

// WithConcurrency sets the maximum number of records resolved against
// the network at once.
func WithConcurrency(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithCacheErrors controls whether misses caused by lookup errors are
// persisted to the cache. Off by default so a transient upstream outage
// cannot poison the cache; confirmed "no match" results are always cached.
func WithCacheErrors(enabled bool) Option {
	return func(r *Resolver) {
		r.cacheErrors = enabled
	}
}

// New creates a Resolver backed by the given client and cache store.
func New(client Client, cache *cachestore.Store, opts ...Option) *Resolver {
	resolver := &Resolver{
		client:      client,
		cache:       cache,
		concurrency: DefaultConcurrency,
	}

	for _, opt := range opts {
		opt(resolver)
	}

	return resolver
}

// Resolve enriches a single record. It never fails: records that cannot
// be matched upstream come back as zero-valued miss results carrying the
// original title and year.
func (r *Resolver) Resolve(ctx context.Context, rec media.Record) media.EnrichmentResult {
	return r.resolve(ctx, rec, nil)
}

// ResolveAll enriches every record concurrently, bounded by the
// configured concurrency limit. Results are collected positionally so
// the caller's input order is preserved for first-occurrence dedup.
func (r *Resolver) ResolveAll(ctx context.Context, recs []media.Record) []media.EnrichmentResult {
	results := make([]media.EnrichmentResult, len(recs))
	permits := make(chan struct{}, r.concurrency)

	var wg sync.WaitGroup
	for i, rec := range recs {
		wg.Add(1)
		go func(i int, rec media.Record) {
			defer wg.Done()
			results[i] = r.resolve(ctx, rec, permits)
		}(i, rec)
	}
	wg.Wait()

	return results
}

// resolve serves a record from cache when possible, otherwise performs
// the search+detail lookup pair under a concurrency permit.
func (r *Resolver) resolve(ctx context.Context, rec media.Record, permits chan struct{}) media.EnrichmentResult {
	key := rec.CacheKey()
	if cached, ok := r.cache.Lookup(key); ok {
		slog.Debug("Using cached TMDB data", "key", key)
		return cached
	}

	if !rec.MediaType.Valid() {
		slog.Warn("Unknown media type, treating as miss", "mediaType", rec.MediaType, "title", rec.Title)
		miss := media.Miss(rec)
		r.cache.Append(miss)
		return miss
	}

	if permits != nil {
		permits <- struct{}{}
		defer func() { <-permits }()
	}

	result, lookupErr := r.lookup(ctx, rec)
	if lookupErr != nil {
		// Degrade to a miss for this run; only persist it when the
		// legacy cache-errors behavior is requested.
		miss := media.Miss(rec)
		if r.cacheErrors {
			r.cache.Append(miss)
		}
		return miss
	}

	r.cache.Append(result)
	return result
}

// lookup performs the two-step remote resolution: free-text search, then
// a detail fetch for the top candidate. Provider-side relevance ranking
// is trusted; no local re-ranking.
func (r *Resolver) lookup(ctx context.Context, rec media.Record) (media.EnrichmentResult, error) {
	slog.Info("Searching TMDB", "title", rec.Title, "year", rec.Year, "mediaType", rec.MediaType)

	var (
		candidates []tmdb.SearchResult
		err        error
	)
	switch rec.MediaType {
	case media.TypeMovie:
		candidates, err = r.client.SearchMovies(ctx, rec.Title, rec.Year)
	case media.TypeShow:
		candidates, err = r.client.SearchTV(ctx, rec.Title, rec.Year)
	}
	if err != nil {
		slog.Warn("TMDB search failed", "title", rec.Title, "error", err)
		return media.EnrichmentResult{}, err
	}

	if len(candidates) == 0 {
		slog.Info("No TMDB results found", "title", rec.Title, "year", rec.Year, "mediaType", rec.MediaType)
		return media.Miss(rec), nil
	}

	var details *tmdb.Details
	switch rec.MediaType {
	case media.TypeMovie:
		details, err = r.client.MovieDetails(ctx, candidates[0].ID)
	case media.TypeShow:
		details, err = r.client.TVDetails(ctx, candidates[0].ID)
	}
	if err != nil {
		slog.Warn("TMDB detail lookup failed", "title", rec.Title, "id", candidates[0].ID, "error", err)
		return media.EnrichmentResult{}, err
	}

	return media.EnrichmentResult{
		CacheKey:    rec.CacheKey(),
		Title:       details.CanonicalTitle(),
		Year:        details.Year(),
		Popularity:  details.Popularity,
		Rating:      details.VoteAverage,
		RatingCount: details.VoteCount,
		IMDBID:      details.IMDBID,
	}, nil
}
