// Package pipeline merges collector output, drives enrichment, and
// applies dedup, threshold filtering and sorting.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/smartshark27/movie-rating-checker/internal/collector"
	"github.com/smartshark27/movie-rating-checker/internal/media"
)

// Metric selects the sort order of the final list.
type Metric string

const (
	MetricRating      Metric = "tmdb-rating"
	MetricRatingCount Metric = "tmdb-rating-count"
	MetricPopularity  Metric = "tmdb-popularity"
)

// Valid reports whether the metric is one of the supported sort keys.
func (m Metric) Valid() bool {
	return m == MetricRating || m == MetricRatingCount || m == MetricPopularity
}

// Thresholds holds the inclusive minimums a title must meet to survive
// filtering. Movies and shows may carry different thresholds.
type Thresholds struct {
	MovieRating      float64
	MovieRatingCount int
	ShowRating       float64
	ShowRatingCount  int
}

// Resolver enriches a batch of records. Satisfied by *resolver.Resolver.
type Resolver interface {
	ResolveAll(ctx context.Context, recs []media.Record) []media.EnrichmentResult
}

// Options configures an aggregation run.
type Options struct {
	SortBy     Metric
	Thresholds Thresholds
}

// Collect fetches all sources concurrently and flattens the results in
// source order. Any collector failure aborts the run: no source is
// optional.
func Collect(ctx context.Context, collectors []collector.Collector) ([]media.Record, error) {
	perSource := make([][]media.Record, len(collectors))

	g, ctx := errgroup.WithContext(ctx)
	for i, c := range collectors {
		i, c := i, c
		g.Go(func() error {
			records, err := c.Collect(ctx)
			if err != nil {
				return fmt.Errorf("collect %s: %w", c.Name(), err)
			}
			perSource[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []media.Record
	for _, records := range perSource {
		all = append(all, records...)
	}
	return all, nil
}

// Aggregate enriches the records, deduplicates, filters and sorts. The
// result is always complete: titles that could not be matched upstream
// come through as zero-rated entries and are dropped by the filter.
func Aggregate(ctx context.Context, records []media.Record, r Resolver, opts Options) []media.Enriched {
	results := r.ResolveAll(ctx, records)

	enriched := make([]media.Enriched, len(records))
	for i, rec := range records {
		enriched[i] = media.Enrich(rec, results[i])
	}

	enriched = dedupe(enriched)
	enriched = filter(enriched, opts.Thresholds)
	sortBy(enriched, opts.SortBy)

	return enriched
}

// dedupe drops repeated (mediaType, title) pairs; the first occurrence
// wins regardless of source.
func dedupe(list []media.Enriched) []media.Enriched {
	seen := make(map[string]struct{}, len(list))
	unique := list[:0:0]
	for _, item := range list {
		key := string(item.MediaType) + "\x00" + item.Title
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, item)
	}
	if dropped := len(list) - len(unique); dropped > 0 {
		slog.Info("Removed duplicate titles", "dropped", dropped)
	}
	return unique
}

// filter keeps items whose rating and rating count both meet the
// thresholds for their media type. Boundaries are inclusive.
func filter(list []media.Enriched, t Thresholds) []media.Enriched {
	kept := list[:0:0]
	for _, item := range list {
		minRating, minCount := t.MovieRating, t.MovieRatingCount
		if item.MediaType == media.TypeShow {
			minRating, minCount = t.ShowRating, t.ShowRatingCount
		}
		if item.Rating >= minRating && item.RatingCount >= minCount {
			kept = append(kept, item)
		}
	}
	return kept
}

// sortBy orders the list descending by the chosen metric. The sort is
// stable so equal items retain their prior relative order.
func sortBy(list []media.Enriched, metric Metric) {
	value := func(e media.Enriched) float64 {
		switch metric {
		case MetricRatingCount:
			return float64(e.RatingCount)
		case MetricPopularity:
			return e.Popularity
		default:
			return e.Rating
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return value(list[i]) > value(list[j])
	})
}
