package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/smartshark27/movie-rating-checker/internal/collector"
	"github.com/smartshark27/movie-rating-checker/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCollector struct {
	name    string
	records []media.Record
	err     error
}

func (s stubCollector) Name() string { return s.name }

func (s stubCollector) Collect(context.Context) ([]media.Record, error) {
	return s.records, s.err
}

// identityResolver echoes each record back as an enrichment result with
// canned ratings, keyed by title.
type identityResolver struct {
	ratings map[string]media.EnrichmentResult
}

func (r identityResolver) ResolveAll(_ context.Context, recs []media.Record) []media.EnrichmentResult {
	results := make([]media.EnrichmentResult, len(recs))
	for i, rec := range recs {
		if res, ok := r.ratings[rec.Title]; ok {
			res.CacheKey = rec.CacheKey()
			results[i] = res
			continue
		}
		results[i] = media.Miss(rec)
	}
	return results
}

func TestCollectFlattensInSourceOrder(t *testing.T) {
	collectors := []collector.Collector{
		stubCollector{name: "a", records: []media.Record{
			{MediaType: media.TypeMovie, Title: "First"},
			{MediaType: media.TypeMovie, Title: "Second"},
		}},
		stubCollector{name: "b", records: []media.Record{
			{MediaType: media.TypeShow, Title: "Third"},
		}},
	}

	records, err := Collect(context.Background(), collectors)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "First", records[0].Title)
	assert.Equal(t, "Second", records[1].Title)
	assert.Equal(t, "Third", records[2].Title)
}

func TestCollectFailsFast(t *testing.T) {
	collectors := []collector.Collector{
		stubCollector{name: "ok", records: []media.Record{{Title: "Fine"}}},
		stubCollector{name: "broken", err: errors.New("connection reset")},
	}

	_, err := Collect(context.Background(), collectors)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collect broken")
}

func TestAggregateDedupFirstWins(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "Up", SourceURL: "https://sourceA"},
		{MediaType: media.TypeMovie, Title: "Up", SourceURL: "https://sourceB"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"Up": {Title: "Up", Rating: 7.9, RatingCount: 20000},
	}}

	got := Aggregate(context.Background(), records, r, Options{SortBy: MetricRating})

	require.Len(t, got, 1)
	assert.Equal(t, "https://sourceA", got[0].SourceURL)
}

func TestAggregateSameTitleDifferentTypeBothKept(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "Fargo"},
		{MediaType: media.TypeShow, Title: "Fargo"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"Fargo": {Title: "Fargo", Rating: 8, RatingCount: 500},
	}}

	got := Aggregate(context.Background(), records, r, Options{SortBy: MetricRating})
	assert.Len(t, got, 2)
}

func TestAggregateFilterInclusiveBoundary(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "Boundary"},
		{MediaType: media.TypeMovie, Title: "JustUnder"},
		{MediaType: media.TypeMovie, Title: "TooFewVotes"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"Boundary":    {Title: "Boundary", Rating: 7.0, RatingCount: 100},
		"JustUnder":   {Title: "JustUnder", Rating: 6.9, RatingCount: 5000},
		"TooFewVotes": {Title: "TooFewVotes", Rating: 9.5, RatingCount: 99},
	}}

	opts := Options{
		SortBy: MetricRating,
		Thresholds: Thresholds{
			MovieRating: 7, MovieRatingCount: 100,
			ShowRating: 7, ShowRatingCount: 100,
		},
	}
	got := Aggregate(context.Background(), records, r, opts)

	require.Len(t, got, 1)
	assert.Equal(t, "Boundary", got[0].Title)
}

func TestAggregatePerTypeThresholds(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "Movie"},
		{MediaType: media.TypeShow, Title: "Show"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"Movie": {Title: "Movie", Rating: 7.5, RatingCount: 150},
		"Show":  {Title: "Show", Rating: 7.5, RatingCount: 150},
	}}

	opts := Options{
		SortBy: MetricRating,
		Thresholds: Thresholds{
			MovieRating: 7, MovieRatingCount: 100,
			ShowRating: 8, ShowRatingCount: 100,
		},
	}
	got := Aggregate(context.Background(), records, r, opts)

	require.Len(t, got, 1)
	assert.Equal(t, "Movie", got[0].Title)
}

func TestAggregateSortStable(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "A"},
		{MediaType: media.TypeMovie, Title: "B"},
		{MediaType: media.TypeMovie, Title: "C"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"A": {Title: "A", Rating: 7, RatingCount: 1},
		"B": {Title: "B", Rating: 9, RatingCount: 1},
		"C": {Title: "C", Rating: 7, RatingCount: 1},
	}}

	got := Aggregate(context.Background(), records, r, Options{SortBy: MetricRating})

	require.Len(t, got, 3)
	assert.Equal(t, "B", got[0].Title)
	assert.Equal(t, "A", got[1].Title)
	assert.Equal(t, "C", got[2].Title)
}

func TestAggregateSortByRatingCountAndPopularity(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "Niche"},
		{MediaType: media.TypeMovie, Title: "Blockbuster"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"Niche":       {Title: "Niche", Rating: 9, RatingCount: 100, Popularity: 2},
		"Blockbuster": {Title: "Blockbuster", Rating: 7, RatingCount: 90000, Popularity: 250},
	}}

	byCount := Aggregate(context.Background(), records, r, Options{SortBy: MetricRatingCount})
	assert.Equal(t, "Blockbuster", byCount[0].Title)

	byPopularity := Aggregate(context.Background(), records, r, Options{SortBy: MetricPopularity})
	assert.Equal(t, "Blockbuster", byPopularity[0].Title)

	byRating := Aggregate(context.Background(), records, r, Options{SortBy: MetricRating})
	assert.Equal(t, "Niche", byRating[0].Title)
}

func TestAggregateMissesFilteredOut(t *testing.T) {
	records := []media.Record{
		{MediaType: media.TypeMovie, Title: "Matched"},
		{MediaType: media.TypeMovie, Title: "Unmatched"},
	}
	r := identityResolver{ratings: map[string]media.EnrichmentResult{
		"Matched": {Title: "Matched", Rating: 8, RatingCount: 1000},
	}}

	opts := Options{
		SortBy:     MetricRating,
		Thresholds: Thresholds{MovieRating: 7, MovieRatingCount: 100},
	}
	got := Aggregate(context.Background(), records, r, opts)

	require.Len(t, got, 1)
	assert.Equal(t, "Matched", got[0].Title)
}

func TestMetricValid(t *testing.T) {
	assert.True(t, MetricRating.Valid())
	assert.True(t, MetricRatingCount.Valid())
	assert.True(t, MetricPopularity.Valid())
	assert.False(t, Metric("imdb-rating").Valid())
}
