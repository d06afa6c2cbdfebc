// Package media defines the record types that flow through the
// aggregation and enrichment pipeline.
package media

// Type identifies the kind of a catalogue listing.
type Type string

const (
	TypeMovie Type = "movie"
	TypeShow  Type = "show"
)

// Valid reports whether the type is one of the recognized kinds.
func (t Type) Valid() bool {
	return t == TypeMovie || t == TypeShow
}

// Record is a normalized catalogue listing produced by a collector.
// Year is empty when the catalogue does not expose one.
type Record struct {
	MediaType Type   `json:"mediaType"`
	Title     string `json:"title"`
	Year      string `json:"year,omitempty"`
	SourceURL string `json:"sourceURL"`
}

// CacheKey derives the deterministic enrichment identity for the record.
// Records differing only in year map to distinct keys, so sequels and
// remakes are resolved independently.
func (r Record) CacheKey() string {
	year := r.Year
	if year == "" {
		year = "noyear"
	}
	return string(r.MediaType) + "-" + r.Title + "-" + year
}

// EnrichmentResult is the cached outcome of a TMDB lookup for one
// distinct (mediaType, title, year) identity. Never mutated once created.
type EnrichmentResult struct {
	CacheKey    string  `json:"cacheKey"`
	Title       string  `json:"title"`
	Year        string  `json:"year,omitempty"`
	Popularity  float64 `json:"tmdbPopularity"`
	Rating      float64 `json:"tmdbRating"`
	RatingCount int     `json:"tmdbRatingCount"`
	IMDBID      string  `json:"imdbID,omitempty"`
}

// Miss returns the zero-valued result for a record that could not be
// matched upstream. The scraped title and year are preserved so every
// input record still yields exactly one output record.
func Miss(rec Record) EnrichmentResult {
	return EnrichmentResult{
		CacheKey: rec.CacheKey(),
		Title:    rec.Title,
		Year:     rec.Year,
	}
}

// Enriched is the union of a catalogue record and its enrichment result.
// This is the unit that flows into dedup, filtering, sorting and output.
type Enriched struct {
	MediaType   Type    `json:"mediaType"`
	Title       string  `json:"title"`
	Year        string  `json:"year,omitempty"`
	SourceURL   string  `json:"sourceURL"`
	Popularity  float64 `json:"tmdbPopularity"`
	Rating      float64 `json:"tmdbRating"`
	RatingCount int     `json:"tmdbRatingCount"`
	IMDBID      string  `json:"imdbID,omitempty"`
}

// Enrich merges a record with its enrichment result. Result fields win
// on overlap: the canonical TMDB title and year supersede the scraped
// values when a match was found.
func Enrich(rec Record, res EnrichmentResult) Enriched {
	title := res.Title
	if title == "" {
		title = rec.Title
	}
	year := res.Year
	if year == "" {
		year = rec.Year
	}
	return Enriched{
		MediaType:   rec.MediaType,
		Title:       title,
		Year:        year,
		SourceURL:   rec.SourceURL,
		Popularity:  res.Popularity,
		Rating:      res.Rating,
		RatingCount: res.RatingCount,
		IMDBID:      res.IMDBID,
	}
}
