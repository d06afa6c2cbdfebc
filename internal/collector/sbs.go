package collector

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/smartshark27/movie-rating-checker/internal/media"
)

const (
	defaultSBSBaseURL = "https://catalogue.pr.sbsod.com"
	sbsItemsPerPage   = "100"
	sbsMaxPages       = 20
)

var sbsCollections = map[string]string{
	"sbs-movies-all":               "all-movies",
	"sbs-movies-recently-added":    "recently-added-movies",
	"sbs-shows-all":                "all-tv-shows",
	"sbs-shows-bingeable-box-sets": "bingeable-box-sets",
	"sbs-shows-recently-added":     "recently-added-shows",
}

func init() {
	for name := range sbsCollections {
		name := name
		register(name, func(cfg Config) (Collector, error) {
			return newSBS(name, cfg), nil
		})
	}
}

// sbs fetches one SBS On Demand collection, following the catalogue
// API's base64-encoded cursor pagination.
type sbs struct {
	name    string
	baseURL string
	slug    string
	client  *http.Client
}

func newSBS(name string, cfg Config) *sbs {
	baseURL := cfg.SBSBaseURL
	if baseURL == "" {
		baseURL = defaultSBSBaseURL
	}
	return &sbs{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		slug:    sbsCollections[name],
		client:  cfg.httpClient(),
	}
}

func (s *sbs) Name() string { return s.name }

// sbsCursor is the query cursor the catalogue API expects, serialized as
// base64-encoded JSON. Field order matches the web player's requests.
type sbsCursor struct {
	Audio    string `json:"audio"`
	Genre    string `json:"genre"`
	Language string `json:"language"`
	Limit    string `json:"limit"`
	Page     string `json:"page"`
	Sort     string `json:"sort"`
	Subtitle string `json:"subtitle"`
	Type     string `json:"type"`
}

func (s *sbs) Collect(ctx context.Context) ([]media.Record, error) {
	var records []media.Record

	for page := 1; page <= sbsMaxPages; page++ {
		items, err := s.fetchPage(ctx, page)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		records = append(records, items...)
	}

	slog.Info("Collected SBS On Demand listings", "source", s.name, "count", len(records))
	return records, nil
}

func (s *sbs) fetchPage(ctx context.Context, page int) ([]media.Record, error) {
	cursorJSON, err := json.Marshal(sbsCursor{Limit: sbsItemsPerPage, Page: strconv.Itoa(page)})
	if err != nil {
		return nil, err
	}
	cursor := base64.StdEncoding.EncodeToString(cursorJSON)

	endpoint := fmt.Sprintf("%s/collections/%s?cursor=%s", s.baseURL, s.slug, url.QueryEscape(cursor))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Accept-Language", "en")
	req.Header.Set("Origin", "https://www.sbs.com.au")
	req.Header.Set("Referer", "https://www.sbs.com.au/")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sbs fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("sbs: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Items []struct {
			EntityType  string `json:"entityType"`
			Title       string `json:"title"`
			Slug        string `json:"slug"`
			ReleaseYear int    `json:"releaseYear"`
			MPXMediaID  int64  `json:"mpxMediaID"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("sbs: failed to decode response: %w", err)
	}

	records := make([]media.Record, 0, len(payload.Items))
	for _, item := range payload.Items {
		mediaType, pathSegment := sbsEntityType(item.EntityType)
		year := ""
		if item.ReleaseYear > 0 {
			year = strconv.Itoa(item.ReleaseYear)
		}
		records = append(records, media.Record{
			MediaType: mediaType,
			Title:     item.Title,
			Year:      year,
			SourceURL: fmt.Sprintf("https://www.sbs.com.au/ondemand/%s/%s/%d", pathSegment, item.Slug, item.MPXMediaID),
		})
	}
	return records, nil
}

// sbsEntityType maps the catalogue's entity types onto ours. Unrecognized
// types pass through lowercased; the resolver logs them as anomalies.
func sbsEntityType(entityType string) (media.Type, string) {
	switch entityType {
	case "MOVIE":
		return media.TypeMovie, "movie"
	case "TV_SERIES", "TV_PROGRAM":
		return media.TypeShow, "tv-series"
	default:
		return media.Type(strings.ToLower(entityType)), "movie"
	}
}
