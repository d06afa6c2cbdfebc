package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"regexp"
	"slices"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/smartshark27/movie-rating-checker/internal/media"
)

const defaultTenPlayBaseURL = "https://10.com.au"

var tenPlayCollections = map[string]string{
	"tenplay-movies":       "/shows/movie",
	"tenplay-shows-comedy": "/shows/comedy",
	"tenplay-shows-drama":  "/shows/drama",
	"tenplay-shows-kids":   "/shows/kids",
}

// 10play embeds its listing data as a JS object literal inside a script
// tag rather than serving JSON.
var tenPlayDataPattern = regexp.MustCompile(`(?s)const\s+showsPageData\s*=\s*(\{.*?\});`)

func init() {
	for name := range tenPlayCollections {
		name := name
		register(name, func(cfg Config) (Collector, error) {
			return newTenPlay(name, cfg), nil
		})
	}
}

// tenPlay scrapes one 10play browse page.
type tenPlay struct {
	name    string
	baseURL string
	path    string
	client  *http.Client
}

func newTenPlay(name string, cfg Config) *tenPlay {
	baseURL := cfg.TenPlayBaseURL
	if baseURL == "" {
		baseURL = defaultTenPlayBaseURL
	}
	return &tenPlay{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		path:    tenPlayCollections[name],
		client:  cfg.httpClient(),
	}
}

func (t *tenPlay) Name() string { return t.name }

func (t *tenPlay) Collect(ctx context.Context) ([]media.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+t.path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("10play fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("10play: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("10play: failed to read page: %w", err)
	}

	records, err := parseTenPlayListings(body)
	if err != nil {
		return nil, err
	}

	slog.Info("Collected 10play listings", "source", t.name, "count", len(records))
	return records, nil
}

// parseTenPlayListings locates the showsPageData script inside the
// content wrapper and decodes the JSON object it assigns.
func parseTenPlayListings(page []byte) ([]media.Record, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(page)))
	if err != nil {
		return nil, fmt.Errorf("10play: failed to parse page: %w", err)
	}

	wrapper := doc.Find("div.content__wrapper--inner")
	if wrapper.Length() == 0 {
		return nil, fmt.Errorf("10play: content wrapper not found")
	}

	var script string
	wrapper.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if strings.Contains(s.Text(), "const showsPageData") {
			script = s.Text()
			return false
		}
		return true
	})
	if script == "" {
		return nil, fmt.Errorf("10play: showsPageData script not found")
	}

	match := tenPlayDataPattern.FindStringSubmatch(script)
	if match == nil {
		return nil, fmt.Errorf("10play: could not extract showsPageData JSON")
	}

	var payload struct {
		Shows []struct {
			Name   string   `json:"name"`
			Genres []string `json:"genres"`
			URL    string   `json:"url"`
		} `json:"shows"`
	}
	if err := json.Unmarshal([]byte(match[1]), &payload); err != nil {
		return nil, fmt.Errorf("10play: failed to decode showsPageData: %w", err)
	}

	records := make([]media.Record, 0, len(payload.Shows))
	for _, show := range payload.Shows {
		mediaType := media.TypeShow
		if slices.Contains(show.Genres, "Movies") {
			mediaType = media.TypeMovie
		}
		records = append(records, media.Record{
			MediaType: mediaType,
			Title:     show.Name,
			SourceURL: show.URL,
		})
	}
	return records, nil
}
