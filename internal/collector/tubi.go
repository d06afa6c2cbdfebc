package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/smartshark27/movie-rating-checker/internal/media"
)

const defaultTubiBaseURL = "https://tensor-cdn.production-public.tubi.io"

var tubiCollections = map[string]string{
	"tubi-award-winners-and-nominees": "award_winners_and_nominees",
	"tubi-cult-classics":              "cult_favorites",
	"tubi-most-popular":               "most_popular",
	"tubi-recently-added":             "recently_added",
	"tubi-trending-now":               "trending",
}

func init() {
	for name := range tubiCollections {
		name := name
		register(name, func(cfg Config) (Collector, error) {
			if cfg.TubiAccessToken == "" {
				return nil, fmt.Errorf("tubi access token is required (set tubi.accesstoken in config)")
			}
			return newTubi(name, cfg), nil
		})
	}
}

// tubi fetches one Tubi container. The container API requires a bearer
// token lifted from a logged-in web session.
type tubi struct {
	name    string
	baseURL string
	slug    string
	token   string
	client  *http.Client
}

func newTubi(name string, cfg Config) *tubi {
	baseURL := cfg.TubiBaseURL
	if baseURL == "" {
		baseURL = defaultTubiBaseURL
	}
	return &tubi{
		name:    name,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		slug:    tubiCollections[name],
		token:   cfg.TubiAccessToken,
		client:  cfg.httpClient(),
	}
}

func (t *tubi) Name() string { return t.name }

func (t *tubi) Collect(ctx context.Context) ([]media.Record, error) {
	params := url.Values{}
	params.Set("contents_limit", "200")
	params.Set("cursor", "0")
	endpoint := fmt.Sprintf("%s/api/v7/containers/%s?%s", t.baseURL, t.slug, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Authorization", "Bearer "+t.token)
	req.Header.Set("Origin", "https://tubitv.com")
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tubi fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("tubi: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Contents map[string]struct {
			Type  string `json:"type"`
			Title string `json:"title"`
			Year  int    `json:"year"`
			ID    string `json:"id"`
		} `json:"contents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("tubi: failed to decode response: %w", err)
	}

	records := make([]media.Record, 0, len(payload.Contents))
	for _, item := range payload.Contents {
		mediaType := media.TypeMovie
		pathSegment := "movies"
		if item.Type == "s" {
			mediaType = media.TypeShow
			pathSegment = "series"
		}
		year := ""
		if item.Year > 0 {
			year = strconv.Itoa(item.Year)
		}
		records = append(records, media.Record{
			MediaType: mediaType,
			Title:     item.Title,
			Year:      year,
			SourceURL: "https://tubitv.com/" + pathSegment + "/" + item.ID,
		})
	}

	// Contents arrive as a JSON object; sort for a stable record order.
	sort.Slice(records, func(i, j int) bool { return records[i].Title < records[j].Title })

	slog.Info("Collected Tubi listings", "source", t.name, "count", len(records))
	return records, nil
}
