package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/smartshark27/movie-rating-checker/internal/media"
)

const defaultABCBaseURL = "https://api.iview.abc.net.au"

// ABC iView exposes curated collections through a public JSON API.
// Collection IDs come from the iview web player's collection pages.
var abcCollections = map[string]struct {
	id        string
	mediaType media.Type
}{
	"abc-movies-a-z":                  {"2711", media.TypeMovie},
	"abc-movies-of-the-week":          {"4028", media.TypeMovie},
	"abc-shows-best-of-british-tv":    {"2891", media.TypeShow},
	"abc-shows-comedy-gold":           {"3213", media.TypeShow},
	"abc-shows-time-for-a-rewatch":    {"3977", media.TypeShow},
	"abc-shows-timeless-tv-classics":  {"2641", media.TypeShow},
	"abc-shows-tv-shows-for-big-kids": {"3544", media.TypeShow},
}

func init() {
	for name := range abcCollections {
		name := name
		register(name, func(cfg Config) (Collector, error) {
			return newABC(name, cfg), nil
		})
	}
}

// abc fetches one ABC iView collection.
type abc struct {
	name      string
	baseURL   string
	id        string
	mediaType media.Type
	client    *http.Client
}

func newABC(name string, cfg Config) *abc {
	baseURL := cfg.ABCBaseURL
	if baseURL == "" {
		baseURL = defaultABCBaseURL
	}
	coll := abcCollections[name]
	return &abc{
		name:      name,
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		id:        coll.id,
		mediaType: coll.mediaType,
		client:    cfg.httpClient(),
	}
}

func (a *abc) Name() string { return a.name }

func (a *abc) Collect(ctx context.Context) ([]media.Record, error) {
	endpoint := fmt.Sprintf("%s/v3/collection/%s", a.baseURL, a.id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("abc iview fetch failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("abc iview: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload struct {
		Items []struct {
			Title    string `json:"title"`
			ShareURL string `json:"shareUrl"`
		} `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("abc iview: failed to decode response: %w", err)
	}

	records := make([]media.Record, 0, len(payload.Items))
	for _, item := range payload.Items {
		records = append(records, media.Record{
			MediaType: a.mediaType,
			Title:     item.Title,
			SourceURL: item.ShareURL,
		})
	}

	slog.Info("Collected ABC iView listings", "source", a.name, "count", len(records))
	return records, nil
}
